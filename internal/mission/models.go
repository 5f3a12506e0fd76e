package mission

// Mission is one entry of the gamified daily mission catalog. GuidelineKey
// links the mission to the household object its behavioral guide describes.
type Mission struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	GuidelineKey   string   `json:"guidelineKey"`
	DustConditions []string `json:"dustConditions,omitempty"`
}

// Guide is a fully assembled behavioral guide for one household object:
// the base messages for the current dust level plus any conditional
// messages the user's profile pulled in.
type Guide struct {
	Key            string   `json:"key"`
	Title          string   `json:"title"`
	Content        []string `json:"content"`
	ProfileApplied []string `json:"profileApplied"`
	Priority       int      `json:"priority"`
}

// DailySelection is a cached mission selection for one calendar day and one
// profile state.
type DailySelection struct {
	UserID      string    `json:"userId"`
	Date        string    `json:"date"`
	Fingerprint string    `json:"fingerprint"`
	Missions    []Mission `json:"missions"`
}

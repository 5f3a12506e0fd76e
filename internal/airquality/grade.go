package airquality

// Grade is one of seven ordinal air-quality categories derived from a
// pollutant concentration.
type Grade string

const (
	GradeVeryGood Grade = "very_good"
	GradeGood     Grade = "good"
	GradeFair     Grade = "fair"
	GradeModerate Grade = "moderate"
	GradeCaution  Grade = "caution"
	GradeBad      Grade = "bad"
	GradeVeryBad  Grade = "very_bad"
	GradeUnknown  Grade = "unknown"
)

// gradeLadder holds the seven grades in ascending severity.
var gradeLadder = []Grade{
	GradeVeryGood, GradeGood, GradeFair, GradeModerate,
	GradeCaution, GradeBad, GradeVeryBad,
}

// Breakpoint tables: inclusive upper bounds per grade, in ladder order.
// These values come from the national air-quality index and are a fixed
// external contract; do not tune them without a product decision.
var (
	pm10Bounds = []float64{15, 30, 55, 80, 115, 150}
	pm25Bounds = []float64{7.5, 15, 25, 35, 55, 75}
	o3Bounds   = []float64{0.015, 0.03, 0.06, 0.09, 0.12, 0.15}
)

// GradeFor maps a pollutant concentration to its grade. Every value maps to
// exactly one grade; unknown pollutants grade as GradeUnknown.
func GradeFor(p Pollutant, value float64) Grade {
	var bounds []float64
	switch p {
	case PollutantPM10:
		bounds = pm10Bounds
	case PollutantPM25:
		bounds = pm25Bounds
	case PollutantO3:
		bounds = o3Bounds
	default:
		return GradeUnknown
	}

	for i, upper := range bounds {
		if value <= upper {
			return gradeLadder[i]
		}
	}
	return GradeVeryBad
}

// GradeForPM10 grades a PM10 concentration in µg/m³.
func GradeForPM10(value float64) Grade { return GradeFor(PollutantPM10, value) }

// GradeForPM25 grades a PM2.5 concentration in µg/m³.
func GradeForPM25(value float64) Grade { return GradeFor(PollutantPM25, value) }

// Label returns the Korean display label for the grade.
func (g Grade) Label() string {
	switch g {
	case GradeVeryGood:
		return "매우 좋음"
	case GradeGood:
		return "좋음"
	case GradeFair:
		return "양호"
	case GradeModerate:
		return "보통"
	case GradeCaution:
		return "주의"
	case GradeBad:
		return "나쁨"
	case GradeVeryBad:
		return "매우 나쁨"
	default:
		return "정보 없음"
	}
}

// Mood is the display treatment for a grade.
type Mood struct {
	Label      string `json:"label"`
	Emoji      string `json:"emoji"`
	Color      string `json:"color"`
	Background string `json:"background"`
}

var moodByGrade = map[Grade]Mood{
	GradeVeryGood: {Label: "상쾌한 하루!", Emoji: "😊", Color: "#4285F4", Background: "#B3D5F5"},
	GradeGood:     {Label: "좋은 공기!", Emoji: "🙂", Color: "#1976D2", Background: "#90C5F0"},
	GradeFair:     {Label: "괜찮아요", Emoji: "😐", Color: "#22B14C", Background: "#A8E0B8"},
	GradeModerate: {Label: "조금 주의", Emoji: "😕", Color: "#B5E61D", Background: "#E5F5A8"},
	GradeCaution:  {Label: "마스크 권장", Emoji: "😟", Color: "#FFD400", Background: "#FFE880"},
	GradeBad:      {Label: "실외 활동 자제", Emoji: "😰", Color: "#FF7F27", Background: "#FFB87A"},
	GradeVeryBad:  {Label: "실외 금지!", Emoji: "😱", Color: "#F52020", Background: "#F88B8B"},
}

// defaultMood is rendered for any grade without a mood entry.
var defaultMood = Mood{Label: "정보 없음", Emoji: "😐", Color: "#6B7280", Background: "#F9FAFB"}

// MoodFor returns the display mood for a grade. Grades without an entry get
// the defined default mood rather than panicking.
func MoodFor(g Grade) Mood {
	if m, ok := moodByGrade[g]; ok {
		return m
	}
	return defaultMood
}

// Level is the coarse four-step behavioral level used to pick guide text.
type Level string

const (
	LevelGood     Level = "good"
	LevelModerate Level = "moderate"
	LevelBad      Level = "bad"
	LevelVeryBad  Level = "very_bad"
)

// LevelForPM10 maps a PM10 value to a behavioral level. A missing or zero
// value maps to LevelModerate by convention: the guides should give middling
// advice, not crash or go silent, when the reading has gaps.
func LevelForPM10(pm10 *float64) Level {
	if pm10 == nil || *pm10 == 0 {
		return LevelModerate
	}
	switch v := *pm10; {
	case v <= 30:
		return LevelGood
	case v <= 80:
		return LevelModerate
	case v <= 150:
		return LevelBad
	default:
		return LevelVeryBad
	}
}

package mission

import (
	"sort"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/profile"
)

// Profile-applied badge labels shown next to a guide.
const (
	appliedHealth = "건강 상태"
	appliedPet    = "반려동물"
	appliedAge    = "연령대"
	appliedChild  = "아이"
)

// BuildGuides assembles the behavioral guide list for a dust level and
// profile. Guides the profile contributed messages to sort first, then by
// priority descending; the remaining order is the fixed catalog order.
func BuildGuides(level airquality.Level, p *profile.UserProfile) []Guide {
	guides := make([]Guide, 0, len(GuidelineKeys))
	for _, key := range GuidelineKeys {
		guides = append(guides, buildGuide(key, level, p))
	}

	sort.SliceStable(guides, func(i, j int) bool {
		ai, aj := len(guides[i].ProfileApplied) > 0, len(guides[j].ProfileApplied) > 0
		if ai != aj {
			return ai
		}
		return guides[i].Priority > guides[j].Priority
	})

	return guides
}

// GuideFor assembles a single guide, for callers that already know which
// household object the user is looking at.
func GuideFor(key string, level airquality.Level, p *profile.UserProfile) (Guide, bool) {
	if _, ok := guidelines[key]; !ok {
		return Guide{}, false
	}
	return buildGuide(key, level, p), true
}

func buildGuide(key string, level airquality.Level, p *profile.UserProfile) Guide {
	g := guidelines[key]

	content := make([]string, 0, 4)
	content = append(content, g.base[level]...)

	var applied []string
	priority := 0

	appendCond := func(condKey, badge string, bonus int) {
		msgs, ok := g.conditional[condKey]
		if !ok {
			return
		}
		levelMsgs, ok := msgs[level]
		if !ok || len(levelMsgs) == 0 {
			return
		}
		content = append(content, levelMsgs...)
		applied = append(applied, badge)
		priority += bonus
	}

	if p != nil {
		if p.Health != "" && p.Health != profile.HealthNone {
			appendCond(condHealthPrefix+p.Health, appliedHealth, 10)
		}
		if p.Pet == profile.PetDog {
			appendCond(condPetDog, appliedPet, 10)
		}
		if p.AgeGroup != "" {
			ageKey := condAgePrefix + p.AgeGroup
			if p.AgeGroup == profile.AgeGroupSenior {
				ageKey = condAgeElderly
			}
			appendCond(ageKey, appliedAge, 7)
		}
		if p.HasChild() {
			appendCond(condChild, appliedChild, 6)
		}

		priority += keyBonus(key, p)
	}

	// Outing guidance gets a small constant boost so the door guide stays
	// near the top for everyone.
	if key == KeyDoor {
		priority++
	}

	return Guide{
		Key:            key,
		Title:          Title(key),
		Content:        content,
		ProfileApplied: applied,
		Priority:       priority,
	}
}

// keyBonus adds the smaller fixed profile/object affinity weights that apply
// even when no conditional message fired for the current dust level.
func keyBonus(key string, p *profile.UserProfile) int {
	bonus := 0

	switch p.Health {
	case profile.HealthAsthma:
		if key == KeyFan {
			bonus += 5
		}
	case profile.HealthAllergyRhinitis:
		if key == KeySink || key == KeyClean {
			bonus += 3
		}
	case profile.HealthLungDisease:
		if key == KeyDoor {
			bonus += 4
		}
	}

	switch p.AgeGroup {
	case profile.AgeGroupSenior:
		if key == KeyRefrigeator {
			bonus += 2
		}
	case profile.AgeGroupChild:
		if key == KeyDoor {
			bonus += 3
		}
	}

	if p.HasChild() && key == KeySofa {
		bonus += 2
	}

	if p.Pet == profile.PetDog {
		if key == KeyDog {
			bonus += 5
		}
		if key == KeyClean {
			bonus += 3
		}
	}

	return bonus
}

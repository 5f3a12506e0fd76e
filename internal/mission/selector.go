package mission

import (
	"sort"

	"github.com/dustwatch/dustwatch/internal/profile"
	"github.com/dustwatch/dustwatch/pkg/seedrand"
)

// Priority computes the profile-relevance score for a mission. The weights
// are fixed product configuration, additive across matching attributes.
func Priority(m *Mission, p *profile.UserProfile) int {
	if p == nil {
		return 0
	}

	priority := 0

	switch p.Health {
	case profile.HealthAsthma:
		if m.GuidelineKey == KeyFan {
			priority += 10
		}
	case profile.HealthAllergyRhinitis:
		if m.GuidelineKey == KeySink || m.GuidelineKey == KeyClean {
			priority += 8
		}
	case profile.HealthLungDisease:
		if m.GuidelineKey == KeyDoor {
			priority += 9
		}
	}

	switch p.AgeGroup {
	case profile.AgeGroupSenior:
		if m.GuidelineKey == KeyRefrigeator {
			priority += 5
		}
	case profile.AgeGroupChild:
		if m.GuidelineKey == KeyDoor {
			priority += 7
		}
	}

	if p.HasChild() && m.GuidelineKey == KeySofa {
		priority += 6
	}

	if p.Pet == profile.PetDog {
		if m.GuidelineKey == KeyDog {
			priority += 10
		}
		if m.GuidelineKey == KeyClean {
			priority += 7
		}
	}

	return priority
}

// SelectDaily picks up to count missions for one calendar day, deterministic
// for a given (catalog, date, profile) triple. Profile-matched missions come
// first, highest priority first; equal priorities order by the seeded hash
// of each mission's ID; remaining slots fill from unmatched missions in
// seeded order.
func SelectDaily(catalog []Mission, count int, date string, p *profile.UserProfile) []Mission {
	if count <= 0 || len(catalog) == 0 {
		return []Mission{}
	}

	type scored struct {
		Mission
		priority int
	}

	entries := make([]scored, len(catalog))
	for i, m := range catalog {
		entries[i] = scored{Mission: m, priority: Priority(&m, p)}
	}

	seed := seedrand.DateSeed(date)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return seedrand.Less(seed, entries[i].ID, entries[j].ID)
	})

	selected := make([]Mission, 0, count)
	for _, e := range entries {
		if e.priority > 0 && len(selected) < count {
			selected = append(selected, e.Mission)
		}
	}
	for _, e := range entries {
		if e.priority == 0 && len(selected) < count {
			selected = append(selected, e.Mission)
		}
	}

	return selected
}

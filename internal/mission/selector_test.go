package mission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustwatch/dustwatch/internal/mission"
	"github.com/dustwatch/dustwatch/internal/profile"
)

func missionIDs(missions []mission.Mission) []int {
	ids := make([]int, len(missions))
	for i, m := range missions {
		ids[i] = m.ID
	}
	return ids
}

func TestSelectDaily_Idempotent(t *testing.T) {
	catalog := mission.Catalog()
	p := &profile.UserProfile{Health: profile.HealthAsthma, Pet: profile.PetDog}

	first := mission.SelectDaily(catalog, 5, "2025-06-01", p)
	second := mission.SelectDaily(catalog, 5, "2025-06-01", p)

	require.Len(t, first, 5)
	assert.Equal(t, first, second)
}

func TestSelectDaily_PriorityMatchesRankFirst(t *testing.T) {
	catalog := mission.Catalog()
	p := &profile.UserProfile{Pet: profile.PetDog}

	selected := mission.SelectDaily(catalog, 5, "2025-06-01", p)
	require.Len(t, selected, 5)

	// dog (+10) then clean (+7) outrank every unmatched mission.
	assert.Equal(t, mission.KeyDog, selected[0].GuidelineKey)
	assert.Equal(t, mission.KeyClean, selected[1].GuidelineKey)
	for _, m := range selected[2:] {
		assert.Zero(t, mission.Priority(&m, p))
	}
}

func TestSelectDaily_ProfileChangesSelection(t *testing.T) {
	catalog := mission.Catalog()

	withDog := mission.SelectDaily(catalog, 3, "2025-06-01", &profile.UserProfile{Pet: profile.PetDog})
	without := mission.SelectDaily(catalog, 3, "2025-06-01", &profile.UserProfile{})

	assert.NotEqual(t, missionIDs(withDog), missionIDs(without))
}

func TestSelectDaily_DateChangesOrdering(t *testing.T) {
	catalog := mission.Catalog()
	p := &profile.UserProfile{}

	// Across many day pairs at least one must differ; a fixed pair could
	// legitimately collide.
	dates := []string{"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05"}
	varied := false
	base := missionIDs(mission.SelectDaily(catalog, 5, dates[0], p))
	for _, d := range dates[1:] {
		if !assert.ObjectsAreEqual(base, missionIDs(mission.SelectDaily(catalog, 5, d, p))) {
			varied = true
			break
		}
	}
	assert.True(t, varied, "selection never varied across dates")
}

func TestSelectDaily_EqualPriorityTieStability(t *testing.T) {
	catalog := []mission.Mission{
		{ID: 1, Title: "a", GuidelineKey: mission.KeyWindow},
		{ID: 2, Title: "b", GuidelineKey: mission.KeyLight},
	}
	p := &profile.UserProfile{}

	first := mission.SelectDaily(catalog, 2, "2025-01-01", p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, mission.SelectDaily(catalog, 2, "2025-01-01", p))
	}
}

func TestSelectDaily_CountEdgeCases(t *testing.T) {
	catalog := mission.Catalog()
	p := &profile.UserProfile{}

	assert.Empty(t, mission.SelectDaily(catalog, 0, "2025-06-01", p))
	assert.Empty(t, mission.SelectDaily(catalog, -3, "2025-06-01", p))
	assert.Len(t, mission.SelectDaily(catalog, 100, "2025-06-01", p), len(catalog))
	assert.Empty(t, mission.SelectDaily(nil, 5, "2025-06-01", p))
}

func TestPriority_WeightTable(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		profile profile.UserProfile
		want    int
	}{
		{"asthma boosts purifier", mission.KeyFan, profile.UserProfile{Health: profile.HealthAsthma}, 10},
		{"rhinitis boosts washing", mission.KeySink, profile.UserProfile{Health: profile.HealthAllergyRhinitis}, 8},
		{"rhinitis boosts cleaning", mission.KeyClean, profile.UserProfile{Health: profile.HealthAllergyRhinitis}, 8},
		{"lung disease boosts outing care", mission.KeyDoor, profile.UserProfile{Health: profile.HealthLungDisease}, 9},
		{"senior boosts hydration", mission.KeyRefrigeator, profile.UserProfile{AgeGroup: profile.AgeGroupSenior}, 5},
		{"child age boosts outing care", mission.KeyDoor, profile.UserProfile{AgeGroup: profile.AgeGroupChild}, 7},
		{"household child boosts furniture", mission.KeySofa, profile.UserProfile{Child: profile.ChildInfant}, 6},
		{"dog boosts dog care", mission.KeyDog, profile.UserProfile{Pet: profile.PetDog}, 10},
		{"dog boosts cleaning", mission.KeyClean, profile.UserProfile{Pet: profile.PetDog}, 7},
		{"no match scores zero", mission.KeyPlants, profile.UserProfile{Pet: profile.PetDog}, 0},
		{"weights are additive", mission.KeyClean, profile.UserProfile{
			Health: profile.HealthAllergyRhinitis, Pet: profile.PetDog,
		}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mission.Mission{ID: 1, GuidelineKey: tt.key}
			assert.Equal(t, tt.want, mission.Priority(m, &tt.profile))
		})
	}
}

func TestPriority_NilProfile(t *testing.T) {
	m := &mission.Mission{ID: 1, GuidelineKey: mission.KeyDog}
	assert.Zero(t, mission.Priority(m, nil))
}

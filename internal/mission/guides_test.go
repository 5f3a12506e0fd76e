package mission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/mission"
	"github.com/dustwatch/dustwatch/internal/profile"
)

func guideByKey(t *testing.T, guides []mission.Guide, key string) mission.Guide {
	t.Helper()
	for _, g := range guides {
		if g.Key == key {
			return g
		}
	}
	t.Fatalf("guide %q not found", key)
	return mission.Guide{}
}

func TestBuildGuides_CoversEveryKey(t *testing.T) {
	guides := mission.BuildGuides(airquality.LevelModerate, &profile.UserProfile{})

	require.Len(t, guides, len(mission.GuidelineKeys))
	for _, key := range mission.GuidelineKeys {
		g := guideByKey(t, guides, key)
		assert.NotEmpty(t, g.Title, "key %s", key)
		assert.NotEmpty(t, g.Content, "key %s", key)
	}
}

func TestBuildGuides_ProfileAppliedSortFirst(t *testing.T) {
	p := &profile.UserProfile{Health: profile.HealthAsthma}
	guides := mission.BuildGuides(airquality.LevelBad, p)

	// The asthma conditional fires for fan and window at the bad level, so
	// both must precede every guide without profile content.
	seenUnapplied := false
	for _, g := range guides {
		if len(g.ProfileApplied) > 0 {
			assert.False(t, seenUnapplied, "profile-applied guide %s after unapplied guides", g.Key)
		} else {
			seenUnapplied = true
		}
	}

	fan := guideByKey(t, guides, mission.KeyFan)
	assert.Contains(t, fan.ProfileApplied, "건강 상태")
	// Conditional message bonus 10 plus the asthma/fan affinity 5.
	assert.Equal(t, 15, fan.Priority)
}

func TestBuildGuides_ConditionalMessagesAppended(t *testing.T) {
	base := mission.BuildGuides(airquality.LevelBad, &profile.UserProfile{})
	withDog := mission.BuildGuides(airquality.LevelBad, &profile.UserProfile{Pet: profile.PetDog})

	baseDog := guideByKey(t, base, mission.KeyDog)
	dogDog := guideByKey(t, withDog, mission.KeyDog)

	assert.Empty(t, baseDog.ProfileApplied)
	assert.Contains(t, dogDog.ProfileApplied, "반려동물")
	assert.Greater(t, len(dogDog.Content), len(baseDog.Content))
	// Base messages always come first.
	assert.Equal(t, baseDog.Content, dogDog.Content[:len(baseDog.Content)])
}

func TestBuildGuides_SeniorUsesElderlyMessages(t *testing.T) {
	p := &profile.UserProfile{AgeGroup: profile.AgeGroupSenior}
	guides := mission.BuildGuides(airquality.LevelBad, p)

	fridge := guideByKey(t, guides, mission.KeyRefrigeator)
	assert.Contains(t, fridge.ProfileApplied, "연령대")
	// Conditional bonus 7 plus the senior/refrigeator affinity 2.
	assert.Equal(t, 9, fridge.Priority)
}

func TestBuildGuides_DoorAlwaysBoosted(t *testing.T) {
	guides := mission.BuildGuides(airquality.LevelGood, &profile.UserProfile{})

	door := guideByKey(t, guides, mission.KeyDoor)
	assert.Equal(t, 1, door.Priority)
	// With no profile content, the door guide leads on priority alone.
	assert.Equal(t, mission.KeyDoor, guides[0].Key)
}

func TestGuideFor(t *testing.T) {
	g, ok := mission.GuideFor(mission.KeyStove, airquality.LevelVeryBad, &profile.UserProfile{})
	require.True(t, ok)
	assert.Equal(t, "가스레인지", g.Title)
	assert.NotEmpty(t, g.Content)

	_, ok = mission.GuideFor("television", airquality.LevelGood, nil)
	assert.False(t, ok)
}

package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustwatch/dustwatch/internal/profile"
)

func TestUserProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile profile.UserProfile
		wantErr bool
	}{
		{name: "empty profile", profile: profile.UserProfile{}},
		{
			name: "full valid profile",
			profile: profile.UserProfile{
				AgeGroup: profile.AgeGroupSenior,
				Child:    profile.ChildNone,
				Pet:      profile.PetDog,
				Health:   profile.HealthAsthma,
			},
		},
		{name: "unknown age group", profile: profile.UserProfile{AgeGroup: "teenager"}, wantErr: true},
		{name: "unknown child value", profile: profile.UserProfile{Child: "twins"}, wantErr: true},
		{name: "unknown pet", profile: profile.UserProfile{Pet: "hamster"}, wantErr: true},
		{name: "unknown health", profile: profile.UserProfile{Health: "hay_fever"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, profile.ErrInvalidProfile)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserProfile_Fingerprint(t *testing.T) {
	a := profile.UserProfile{AgeGroup: profile.AgeGroupAdult, Pet: profile.PetDog}
	b := profile.UserProfile{AgeGroup: profile.AgeGroupAdult, Pet: profile.PetDog}
	c := profile.UserProfile{AgeGroup: profile.AgeGroupAdult, Pet: profile.PetCat}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	var nilProfile *profile.UserProfile
	assert.Equal(t, "age=|child=|pet=|health=", nilProfile.Fingerprint())
	assert.Equal(t, nilProfile.Fingerprint(), (&profile.UserProfile{}).Fingerprint())
}

func TestUserProfile_HasChild(t *testing.T) {
	assert.False(t, (&profile.UserProfile{}).HasChild())
	assert.False(t, (&profile.UserProfile{Child: profile.ChildNone}).HasChild())
	assert.True(t, (&profile.UserProfile{Child: profile.ChildInfant}).HasChild())
	assert.True(t, (&profile.UserProfile{Child: profile.ChildElementary}).HasChild())
}

package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository errors.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// Enumerated profile attribute values. Empty string means the attribute is
// unset. Validation happens once at the persistence boundary; everything
// downstream may assume a stored profile only holds these values.
const (
	AgeGroupChild  = "child"
	AgeGroupAdult  = "adult"
	AgeGroupSenior = "senior"

	ChildNone       = "none"
	ChildInfant     = "infant"
	ChildElementary = "elementary"

	PetNone = "none"
	PetDog  = "dog"
	PetCat  = "cat"

	HealthNone            = "none"
	HealthAsthma          = "asthma"
	HealthAllergyRhinitis = "allergy_rhinitis"
	HealthLungDisease     = "lung_disease"
)

var (
	ageGroups = map[string]bool{AgeGroupChild: true, AgeGroupAdult: true, AgeGroupSenior: true}
	children  = map[string]bool{ChildNone: true, ChildInfant: true, ChildElementary: true}
	pets      = map[string]bool{PetNone: true, PetDog: true, PetCat: true}
	healths   = map[string]bool{HealthNone: true, HealthAsthma: true, HealthAllergyRhinitis: true, HealthLungDisease: true}
)

// UserProfile is the single shared profile record read by the daily mission
// selector and the behavioral guide generator.
type UserProfile struct {
	AgeGroup string `json:"ageGroup,omitempty"`
	Child    string `json:"child,omitempty"`
	Pet      string `json:"pet,omitempty"`
	Health   string `json:"health,omitempty"`
}

// Validate checks every attribute against its enumeration. Unset attributes
// are valid.
func (p *UserProfile) Validate() error {
	if p.AgeGroup != "" && !ageGroups[p.AgeGroup] {
		return fmt.Errorf("%w: unknown age group %q", ErrInvalidProfile, p.AgeGroup)
	}
	if p.Child != "" && !children[p.Child] {
		return fmt.Errorf("%w: unknown child value %q", ErrInvalidProfile, p.Child)
	}
	if p.Pet != "" && !pets[p.Pet] {
		return fmt.Errorf("%w: unknown pet value %q", ErrInvalidProfile, p.Pet)
	}
	if p.Health != "" && !healths[p.Health] {
		return fmt.Errorf("%w: unknown health value %q", ErrInvalidProfile, p.Health)
	}
	return nil
}

// HasChild reports whether a child is present in the household.
func (p *UserProfile) HasChild() bool {
	return p != nil && p.Child != "" && p.Child != ChildNone
}

// Fingerprint returns a stable string identifying the profile's content.
// The daily-selection cache is keyed on it so a profile change invalidates
// the cached selection while an unchanged profile keeps it.
func (p *UserProfile) Fingerprint() string {
	if p == nil {
		return "age=|child=|pet=|health="
	}
	var b strings.Builder
	b.WriteString("age=")
	b.WriteString(p.AgeGroup)
	b.WriteString("|child=")
	b.WriteString(p.Child)
	b.WriteString("|pet=")
	b.WriteString(p.Pet)
	b.WriteString("|health=")
	b.WriteString(p.Health)
	return b.String()
}

// Record is a stored profile with its owner and timestamps.
type Record struct {
	UserID    string      `json:"userId"`
	Profile   UserProfile `json:"profile"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

package location

import (
	"errors"
	"time"
)

// Default resolution used when no position fix can be obtained. Daejeon City
// Hall, labeled with its administrative district.
const (
	DefaultLat     = 36.3504
	DefaultLon     = 127.3845
	DefaultAddress = "대전광역시 서구"
)

var (
	// ErrLocationUnavailable indicates no position fix could be obtained.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrAddressNotFound indicates the geocoder returned no region for the
	// coordinate.
	ErrAddressNotFound = errors.New("address not found")
)

// Fix is a single raw position estimate from a provider.
type Fix struct {
	Lat       float64
	Lon       float64
	AccuracyM float64
	At        time.Time
}

// Resolution is the final resolved position served to callers. Fallback is
// true when the coordinate is the default rather than a measured fix.
type Resolution struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Address   string  `json:"address"`
	AccuracyM float64 `json:"accuracyM,omitempty"`
	Fallback  bool    `json:"fallback"`
}

// DefaultResolution returns the fallback resolution.
func DefaultResolution() *Resolution {
	return &Resolution{
		Lat:      DefaultLat,
		Lon:      DefaultLon,
		Address:  DefaultAddress,
		Fallback: true,
	}
}

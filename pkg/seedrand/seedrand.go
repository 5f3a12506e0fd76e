// Package seedrand provides a small deterministic pseudo-random function
// used for reproducible daily content selection.
//
// The function is a sine-based hash: Frac(s) returns the fractional part
// of sin(s) * 10000. It is not suitable for anything cryptographic, but it
// is stable across runs and platforms, which is the property the daily
// selectors depend on. Do not replace it with math/rand: the produced
// ordering is part of the product contract.
package seedrand

import "math"

// Frac returns a deterministic pseudo-random value in [0, 1) for the
// given integer seed.
func Frac(seed int) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

// DateSeed derives an integer seed from a calendar-date string such as
// "2025-06-01". The seed is the sum of the byte values of the string, so
// the same date always produces the same seed and consecutive dates
// produce different ones.
func DateSeed(date string) int {
	sum := 0
	for i := 0; i < len(date); i++ {
		sum += int(date[i])
	}
	return sum
}

// Less reports whether entry a should sort before entry b when both share
// the same priority: each entry's stable identifier is combined with the
// date seed and passed through Frac, and the entries compare by that key.
func Less(dateSeed, idA, idB int) bool {
	return Frac(dateSeed+idA) < Frac(dateSeed+idB)
}

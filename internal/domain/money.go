package domain

import "math"

// UnitsToCents converts currency units to cents.
func UnitsToCents(units float64) int64 {
	return int64(math.Round(units * 100))
}

// CentsToUnits converts cents to currency units.
func CentsToUnits(cents int64) float64 {
	return float64(cents) / 100
}

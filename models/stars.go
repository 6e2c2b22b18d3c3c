package models

import (
	"fmt"
	"math"
)

// Stars is the internal reward currency, stored as milli-stars (1 star = 1000).
// The fixed-point representation lets fractional rewards (e.g. a 0.5-star
// referral bonus) coexist with integer game payouts on one column type.
type Stars int64

const StarUnit Stars = 1000

// FromStars converts a whole-star amount to milli-stars.
func FromStars(n int64) Stars {
	return Stars(n) * StarUnit
}

// FromFloat converts a fractional star amount (e.g. 0.5) to milli-stars,
// rounding half away from zero.
func FromFloat(f float64) Stars {
	return Stars(math.Round(f * float64(StarUnit)))
}

// Float64 returns the amount in whole stars.
func (s Stars) Float64() float64 {
	return float64(s) / float64(StarUnit)
}

// Percent returns floor(s * pct / 100), the steal computation.
func (s Stars) Percent(pct int) Stars {
	if s <= 0 || pct <= 0 {
		return 0
	}
	return s * Stars(pct) / 100
}

func (s Stars) String() string {
	if s%StarUnit == 0 {
		return fmt.Sprintf("%d", int64(s/StarUnit))
	}
	return fmt.Sprintf("%.3f", s.Float64())
}

package ladder

import (
	"math"
	"strconv"
	"strings"
)

// Milestone is a level of attainment on a track, from 0 (not started) to 5.
type Milestone int

const (
	MinMilestone Milestone = 0
	MaxMilestone Milestone = 5
)

// pointsByMilestone grows faster than linearly so that depth on a few tracks
// outweighs breadth across many.
var pointsByMilestone = [...]int{0, 1, 3, 6, 12, 20}

// Valid reports whether m is within [0,5].
func (m Milestone) Valid() bool {
	return m >= MinMilestone && m <= MaxMilestone
}

// Points returns the point value of a milestone. Invalid milestones are worth 0.
func Points(m Milestone) int {
	if !m.Valid() {
		return 0
	}
	return pointsByMilestone[m]
}

// CoerceMilestone maps an arbitrary number onto a milestone. Integral values
// in [0,5] are kept; everything else (fractions, negatives, values above 5,
// NaN, infinities) becomes 0. This is deliberately not a clamp: decoded
// garbage resets the track instead of saturating it.
func CoerceMilestone(v float64) Milestone {
	if math.IsNaN(v) || v != math.Trunc(v) || v < float64(MinMilestone) || v > float64(MaxMilestone) {
		return MinMilestone
	}
	return Milestone(v)
}

// ParseMilestone parses a textual milestone value and coerces it.
// Non-numeric text yields 0.
func ParseMilestone(s string) Milestone {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return MinMilestone
	}
	return CoerceMilestone(v)
}

// ClampDelta applies delta to current and clamps the result into [0,5].
// Used for keyboard increment/decrement, where overshooting should stop at
// the nearest bound rather than reset.
func ClampDelta(current Milestone, delta int) Milestone {
	next := int(current) + delta
	switch {
	case next < int(MinMilestone):
		return MinMilestone
	case next > int(MaxMilestone):
		return MaxMilestone
	default:
		return Milestone(next)
	}
}

package tournament

import "math"

// KFactor is the rating adjustment constant applied to every match result. It is one of the
// GA knobs read once at process start (a -k-factor flag), not a compile-time constant.
var KFactor = 32.0

// Score is a match result from one player's perspective.
type Score float64

const (
	Loss Score = 0
	Draw Score = 0.5
	Win  Score = 1
)

// ApplyELO returns the updated ratings for A and B after a match in which A scored sa (from
// A's perspective; B's score is 1-sa). The two deltas always sum to zero, since B's expectancy
// is exactly 1 minus A's.
func ApplyELO(ra, rb float64, sa Score) (newRa, newRb float64) {
	ea := 1 / (1 + math.Pow(10, (rb-ra)/400))
	eb := 1 - ea

	newRa = ra + KFactor*(float64(sa)-ea)
	newRb = rb + KFactor*((1-float64(sa))-eb)
	return newRa, newRb
}

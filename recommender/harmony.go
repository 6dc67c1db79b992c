package recommender

import (
	"math"

	"github.com/raushankrgupta/threadline/colors"
)

// MalformedDistance is the distance assigned when either color is missing or
// invalid. It is finite so such candidates still sort after every real match.
const MalformedDistance = 1e6

// harmonyDistance is the smallest distance from c to any of the anchor's
// target colors.
func harmonyDistance(c *colors.Lab, targets *[3]colors.Lab) float64 {
	if targets == nil || c == nil || !c.Valid() {
		return MalformedDistance
	}
	best := math.Inf(1)
	for _, t := range targets {
		if d := colors.Distance(*c, t); d < best {
			best = d
		}
	}
	if math.IsNaN(best) || math.IsInf(best, 0) {
		return MalformedDistance
	}
	return best
}

func anchorTargets(anchor *colors.Lab) *[3]colors.Lab {
	if anchor == nil || !anchor.Valid() {
		return nil
	}
	t := colors.TargetColors(*anchor)
	return &t
}

// BestMatch returns the index of the candidate whose primary color lies
// closest to one of the anchor's harmony targets. Ties go to the first
// candidate. It reports false for an empty slice.
func BestMatch(candidates []WeightedCandidate, anchor *colors.Lab) (int, bool) {
	if len(candidates) == 0 {
		return -1, false
	}
	targets := anchorTargets(anchor)
	best, bestDist := 0, math.Inf(1)
	for i, c := range candidates {
		if d := harmonyDistance(c.Garment.PrimaryColor, targets); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, true
}

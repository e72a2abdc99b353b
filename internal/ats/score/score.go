// internal/ats/score/score.go

// Package score converts match counts into a bounded integer percentage.
package score

import "math"

// Compute returns round(matchedCount/vocabularySize*100) as an integer in
// [0, 100]. Rounding is half-away-from-zero (math.Round), which matches the
// platform's historical behavior for non-negative ratios. The caller must
// guarantee vocabularySize > 0; the empty-vocabulary case is a distinct
// terminal state handled upstream and never reaches this function.
func Compute(matchedCount, vocabularySize int) int {
	return int(math.Round(float64(matchedCount) / float64(vocabularySize) * 100))
}

// Package scoring computes the biodiversity index for a conservation area from its
// three sub-scores and classifies the result into a qualitative band.
//
// The overall index is a fixed weighted average — flora and fauna each contribute
// 40%, habitat/ecosystem quality 20% — rounded to the nearest integer. The overall
// score is always derived; a value supplied by a client is advisory only and the
// authoritative number is recomputed from the sub-scores before persisting.
package scoring

import (
	"fmt"
	"math"
)

// Sub-score weights. They must sum to 1.0.
const (
	WeightFlora     = 0.40
	WeightFauna     = 0.40
	WeightEcosystem = 0.20
)

// Band is the qualitative classification of an overall biodiversity score.
type Band string

const (
	BandSangatBaik Band = "sangat_baik" // >= 80
	BandBaik       Band = "baik"        // 60–79
	BandCukup      Band = "cukup"       // 40–59
	BandKurang     Band = "kurang"      // < 40
)

// OutOfRangeError reports a sub-score outside the valid [0,100] range. Inputs are
// rejected rather than clamped so that bad data is surfaced to the caller.
type OutOfRangeError struct {
	Field string
	Value float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s score %g is outside the valid range [0,100]", e.Field, e.Value)
}

// ComputeOverallScore combines the three sub-scores into the overall biodiversity
// index: round(flora*0.4 + fauna*0.4 + ecosystem*0.2). Each input must be in
// [0,100]; otherwise an *OutOfRangeError naming the offending field is returned.
func ComputeOverallScore(flora, fauna, ecosystem float64) (int, error) {
	for _, s := range []struct {
		field string
		value float64
	}{
		{"flora", flora},
		{"fauna", fauna},
		{"ecosystem", ecosystem},
	} {
		if s.value < 0 || s.value > 100 || math.IsNaN(s.value) {
			return 0, &OutOfRangeError{Field: s.field, Value: s.value}
		}
	}

	weighted := flora*WeightFlora + fauna*WeightFauna + ecosystem*WeightEcosystem
	return int(math.Round(weighted)), nil
}

// ClassifyScore maps an overall score to its qualitative band. Band boundaries are
// inclusive on the lower bound: exactly 80 is SangatBaik, exactly 60 is Baik.
func ClassifyScore(score int) Band {
	switch {
	case score >= 80:
		return BandSangatBaik
	case score >= 60:
		return BandBaik
	case score >= 40:
		return BandCukup
	default:
		return BandKurang
	}
}

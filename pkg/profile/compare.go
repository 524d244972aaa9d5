package profile

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Compatibility labels, keyed on the mean per-dimension similarity.
const (
	CompatibilityHigh    = "高度兼容"
	CompatibilityGood    = "较为兼容"
	CompatibilityPartial = "部分兼容"
	CompatibilityLow     = "差异较大"
)

const rankedDimensions = 2

// Compare produces a comparison record for two profiles. Neither profile is
// modified. The overall similarity score is the cosine of the raw feature
// vectors and is only reported when both vectors share a length; dimension
// comparisons always run since the six score dimensions are fixed. A nil
// profile yields an empty record rather than a panic.
func Compare(a, b *StyleProfile) Comparison {
	if a == nil || b == nil {
		return Comparison{ComparedAt: time.Now().UTC()}
	}

	cmp := Comparison{
		ProfileA:   a.ProfileID,
		ProfileB:   b.ProfileID,
		ComparedAt: time.Now().UTC(),
	}

	if len(a.FeatureVector) == len(b.FeatureVector) && len(a.FeatureVector) > 0 {
		cmp.SimilarityScore = cosine(a.FeatureVector, b.FeatureVector)
		cmp.SimilarityComputed = true
	}

	total := 0.0
	for _, dim := range Dimensions {
		sa, sb := a.StyleScores[dim], b.StyleScores[dim]
		diff := math.Abs(sa - sb)
		// Scores live in [1,5] so 4 is the widest possible gap.
		sim := 1.0 - diff/4.0
		cmp.Dimensions = append(cmp.Dimensions, DimensionComparison{
			Dimension:  dim,
			ScoreA:     sa,
			ScoreB:     sb,
			Difference: diff,
			Similarity: sim,
		})
		total += sim
	}
	cmp.MeanSimilarity = total / float64(len(Dimensions))
	cmp.Compatibility = classifyCompatibility(cmp.MeanSimilarity)

	ranked := make([]DimensionComparison, len(cmp.Dimensions))
	copy(ranked, cmp.Dimensions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	for i := 0; i < rankedDimensions && i < len(ranked); i++ {
		cmp.MostSimilar = append(cmp.MostSimilar, ranked[i].Dimension)
	}
	for i := 0; i < rankedDimensions && i < len(ranked); i++ {
		cmp.MostDifferent = append(cmp.MostDifferent, ranked[len(ranked)-1-i].Dimension)
	}

	return cmp
}

func classifyCompatibility(meanSimilarity float64) string {
	switch {
	case meanSimilarity > 0.8:
		return CompatibilityHigh
	case meanSimilarity > 0.6:
		return CompatibilityGood
	case meanSimilarity > 0.4:
		return CompatibilityPartial
	default:
		return CompatibilityLow
	}
}

// cosine returns the cosine similarity of two equal-length vectors. Two
// identical zero vectors compare as fully similar so that comparing an empty
// profile against itself still reports 1.0.
func cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		if floats.Equal(a, b) {
			return 1.0
		}
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

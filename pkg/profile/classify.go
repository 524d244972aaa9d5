package profile

import (
	"math"
	"sort"
)

const (
	secondaryBar      = 3.5
	characteristicBar = 4.0
)

// classify assigns the primary style from the highest-scoring dimension,
// secondary styles from dimensions above the secondary bar, and qualitative
// characteristics for dimensions above the characteristic bar. Ties resolve
// by canonical dimension order so classification is deterministic.
func classify(scores map[string]float64) Classification {
	primary := Dimensions[0]
	for _, dim := range Dimensions {
		if scores[dim] > scores[primary] {
			primary = dim
		}
	}

	cls := Classification{
		PrimaryStyle:    styleNames[primary],
		SecondaryStyles: []string{},
		Characteristics: []string{},
	}

	type ranked struct {
		dim   string
		score float64
	}
	var above []ranked
	for _, dim := range Dimensions {
		if dim != primary && scores[dim] > secondaryBar {
			above = append(above, ranked{dim, scores[dim]})
		}
	}
	sort.SliceStable(above, func(i, j int) bool { return above[i].score > above[j].score })
	for _, r := range above {
		cls.SecondaryStyles = append(cls.SecondaryStyles, styleNames[r.dim])
	}

	for _, dim := range Dimensions {
		if scores[dim] > characteristicBar {
			cls.Characteristics = append(cls.Characteristics, characteristicLabels[dim])
		}
	}
	return cls
}

// comparativeMetrics positions the profile's scores and vector on shared
// scales so profiles can be ranked without pairwise comparison.
func comparativeMetrics(vector []float64, scores map[string]float64) ComparativeMetrics {
	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	mean := 0.0
	for _, dim := range Dimensions {
		mean += scores[dim]
	}
	mean /= float64(len(Dimensions))

	variance := 0.0
	for _, dim := range Dimensions {
		d := scores[dim] - mean
		variance += d * d
	}
	variance /= float64(len(Dimensions))

	distinct := variance
	if distinct > 1.0 {
		distinct = 1.0
	}

	aboveBar := 0
	for _, dim := range Dimensions {
		if scores[dim] > characteristicBar {
			aboveBar++
		}
	}

	return ComparativeMetrics{
		FeatureNorm:     norm,
		ScoreMean:       mean,
		ScoreVariance:   variance,
		Distinctiveness: distinct,
		Complexity:      float64(aboveBar) / float64(len(Dimensions)),
	}
}

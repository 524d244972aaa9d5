package vectorspace

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metric selects the pairwise similarity measure.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// ErrInsufficientData is returned when an operation needs more concepts than
// the unit set provided. Callers report it on the sub-result and continue.
var ErrInsufficientData = errors.New("insufficient data")

// PairScore is the similarity of one unordered concept pair.
type PairScore struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

// SimilarityStats summarizes a similarity matrix.
type SimilarityStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"std_dev"`
}

// SimilarityMatrix is the symmetric pairwise similarity of concept vectors,
// excluding self-pairs. Scores are in [0,1] for both metrics; the Euclidean
// metric is folded through 1/(1+d).
type SimilarityMatrix struct {
	Metric Metric      `json:"metric"`
	Texts  []string    `json:"texts"`
	Pairs  []PairScore `json:"pairs"`

	Stats SimilarityStats `json:"stats"`
	// CrossCategory holds the average similarity between category pairs
	// (concept/entity, concept/phrase, entity/phrase).
	CrossCategory map[string]float64 `json:"cross_category"`
}

// Score returns the similarity of the pair (a, b) in either order.
func (m *SimilarityMatrix) Score(a, b string) (float64, bool) {
	for _, p := range m.Pairs {
		if (p.A == a && p.B == b) || (p.A == b && p.B == a) {
			return p.Score, true
		}
	}
	return 0, false
}

// Similarity computes the symmetric pairwise similarity matrix over the
// result's concept vectors plus cross-category averages. At least 2 concept
// vectors are required.
func Similarity(encoded *EncodeResult, metric Metric) (*SimilarityMatrix, error) {
	switch metric {
	case MetricCosine, MetricEuclidean:
	default:
		return nil, fmt.Errorf("unknown similarity metric %q", metric)
	}

	concepts := encoded.ByCategory(CategoryConcept)
	if len(concepts) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 concepts, got %d", ErrInsufficientData, len(concepts))
	}

	matrix := &SimilarityMatrix{
		Metric:        metric,
		Texts:         make([]string, 0, len(concepts)),
		Pairs:         make([]PairScore, 0, len(concepts)*(len(concepts)-1)/2),
		CrossCategory: map[string]float64{},
	}
	for _, v := range concepts {
		matrix.Texts = append(matrix.Texts, v.Text)
	}

	scores := make([]float64, 0, cap(matrix.Pairs))
	for i := 0; i < len(concepts); i++ {
		for j := i + 1; j < len(concepts); j++ {
			score := pairScore(concepts[i].Values, concepts[j].Values, metric)
			matrix.Pairs = append(matrix.Pairs, PairScore{
				A:     concepts[i].Text,
				B:     concepts[j].Text,
				Score: score,
			})
			scores = append(scores, score)
		}
	}

	matrix.Stats = summarize(scores)

	categories := [][2]string{
		{CategoryConcept, CategoryEntity},
		{CategoryConcept, CategoryPhrase},
		{CategoryEntity, CategoryPhrase},
	}
	for _, pair := range categories {
		avg, ok := crossCategoryAverage(encoded.ByCategory(pair[0]), encoded.ByCategory(pair[1]), metric)
		if ok {
			matrix.CrossCategory[pair[0]+"/"+pair[1]] = avg
		}
	}

	return matrix, nil
}

func pairScore(a, b []float32, metric Metric) float64 {
	switch metric {
	case MetricEuclidean:
		return 1 / (1 + euclideanDistance(a, b))
	default:
		return cosineSimilarity(a, b)
	}
}

// cosineSimilarity returns the cosine of the angle between a and b, clamped
// to [0,1]. Zero vectors yield 0.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		fa, fb := float64(a[i]), float64(b[i])
		dot += fa * fb
		normA += fa * fa
		normB += fb * fb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}

func summarize(scores []float64) SimilarityStats {
	if len(scores) == 0 {
		return SimilarityStats{}
	}
	min, max := scores[0], scores[0]
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	mean, std := stat.MeanStdDev(scores, nil)
	if len(scores) < 2 || math.IsNaN(std) {
		std = 0
	}
	return SimilarityStats{
		Average: mean,
		Min:     min,
		Max:     max,
		StdDev:  std,
	}
}

func crossCategoryAverage(a, b []Vector, metric Metric) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}
	var total float64
	var pairs int
	for _, va := range a {
		for _, vb := range b {
			if va.Text == vb.Text {
				continue
			}
			total += pairScore(va.Values, vb.Values, metric)
			pairs++
		}
	}
	if pairs == 0 {
		return 0, false
	}
	return total / float64(pairs), true
}

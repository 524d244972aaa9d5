package profile

import (
	"gonum.org/v1/gonum/stat"

	"github.com/stylemetry/engine/pkg/behavior"
	"github.com/stylemetry/engine/pkg/semantic"
	"github.com/stylemetry/engine/pkg/vectorspace"
)

// Input collects the upstream stage outputs the builder fuses. Any field may
// be nil or carry failed sub-results; the builder substitutes neutral values
// so the resulting profile is always well formed.
type Input struct {
	DocumentName string
	Units        *semantic.UnitSet
	Encoded      *vectorspace.EncodeResult
	Metrics      *behavior.Metrics
}

// integrateFeatures builds the per-category feature map. Every category is
// present with exactly featureArity values; categories whose upstream slot
// failed are zero-filled so vectors stay comparable across profiles.
func integrateFeatures(in Input) map[string][]float64 {
	features := make(map[string][]float64, len(featureCategories))
	for _, c := range featureCategories {
		features[c] = make([]float64, featureArity)
	}

	if m := in.Metrics; m != nil {
		if m.Clustering.Success {
			features[CategoryClustering] = []float64{
				float64(m.Clustering.ClusterCount),
				m.Clustering.AverageSize,
				m.Clustering.SizeVariance,
			}
		}
		if m.Distance.Success {
			features[CategoryDistance] = []float64{
				m.Distance.AverageSimilarity,
				m.Distance.SimilarityVariance,
				m.Distance.HighSimilarityRatio,
			}
		}
		if m.Novelty.Success {
			features[CategoryNovelty] = []float64{
				m.Novelty.AverageNovelty,
				float64(m.Novelty.HighNoveltyCount),
				m.Novelty.CreativityDensity,
			}
		}
		if m.Emotion.Success {
			features[CategoryEmotional] = []float64{
				m.Emotion.EmotionalRatio,
				m.Emotion.AverageIntensity,
				float64(m.Emotion.PositiveCount + m.Emotion.NegativeCount),
			}
		}
		if m.Clustering.Success && len(m.Clustering.Themes) > 0 {
			features[CategoryEvaluator] = evaluatorFeatures(m.Clustering.Themes)
		}
	}

	if in.Encoded != nil && in.Encoded.Stats.TotalVectors > 0 {
		features[CategoryVector] = []float64{
			float64(in.Encoded.Stats.TotalVectors),
			meanNorm(in.Encoded.Stats.Norms),
			in.Encoded.Stats.VectorDensity,
		}
	}

	return features
}

func evaluatorFeatures(themes []behavior.ClusterTheme) []float64 {
	coherence := make([]float64, 0, len(themes))
	for _, t := range themes {
		coherence = append(coherence, float64(t.Coherence))
	}
	return []float64{
		stat.Mean(coherence, nil),
		float64(len(themes)),
		maxFloat(coherence),
	}
}

func meanNorm(norms map[string]float64) float64 {
	if len(norms) == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range norms {
		sum += n
	}
	return sum / float64(len(norms))
}

func maxFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// flattenFeatures concatenates category features in canonical order.
func flattenFeatures(features map[string][]float64) []float64 {
	vec := make([]float64, 0, len(featureCategories)*featureArity)
	for _, c := range featureCategories {
		vals := features[c]
		for i := 0; i < featureArity; i++ {
			if i < len(vals) {
				vec = append(vec, vals[i])
			} else {
				vec = append(vec, 0)
			}
		}
	}
	return vec
}

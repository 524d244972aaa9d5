package profile

import "math"

const (
	scoreMin     = 1.0
	scoreMax     = 5.0
	scoreDefault = 3.0
)

// clampScore bounds a score to [1,5]. NaN collapses to the neutral default.
func clampScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return scoreDefault
	}
	return math.Min(scoreMax, math.Max(scoreMin, v))
}

// computeScores derives the six style dimensions from the fused inputs. A
// dimension whose upstream slot failed falls back to the neutral 3.0 rather
// than scoring on zeros, so a degraded run never reads as an extreme style.
func computeScores(in Input) map[string]float64 {
	scores := map[string]float64{
		DimConceptualOrganization: scoreDefault,
		DimSemanticCoherence:      scoreDefault,
		DimCreativeAssociation:    scoreDefault,
		DimEmotionalExpression:    scoreDefault,
		DimCognitiveComplexity:    scoreDefault,
		DimThematicFocus:          scoreDefault,
	}
	m := in.Metrics
	if m == nil {
		return scores
	}

	if m.Clustering.Success {
		if m.Clustering.ClusterCount == 0 {
			scores[DimConceptualOrganization] = scoreMin
		} else {
			raw := float64(m.Clustering.ClusterCount) * m.Clustering.AverageSize / 3.0
			scores[DimConceptualOrganization] = clampScore(raw)
		}
	}

	if m.Distance.Success {
		scores[DimSemanticCoherence] = clampScore(m.Distance.AverageSimilarity * 5.0)
		if m.Distance.SemanticSpanCode > 0 {
			scores[DimThematicFocus] = clampScore(5.0 - float64(m.Distance.SemanticSpanCode))
		}
	}

	if m.Novelty.Success && m.Novelty.AverageNovelty > 0 {
		scores[DimCreativeAssociation] = clampScore(m.Novelty.AverageNovelty)
	}

	if m.Emotion.Success && m.Emotion.AverageIntensity > 0 {
		scores[DimEmotionalExpression] = clampScore(m.Emotion.AverageIntensity)
	}

	if in.Encoded != nil && in.Encoded.Stats.TotalVectors > 0 && in.Units != nil {
		raw := float64(len(in.Units.Concepts))/5.0 + in.Encoded.Stats.VectorDensity/2.0
		scores[DimCognitiveComplexity] = clampScore(raw)
	}

	return scores
}

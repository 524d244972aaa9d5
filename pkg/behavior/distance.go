package behavior

// Distance pattern thresholds. Similarity scores are in [0,1].
const (
	spanTightThreshold    = 0.6
	spanModerateThreshold = 0.3

	distributionEvenThreshold     = 0.1
	distributionModerateThreshold = 0.3

	highSimilarityCutoff    = 0.7
	tendencyStrongThreshold = 0.3
	tendencyWeakThreshold   = 0.1
)

func analyzeDistance(in Input) DistancePatterns {
	result := DistancePatterns{}
	if in.Matrix == nil || len(in.Matrix.Pairs) == 0 {
		result.Error = "no similarity matrix available"
		return result
	}

	err := guard(func() {
		stats := in.Matrix.Stats
		result.AverageSimilarity = stats.Average
		result.SimilarityVariance = stats.StdDev * stats.StdDev

		highCount := 0
		for _, p := range in.Matrix.Pairs {
			if p.Score > highSimilarityCutoff {
				highCount++
			}
		}
		result.HighSimilarityRatio = float64(highCount) / float64(len(in.Matrix.Pairs))

		result.SemanticSpan, result.SemanticSpanCode = classifySpan(result.AverageSimilarity)
		result.ConceptDistribution = classifyDistribution(result.SimilarityVariance)
		result.ClusteringTendency = classifyTendency(result.HighSimilarityRatio)
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}

func classifySpan(avgSimilarity float64) (string, int) {
	switch {
	case avgSimilarity > spanTightThreshold:
		return SpanTight, SpanCodeTight
	case avgSimilarity > spanModerateThreshold:
		return SpanModerate, SpanCodeModerate
	default:
		return SpanScattered, SpanCodeScattered
	}
}

func classifyDistribution(variance float64) string {
	switch {
	case variance < distributionEvenThreshold:
		return DistributionEven
	case variance < distributionModerateThreshold:
		return DistributionModerate
	default:
		return DistributionUneven
	}
}

func classifyTendency(highRatio float64) string {
	switch {
	case highRatio > tendencyStrongThreshold:
		return TendencyStrong
	case highRatio > tendencyWeakThreshold:
		return TendencyModerate
	default:
		return TendencyWeak
	}
}

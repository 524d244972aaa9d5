package behavior

// Emotional behavior thresholds over the ratio of emotional to total
// descriptive words.
const (
	expressivenessHighThreshold   = 0.6
	expressivenessMediumThreshold = 0.3

	balanceRatioThreshold = 0.5
)

func analyzeEmotion(in Input) EmotionalBehavior {
	result := EmotionalBehavior{}
	if in.Units == nil || (len(in.Units.Adjectives) == 0 && len(in.Units.Verbs) == 0) {
		result.Error = "no descriptive words available"
		return result
	}

	err := guard(func() {
		var intensitySum, intensityCount int

		for _, adj := range in.Units.Adjectives {
			switch adj.Polarity {
			case "positive":
				result.PositiveCount++
			case "negative":
				result.NegativeCount++
			default:
				result.NeutralCount++
			}
			if adj.Polarity == "positive" || adj.Polarity == "negative" {
				intensitySum += adj.Intensity
				intensityCount++
			}
		}
		for _, verb := range in.Units.Verbs {
			switch verb.Polarity {
			case "positive":
				result.PositiveCount++
			case "negative":
				result.NegativeCount++
			case "neutral":
				result.NeutralCount++
			}
		}

		emotional := result.PositiveCount + result.NegativeCount
		total := emotional + result.NeutralCount
		if total > 0 {
			result.EmotionalRatio = float64(emotional) / float64(total)
		}
		if intensityCount > 0 {
			result.AverageIntensity = float64(intensitySum) / float64(intensityCount)
		}

		result.Expressiveness = classifyExpressiveness(result.EmotionalRatio)
		result.Balance = classifyBalance(result.PositiveCount, result.NegativeCount)
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}

func classifyExpressiveness(ratio float64) string {
	switch {
	case ratio > expressivenessHighThreshold:
		return ExpressivenessHigh
	case ratio > expressivenessMediumThreshold:
		return ExpressivenessMedium
	default:
		return ExpressivenessLow
	}
}

func classifyBalance(positive, negative int) string {
	switch {
	case positive == 0 && negative == 0:
		return BalanceNeutral
	case negative == 0:
		return BalancePositive
	case positive == 0:
		return BalanceNegative
	}

	minCount, maxCount := positive, negative
	if minCount > maxCount {
		minCount, maxCount = maxCount, minCount
	}
	if float64(minCount)/float64(maxCount) >= balanceRatioThreshold {
		return BalanceBalanced
	}
	return BalanceSkewed
}

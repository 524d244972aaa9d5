package behavior

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/stylemetry/engine/pkg/ai"
	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/vectorspace"
)

// Candidate selection band: similar enough to be meaningful, distant enough
// to be interesting.
const (
	noveltyBandLow  = 0.1
	noveltyBandHigh = 0.4

	maxCandidates  = 10
	maxEvaluated   = 5
	highNoveltyBar = 4
)

func (a *Analyzer) analyzeNovelty(ctx context.Context, in Input, opts Options) NoveltyAnalysis {
	result := NoveltyAnalysis{}
	if in.Matrix == nil || len(in.Matrix.Pairs) == 0 {
		result.Error = "no similarity matrix available"
		return result
	}

	err := guard(func() {
		result.Candidates = selectCandidates(in.Matrix.Pairs)
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if opts.Enrich && a.client != nil && len(result.Candidates) > 0 {
		if err := a.scoreCandidates(ctx, result.Candidates); err != nil {
			logger.Warn("Novelty evaluation failed", "err", err)
		}
	}

	var scoreSum, scoredCount int
	for _, c := range result.Candidates {
		if !c.Scored {
			continue
		}
		scoredCount++
		scoreSum += c.Score
		if c.Score >= highNoveltyBar {
			result.HighNoveltyCount++
		}
	}
	if scoredCount > 0 {
		result.AverageNovelty = float64(scoreSum) / float64(scoredCount)
	}
	if len(result.Candidates) > 0 {
		result.CreativityDensity = float64(result.HighNoveltyCount) / float64(len(result.Candidates))
	}

	result.Success = true
	return result
}

// selectCandidates keeps pairs inside the novelty band, ranked by descending
// distance, capped at maxCandidates.
func selectCandidates(pairs []vectorspace.PairScore) []NoveltyCandidate {
	candidates := make([]NoveltyCandidate, 0, maxCandidates)
	for _, p := range pairs {
		if p.Score < noveltyBandLow || p.Score > noveltyBandHigh {
			continue
		}
		candidates = append(candidates, NoveltyCandidate{
			A:          p.A,
			B:          p.B,
			Similarity: p.Score,
			Distance:   1 - p.Score,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Distance > candidates[j].Distance
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

type noveltyRating struct {
	Index int    `json:"index" jsonschema_description:"Zero-based index of the pair in the input list"`
	Score int    `json:"score" jsonschema_description:"Novelty of the association from 1 (obvious) to 5 (highly unexpected yet meaningful)"`
	Label string `json:"label" jsonschema_description:"Short qualitative label in Chinese"`
}

type noveltyResponse struct {
	Ratings []noveltyRating `json:"ratings" jsonschema_description:"One rating per pair, in input order"`
}

func (a *Analyzer) scoreCandidates(ctx context.Context, candidates []NoveltyCandidate) error {
	count := len(candidates)
	if count > maxEvaluated {
		count = maxEvaluated
	}

	var b strings.Builder
	for i := 0; i < count; i++ {
		fmt.Fprintf(&b, "%d. %q + %q (similarity %.2f)\n", i, candidates[i].A, candidates[i].B, candidates[i].Similarity)
	}
	prompt := fmt.Sprintf(ai.EvaluateNoveltyPrompt, b.String())

	var res noveltyResponse
	err := a.client.GenerateCompletionWithFormat(
		ctx,
		"rate_association_novelty",
		"Rate the creativity of distant concept associations.",
		prompt,
		&res,
	)
	if err != nil {
		return err
	}

	for _, r := range res.Ratings {
		if r.Index < 0 || r.Index >= count {
			continue
		}
		score := r.Score
		if score < 1 || score > 5 {
			score = 3
		}
		candidates[r.Index].Scored = true
		candidates[r.Index].Score = score
		candidates[r.Index].Label = r.Label
	}
	return nil
}

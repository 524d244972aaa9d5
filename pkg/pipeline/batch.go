package pipeline

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const batchConcurrency = 4

// BatchResult pairs the ordered per-text results with success tallies.
type BatchResult struct {
	Results      []*Result `json:"results"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
}

// AnalyzeBatch runs one analysis per text. Results keep the input order and
// each text is isolated: a failing analysis fills its own slot and never
// aborts the rest of the batch.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, texts []string, req Request) *BatchResult {
	out := &BatchResult{Results: make([]*Result, len(texts))}

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			r := req
			r.Text = text
			if r.DocumentName == "" || len(texts) > 1 {
				r.DocumentName = batchName(req.DocumentName, i)
			}
			out.Results[i] = p.Analyze(ctx, r)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range out.Results {
		if r != nil && r.Success {
			out.SuccessCount++
		} else {
			out.FailureCount++
		}
	}
	return out
}

func batchName(base string, index int) string {
	if base == "" {
		base = "document"
	}
	return base + "-" + strconv.Itoa(index+1)
}

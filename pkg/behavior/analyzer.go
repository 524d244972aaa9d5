package behavior

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stylemetry/engine/pkg/ai"
	"github.com/stylemetry/engine/pkg/semantic"
	"github.com/stylemetry/engine/pkg/vectorspace"
)

// Input carries the upstream stage outputs a behavior analysis reads.
// Matrix and Clusters may be nil when the mapper stage degraded; the
// sub-analyses depending on them report the condition on their own slot.
type Input struct {
	Units    *semantic.UnitSet
	Encoded  *vectorspace.EncodeResult
	Matrix   *vectorspace.SimilarityMatrix
	Clusters *vectorspace.ClusterResult
}

// Options toggles the optional parts of a behavior analysis.
type Options struct {
	// Novelty enables the associative novelty sub-analysis (comprehensive
	// depth only).
	Novelty bool
	// Enrich sends cluster and candidate-pair data to the evaluator service
	// for qualitative judgments. Requires a client.
	Enrich bool
}

// Analyzer derives clustering, distance, novelty and emotional indicators
// from the vector space mapper's output. The evaluator client is optional;
// without it the analyses stay purely quantitative.
type Analyzer struct {
	client ai.StyleAIClient
}

// NewAnalyzer creates an Analyzer. client may be nil.
func NewAnalyzer(client ai.StyleAIClient) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze runs the four sub-analyses concurrently. Each writes only its own
// result slot, so one failure cannot corrupt or cancel the others; Analyze
// itself never returns an error.
func (a *Analyzer) Analyze(ctx context.Context, in Input, opts Options) *Metrics {
	metrics := &Metrics{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		metrics.Clustering = a.analyzeClustering(gCtx, in, opts)
		return nil
	})
	g.Go(func() error {
		metrics.Distance = analyzeDistance(in)
		return nil
	})
	g.Go(func() error {
		if opts.Novelty {
			metrics.Novelty = a.analyzeNovelty(gCtx, in, opts)
		} else {
			metrics.Novelty = NoveltyAnalysis{Success: true}
		}
		return nil
	})
	g.Go(func() error {
		metrics.Emotion = analyzeEmotion(in)
		return nil
	})

	// Sub-analyses capture their own failures as data.
	_ = g.Wait()
	return metrics
}

// guard converts a panic inside a metric formula into an error value so one
// sub-analysis cannot take down the rest of the pipeline.
func guard(run func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("computation error: %v", r)
		}
	}()
	run()
	return nil
}

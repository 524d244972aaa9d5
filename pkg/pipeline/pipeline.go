package pipeline

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/stylemetry/engine/pkg/ai"
	"github.com/stylemetry/engine/pkg/behavior"
	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/profile"
	"github.com/stylemetry/engine/pkg/semantic"
	"github.com/stylemetry/engine/pkg/vectorspace"
)

// Depth selects how much of the pipeline runs for one analysis.
type Depth string

const (
	DepthBasic         Depth = "basic"
	DepthStandard      Depth = "standard"
	DepthComprehensive Depth = "comprehensive"
)

// Valid reports whether d is a known analysis depth.
func (d Depth) Valid() bool {
	switch d {
	case DepthBasic, DepthStandard, DepthComprehensive:
		return true
	}
	return false
}

// Request describes one analysis run. Zero values fall back to comprehensive
// extraction mode, standard depth and the cosine metric.
type Request struct {
	Text         string
	DocumentName string
	Mode         semantic.Mode
	Depth        Depth
	Metric       vectorspace.Metric
}

// StageStatus records the outcome of one pipeline stage. Error and ErrorKind
// are empty on success.
type StageStatus struct {
	Ran       bool   `json:"ran"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// Stages holds the per-stage statuses for one analysis.
type Stages struct {
	Extraction StageStatus `json:"extraction"`
	Encoding   StageStatus `json:"encoding"`
	Similarity StageStatus `json:"similarity"`
	Clustering StageStatus `json:"clustering"`
	Behavior   StageStatus `json:"behavior"`
}

// Result is the always-well-formed outcome of one analysis. The profile is
// present even when stages fail; Success is false only when extraction
// itself failed completely.
type Result struct {
	AnalysisID   string    `json:"analysis_id"`
	DocumentName string    `json:"document_name"`
	Depth        Depth     `json:"analysis_depth"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Success      bool      `json:"success"`

	Stages Stages `json:"stages"`

	Units    *semantic.UnitSet             `json:"semantic_units,omitempty"`
	Encoded  *vectorspace.EncodeResult     `json:"vector_mapping,omitempty"`
	Matrix   *vectorspace.SimilarityMatrix `json:"similarity,omitempty"`
	Clusters *vectorspace.ClusterResult    `json:"clusters,omitempty"`
	Metrics  *behavior.Metrics             `json:"behavioral_metrics,omitempty"`
	Profile  *profile.StyleProfile         `json:"style_profile"`
}

// Pipeline wires the four stages behind one Analyze entrypoint. All stages
// share a single AI client and embedding cache.
type Pipeline struct {
	extractor *semantic.Extractor
	encoder   *vectorspace.Encoder
	analyzer  *behavior.Analyzer
}

// New builds a Pipeline. client may be nil, which pushes every stage down
// its degraded path. A nil cache falls back to a memory-only embedding cache.
func New(client ai.StyleAIClient, cache *vectorspace.Cache) *Pipeline {
	if cache == nil {
		cache, _ = vectorspace.NewCache("")
	}
	return &Pipeline{
		extractor: semantic.NewExtractor(client, 0),
		encoder:   vectorspace.NewEncoder(client, cache),
		analyzer:  behavior.NewAnalyzer(client),
	}
}

// Analyze runs the pipeline at the requested depth. It never returns a nil
// result: partial failures are recorded on the stage statuses and the profile
// falls back to neutral values.
func (p *Pipeline) Analyze(ctx context.Context, req Request) *Result {
	if req.Mode == "" {
		req.Mode = semantic.ModeComprehensive
	}
	if !req.Depth.Valid() {
		req.Depth = DepthStandard
	}
	if req.Metric == "" {
		req.Metric = vectorspace.MetricCosine
	}
	if req.DocumentName == "" {
		req.DocumentName = "untitled"
	}

	res := &Result{
		AnalysisID:   newAnalysisID(),
		DocumentName: req.DocumentName,
		Depth:        req.Depth,
		StartedAt:    time.Now().UTC(),
		Success:      true,
	}
	logger.Info("analysis started", "analysis_id", res.AnalysisID, "depth", req.Depth, "mode", req.Mode)

	units, err := p.extractor.Identify(ctx, req.Text, req.Mode)
	res.Stages.Extraction = stageStatus(err)
	if err != nil {
		// Without units nothing downstream can run. The result still
		// carries a neutral profile so consumers get a stable shape.
		res.Success = false
		res.Profile = profile.Build(profile.Input{DocumentName: req.DocumentName})
		res.FinishedAt = time.Now().UTC()
		logger.Warn("analysis failed at extraction", "analysis_id", res.AnalysisID, "error", err)
		return res
	}
	res.Units = units

	encoded, err := p.encoder.Encode(ctx, units)
	res.Stages.Encoding = stageStatus(err)
	if err == nil {
		res.Encoded = encoded
	}

	if req.Depth != DepthBasic && res.Encoded != nil {
		matrix, err := vectorspace.Similarity(res.Encoded, req.Metric)
		res.Stages.Similarity = stageStatus(err)
		if err == nil {
			res.Matrix = matrix
		}

		clusters, err := vectorspace.ClusterConcepts(res.Encoded, 0)
		res.Stages.Clustering = stageStatus(err)
		if err == nil {
			res.Clusters = clusters
		}

		comprehensive := req.Depth == DepthComprehensive
		res.Metrics = p.analyzer.Analyze(ctx, behavior.Input{
			Units:    units,
			Encoded:  res.Encoded,
			Matrix:   res.Matrix,
			Clusters: res.Clusters,
		}, behavior.Options{Novelty: comprehensive, Enrich: comprehensive})
		res.Stages.Behavior = StageStatus{Ran: true, Success: true}
	}

	res.Profile = profile.Build(profile.Input{
		DocumentName: req.DocumentName,
		Units:        units,
		Encoded:      res.Encoded,
		Metrics:      res.Metrics,
	})
	res.FinishedAt = time.Now().UTC()
	logger.Info("analysis finished", "analysis_id", res.AnalysisID,
		"profile_id", res.Profile.ProfileID, "success", res.Success,
		"duration", res.FinishedAt.Sub(res.StartedAt))
	return res
}

// Compare produces a comparison record for two stored profiles.
func (p *Pipeline) Compare(a, b *profile.StyleProfile) profile.Comparison {
	return profile.Compare(a, b)
}

func stageStatus(err error) StageStatus {
	if err != nil {
		return StageStatus{
			Ran:       true,
			Error:     err.Error(),
			ErrorKind: classifyError(err),
		}
	}
	return StageStatus{Ran: true, Success: true}
}

func newAnalysisID() string {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Sprintf("analysis-%d", time.Now().UnixNano())
	}
	return "ana_" + id
}

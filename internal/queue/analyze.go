package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/pipeline"
	"github.com/stylemetry/engine/pkg/semantic"
	"github.com/stylemetry/engine/pkg/store"
)

func modeFromString(s string) semantic.Mode {
	m := semantic.Mode(s)
	if !m.Valid() {
		return semantic.ModeComprehensive
	}
	return m
}

// QueueAnalyzeMsg is the wire format for a batch analysis job.
type QueueAnalyzeMsg struct {
	BatchID       string   `json:"batch_id"`
	DocumentName  string   `json:"document_name,omitempty"`
	Texts         []string `json:"texts"`
	Mode          string   `json:"mode,omitempty"`
	AnalysisDepth string   `json:"analysis_depth,omitempty"`
}

// PublishAnalyzeBatch enqueues a batch job on the analysis queue.
func PublishAnalyzeBatch(ch *amqp091.Channel, msg QueueAnalyzeMsg) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal analyze message: %w", err)
	}
	return PublishFIFO(ch, AnalysisQueue, data)
}

// ProcessAnalyzeMessage runs the pipeline for every text in the batch and
// persists the resulting profiles. Per-text failures are recorded on the
// results and do not fail the message; only an undecodable message or a
// storage failure is returned for retry.
func ProcessAnalyzeMessage(
	ctx context.Context,
	p *pipeline.Pipeline,
	storage store.ProfileStorage,
	msg string,
) error {
	data := new(QueueAnalyzeMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to unmarshal analyze message: %w", err)
	}
	if len(data.Texts) == 0 {
		logger.Warn("[Queue] Analyze message without texts", "batch_id", data.BatchID)
		return nil
	}

	logger.Info("[Queue] Processing analysis batch", "batch_id", data.BatchID, "texts", len(data.Texts))

	req := pipeline.Request{
		DocumentName: data.DocumentName,
		Mode:         modeFromString(data.Mode),
		Depth:        pipeline.Depth(data.AnalysisDepth),
	}
	batch := p.AnalyzeBatch(ctx, data.Texts, req)

	for _, res := range batch.Results {
		if res == nil || res.Profile == nil {
			continue
		}
		if err := storage.SaveProfile(ctx, res.Profile); err != nil {
			return fmt.Errorf("failed to save profile for batch %s: %w", data.BatchID, err)
		}
	}

	logger.Info("[Queue] Analysis batch done",
		"batch_id", data.BatchID,
		"succeeded", batch.SuccessCount,
		"failed", batch.FailureCount,
	)
	return nil
}

package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/stylemetry/engine/internal/queue"
	"github.com/stylemetry/engine/internal/server/middleware"
	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/pipeline"
	"github.com/stylemetry/engine/pkg/semantic"
)

// CreateAnalysisHandler runs the pipeline synchronously for one text and
// persists the resulting profile.
func CreateAnalysisHandler(c echo.Context) error {
	type createAnalysisBody struct {
		Text          string `json:"text" validate:"required"`
		DocumentName  string `json:"document_name"`
		Mode          string `json:"mode" validate:"omitempty,oneof=comprehensive concept entity sentiment relation"`
		AnalysisDepth string `json:"analysis_depth" validate:"omitempty,oneof=basic standard comprehensive"`
	}

	data := new(createAnalysisBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	res := app.Pipeline.Analyze(ctx, pipeline.Request{
		Text:         data.Text,
		DocumentName: data.DocumentName,
		Mode:         semantic.Mode(data.Mode),
		Depth:        pipeline.Depth(data.AnalysisDepth),
	})

	if res.Profile != nil {
		if err := app.Storage.SaveProfile(ctx, res.Profile); err != nil {
			logger.Error("Failed to save profile", "analysis_id", res.AnalysisID, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to save profile"})
		}
	}

	return c.JSON(http.StatusOK, res)
}

// CreateAnalysisBatchHandler enqueues a batch of texts for the worker.
func CreateAnalysisBatchHandler(c echo.Context) error {
	type createBatchBody struct {
		Texts         []string `json:"texts" validate:"required,min=1,dive,required"`
		DocumentName  string   `json:"document_name"`
		Mode          string   `json:"mode" validate:"omitempty,oneof=comprehensive concept entity sentiment relation"`
		AnalysisDepth string   `json:"analysis_depth" validate:"omitempty,oneof=basic standard comprehensive"`
	}

	type createBatchResponse struct {
		Message string `json:"message"`
		BatchID string `json:"batch_id,omitempty"`
		Queued  int    `json:"queued,omitempty"`
	}

	data := new(createBatchBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createBatchResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createBatchResponse{Message: "Invalid request body"})
	}

	batchID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, createBatchResponse{Message: "Failed to create batch id"})
	}

	app := c.(*middleware.AppContext).App
	err = queue.PublishAnalyzeBatch(app.Queue, queue.QueueAnalyzeMsg{
		BatchID:       batchID,
		DocumentName:  data.DocumentName,
		Texts:         data.Texts,
		Mode:          data.Mode,
		AnalysisDepth: data.AnalysisDepth,
	})
	if err != nil {
		logger.Error("Failed to publish analysis batch", "batch_id", batchID, "err", err)
		return c.JSON(http.StatusInternalServerError, createBatchResponse{Message: "Failed to enqueue batch"})
	}

	return c.JSON(http.StatusAccepted, createBatchResponse{
		Message: "Batch queued",
		BatchID: batchID,
		Queued:  len(data.Texts),
	})
}

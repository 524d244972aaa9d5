package pipeline

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stylemetry/engine/pkg/semantic"
	"github.com/stylemetry/engine/pkg/vectorspace"
)

// Error kinds carried as data on stage statuses. Failures are part of the
// result payload, never panics across stage boundaries.
const (
	KindServiceUnavailable = "service_unavailable"
	KindServiceError       = "service_error"
	KindMalformedResponse  = "malformed_response"
	KindInsufficientData   = "insufficient_data"
	KindComputationError   = "computation_error"
)

// classifyError maps a stage error onto the error taxonomy. Unknown errors
// default to service_error since every stage boundary ultimately talks to an
// external model service.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, semantic.ErrServiceUnavailable):
		return KindServiceUnavailable
	case errors.Is(err, vectorspace.ErrInsufficientData):
		return KindInsufficientData
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindServiceError
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return KindMalformedResponse
	}
	return KindServiceError
}

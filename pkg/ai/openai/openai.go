package openai

import (
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"

	"github.com/stylemetry/engine/pkg/ai"
)

// StyleOpenAIClient implements ai.StyleAIClient against any OpenAI-compatible
// API. It manages separate clients for the chat endpoint (annotation and
// evaluation) and the embedding endpoint, which may live on different hosts.
type StyleOpenAIClient struct {
	annotationModel string
	evaluationModel string
	embeddingModel  string

	chatURL      string
	embeddingURL string

	timeoutMin    int
	reqLock       *semaphore.Weighted
	embeddingLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewStyleOpenAIClientParams defines the configuration for creating a new
// StyleOpenAIClient. AnnotationModel handles semantic unit annotation,
// EvaluationModel handles cluster/novelty evaluation, EmbeddingModel produces
// vectors. Empty URLs fall back to the official endpoint.
type NewStyleOpenAIClientParams struct {
	AnnotationModel string
	EvaluationModel string
	EmbeddingModel  string

	ChatURL      string
	ChatKey      string
	EmbeddingURL string
	EmbeddingKey string

	TimeoutMinutes        int
	MaxConcurrentRequests int64
}

// NewStyleOpenAIClient creates and returns a new StyleOpenAIClient configured
// with the provided parameters.
func NewStyleOpenAIClient(params NewStyleOpenAIClientParams) *StyleOpenAIClient {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	embedClient := newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey)

	timeoutMin := params.TimeoutMinutes
	if timeoutMin <= 0 {
		timeoutMin = 5
	}

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 8
	}

	return &StyleOpenAIClient{
		annotationModel: params.AnnotationModel,
		evaluationModel: params.EvaluationModel,
		embeddingModel:  params.EmbeddingModel,

		chatURL:      params.ChatURL,
		embeddingURL: params.EmbeddingURL,

		timeoutMin:    timeoutMin,
		reqLock:       semaphore.NewWeighted(maxReq),
		embeddingLock: semaphore.NewWeighted(maxReq),

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient:      chatClient,
		EmbeddingClient: embedClient,
	}
}

func newOpenaiClient(baseURL string, apiKey string) *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &client
}

func (c *StyleOpenAIClient) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// ResetMetrics clears the accumulated usage metrics.
func (c *StyleOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the accumulated usage metrics.
func (c *StyleOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

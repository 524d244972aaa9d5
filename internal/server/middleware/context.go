package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/stylemetry/engine/internal/util"
	"github.com/stylemetry/engine/pkg/ai"
	oai "github.com/stylemetry/engine/pkg/ai/ollama"
	gai "github.com/stylemetry/engine/pkg/ai/openai"
	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/pipeline"
	"github.com/stylemetry/engine/pkg/store"
)

// App bundles the shared dependencies handlers pull from the request context.
type App struct {
	Queue    *amqp091.Channel
	AiClient ai.StyleAIClient
	Pipeline *pipeline.Pipeline
	Storage  store.ProfileStorage
}

type AppContext struct {
	echo.Context
	App *App
}

// NewAIClientFromEnv builds the configured AI client. AI_ADAPTER selects
// "ollama"; anything else uses the OpenAI-compatible client.
func NewAIClientFromEnv() ai.StyleAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewStyleOllamaClient(oai.NewStyleOllamaClientParams{
			AnnotationModel: util.GetEnv("AI_CHAT_ANNOTATE_MODEL"),
			EvaluationModel: util.GetEnv("AI_CHAT_EVALUATE_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewStyleOpenAIClient(gai.NewStyleOpenAIClientParams{
			AnnotationModel: util.GetEnv("AI_CHAT_ANNOTATE_MODEL"),
			EvaluationModel: util.GetEnv("AI_CHAT_EVALUATE_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),
			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 8)),
		})
	}
}

// AppContextMiddleware attaches the shared App to every request.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{
				Context: c,
				App:     app,
			}
			return next(cc)
		}
	}
}

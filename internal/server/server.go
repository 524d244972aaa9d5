package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/stylemetry/engine/internal/queue"
	mid "github.com/stylemetry/engine/internal/server/middleware"
	"github.com/stylemetry/engine/internal/storage"
	"github.com/stylemetry/engine/internal/util"
	"github.com/stylemetry/engine/pkg/logger"
	"github.com/stylemetry/engine/pkg/pipeline"
	"github.com/stylemetry/engine/pkg/vectorspace"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profileStorage, closeStorage, err := storage.NewProfileStorage(ctx)
	if err != nil {
		logger.Fatal("Failed to init profile storage", "err", err)
	}
	defer closeStorage()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}

	err = queue.SetupQueues(ch, []string{queue.AnalysisQueue})
	if err != nil {
		logger.Fatal("Failed to setup queues", "err", err)
	}

	aiClient := mid.NewAIClientFromEnv()

	cachePath := util.GetEnvString("EMBED_CACHE_PATH", "data/embedding_cache.json")
	cache, err := vectorspace.NewCache(cachePath)
	if err != nil {
		logger.Fatal("Failed to init embedding cache", "err", err)
	}

	app := &mid.App{
		Queue:    ch,
		AiClient: aiClient,
		Pipeline: pipeline.New(aiClient, cache),
		Storage:  profileStorage,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("16M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

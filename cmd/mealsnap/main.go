package main

import (
	"log"
	"log/slog"

	"github.com/musicjoeyoung/MealSnap/internal/analyze"
	"github.com/musicjoeyoung/MealSnap/internal/config"
	"github.com/musicjoeyoung/MealSnap/internal/db"
	"github.com/musicjoeyoung/MealSnap/internal/llm"
	anthropicllm "github.com/musicjoeyoung/MealSnap/internal/llm/anthropic"
	ollamallm "github.com/musicjoeyoung/MealSnap/internal/llm/ollama"
	"github.com/musicjoeyoung/MealSnap/internal/logging"
	"github.com/musicjoeyoung/MealSnap/internal/service"
	"github.com/musicjoeyoung/MealSnap/internal/store"
	"github.com/musicjoeyoung/MealSnap/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	invoker := newInvoker(cfg, logger)
	if invoker == nil {
		return
	}

	analyzer := analyze.New(invoker, cfg.VisionModel, cfg.ReasoningModel, logger)
	mealStore := store.NewMealStore(database)
	mealService := service.NewMealService(mealStore, logger)
	server := web.NewServer(analyzer, mealService, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newInvoker(cfg *config.Config, logger *slog.Logger) llm.Invoker {
	switch cfg.LLMBackend {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when LLM_BACKEND=anthropic")
			return nil
		}
		logger.Info("using Anthropic backend", "vision_model", cfg.VisionModel, "reasoning_model", cfg.ReasoningModel)
		return anthropicllm.New(cfg.AnthropicAPIKey)
	default:
		logger.Info("using Ollama backend", "host", cfg.OllamaHost, "vision_model", cfg.VisionModel, "reasoning_model", cfg.ReasoningModel)
		return ollamallm.New(cfg.OllamaHost)
	}
}

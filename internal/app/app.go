// Package app wires the configured collaborators into the pipeline, shared by
// every command.
package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
	"github.com/joseph-ayodele/medocs/internal/core/llm/openai"
	"github.com/joseph-ayodele/medocs/internal/core/llm/vertex"
	"github.com/joseph-ayodele/medocs/internal/core/ocr"
	"github.com/joseph-ayodele/medocs/internal/core/search"
	"github.com/joseph-ayodele/medocs/internal/export"
	"github.com/joseph-ayodele/medocs/internal/repository"
)

// AI is the surface both provider adapters implement.
type AI interface {
	llm.Generator
	llm.VisionGenerator
}

type App struct {
	Config    *common.Config
	Store     repository.DocumentStore
	AI        AI // nil without a credential
	Selector  *ocr.Selector
	Processor *core.Processor
	Search    *search.Engine
	Export    *export.Service

	closers []func()
}

// New opens the store and builds the pipeline. Callers must Close the App.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg}

	store, closeStore, err := repository.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, closeStore)

	ai, err := newAI(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	local := ocr.NewTesseract(ocr.TesseractConfigFrom(cfg.OCR), ocr.ExecRunner{}, logger)
	var cloud ocr.Recognizer
	var gen llm.Generator
	if ai != nil {
		a.AI = ai
		cloud = ocr.NewCloud(ai, logger)
		gen = ai
		if c, ok := ai.(interface{ Close() error }); ok {
			a.closers = append(a.closers, func() {
				if err := c.Close(); err != nil {
					logger.Warn("app.ai.close_failed", "error", err)
				}
			})
		}
	}

	a.Selector = ocr.NewSelector(local, cloud, logger)
	var procOpts []core.Option
	if gen != nil {
		procOpts = append(procOpts, core.WithSummarizer(gen, cfg.LLM.Timeout))
	}
	a.Processor = core.NewProcessor(logger, a.Selector, a.Store, procOpts...)
	a.Search = search.NewEngine(gen, logger)
	a.Export = export.NewService(a.Store, logger)

	logger.Info("app.ready",
		"store", cfg.Store.Driver,
		"llm_provider", cfg.LLM.Provider,
		"ai_enabled", ai != nil,
	)
	return a, nil
}

func newAI(ctx context.Context, cfg *common.Config, logger *slog.Logger) (AI, error) {
	if !cfg.HasLLMCredential() {
		logger.Warn("app.ai.disabled", "provider", cfg.LLM.Provider, "reason", "no credential configured")
		return nil, nil
	}
	switch cfg.LLM.Provider {
	case "vertex":
		g, err := vertex.NewGenerator(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return openai.NewClient(openai.ConfigFrom(cfg.LLM), logger), nil
	}
}

// SearchOptions returns the configured search defaults.
func (a *App) SearchOptions() search.Options {
	return search.OptionsFrom(a.Config.Search)
}

// Close releases the store and AI clients in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// NewLogger builds the JSON logger every command uses. LOG_LEVEL=debug
// enables debug output.
func NewLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

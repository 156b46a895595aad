package openai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/medocs/internal/common"
)

// Config for the OpenAI client.
type Config struct {
	APIKey      string
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // text model, e.g. "gpt-4o-mini"
	VisionModel string        // image-capable model; defaults to Model
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
}

// ConfigFrom maps the application LLM settings onto the client config.
func ConfigFrom(c common.LLMConfig) Config {
	return Config{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		VisionModel: c.VisionModel,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}

// Client talks to the chat completions endpoint. It implements llm.Generator
// and llm.VisionGenerator.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("component", "openai"),
	}
}

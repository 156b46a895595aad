package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
)

var (
	_ llm.Generator       = (*Client)(nil)
	_ llm.VisionGenerator = (*Client)(nil)
)

// Generate sends a single user message and returns the first choice's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	return c.complete(ctx, "generate", body)
}

// GenerateFromImage attaches the image inline as a data URL and asks for a
// JSON object reply.
func (c *Client) GenerateFromImage(ctx context.Context, prompt, mediaType string, image []byte) (string, error) {
	body := map[string]any{
		"model":           c.cfg.VisionModel,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": map[string]any{"url": llm.DataURL(mediaType, image)}},
				},
			},
		},
	}
	return c.complete(ctx, "vision", body)
}

func (c *Client) complete(ctx context.Context, op string, body map[string]any) (string, error) {
	if c.cfg.APIKey == "" {
		return "", common.NewAppError(common.CodeAIUnavailable, "OPENAI_API_KEY is not set", common.ErrAIUnavailable)
	}
	start := time.Now()
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		c.logger.Error("llm."+op+".http_error",
			"status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm."+op+".decode_error",
			"error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: decode openai response: %v", common.ErrParse, err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm."+op+".no_choices",
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: no choices in openai response", common.ErrParse)
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.logger.Debug("llm."+op+".ok",
		"model", body["model"],
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

package ocr

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// Cloud recognizes text with a vision-capable model.
type Cloud struct {
	vision llm.VisionGenerator
	logger *slog.Logger
}

func NewCloud(vision llm.VisionGenerator, logger *slog.Logger) *Cloud {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cloud{vision: vision, logger: logger.With("engine", "cloud")}
}

func (c *Cloud) Recognize(ctx context.Context, mediaType string, data []byte) (entity.RawOCRResult, error) {
	start := time.Now()
	reply, err := c.vision.GenerateFromImage(ctx, llm.VisionOCRPrompt, mediaType, data)
	if err != nil {
		return entity.RawOCRResult{}, common.NewAppError(common.CodeOCRFailed, "cloud recognition failed", err)
	}
	var vt llm.VisionText
	if err := llm.DecodeResponse(reply, llm.VisionTextSchema(), &vt); err != nil {
		c.logger.Error("ocr.cloud.parse_failed", "error", err, "reply_len", len(reply))
		return entity.RawOCRResult{}, common.NewAppError(common.CodeAIParse, "cloud recognition reply was not usable", err)
	}
	text := NormalizeLayout(vt.Text)
	conf := vt.Confidence
	if conf <= 0 {
		conf = heuristicConfidence(text)
	}
	c.logger.Debug("ocr.cloud.ok",
		"text_len", len(text),
		"confidence", conf,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return entity.RawOCRResult{Text: text, Confidence: entity.ClampConfidence(conf), Engine: "cloud"}, nil
}

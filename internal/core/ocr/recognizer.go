package ocr

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// Recognizer turns image bytes into text plus a confidence in [0,1].
type Recognizer interface {
	Recognize(ctx context.Context, mediaType string, data []byte) (entity.RawOCRResult, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, mediaType string, data []byte) (entity.RawOCRResult, error)

func (f RecognizerFunc) Recognize(ctx context.Context, mediaType string, data []byte) (entity.RawOCRResult, error) {
	return f(ctx, mediaType, data)
}

var ErrNoEngine = common.NewAppError(common.CodeOCRFailed, "no OCR engine is configured", common.ErrUpstream)

// Selector routes a recognition request to the local or cloud engine. A nil
// cloud engine means no credential is configured.
type Selector struct {
	local  Recognizer
	cloud  Recognizer
	logger *slog.Logger
}

func NewSelector(local, cloud Recognizer, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{local: local, cloud: cloud, logger: logger}
}

// Recognize runs the engine the method names. Auto prefers the cloud engine
// and retries locally when it fails; an explicit cloud request without a
// credential is served locally with a warning.
func (s *Selector) Recognize(ctx context.Context, method constants.OCRMethod, mediaType string, data []byte) (entity.RawOCRResult, error) {
	logger := common.LoggerFromContext(ctx, s.logger)
	switch method {
	case constants.OCRMethodLocal:
		return s.run(ctx, s.local, mediaType, data)
	case constants.OCRMethodCloud:
		if s.cloud == nil {
			logger.Warn("ocr.cloud.unavailable", "fallback", "local", "reason", "no credential configured")
			return s.run(ctx, s.local, mediaType, data)
		}
		return s.run(ctx, s.cloud, mediaType, data)
	default:
		if s.cloud == nil {
			return s.run(ctx, s.local, mediaType, data)
		}
		res, err := s.run(ctx, s.cloud, mediaType, data)
		if err == nil || s.local == nil || ctx.Err() != nil {
			return res, err
		}
		logger.Warn("ocr.cloud.failed", "fallback", "local", "error", err)
		return s.run(ctx, s.local, mediaType, data)
	}
}

func (s *Selector) run(ctx context.Context, r Recognizer, mediaType string, data []byte) (entity.RawOCRResult, error) {
	if r == nil {
		return entity.RawOCRResult{}, ErrNoEngine
	}
	res, err := r.Recognize(ctx, mediaType, data)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			return entity.RawOCRResult{}, err
		}
		return entity.RawOCRResult{}, common.NewAppError(common.CodeOCRFailed, "recognition failed", errors.Join(common.ErrUpstream, err))
	}
	res.Confidence = entity.ClampConfidence(res.Confidence)
	return res, nil
}

package core

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/classify"
	"github.com/joseph-ayodele/medocs/internal/core/extract"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
	"github.com/joseph-ayodele/medocs/internal/core/ocr"
	"github.com/joseph-ayodele/medocs/internal/core/quality"
	"github.com/joseph-ayodele/medocs/internal/entity"
	"github.com/joseph-ayodele/medocs/internal/repository"
)

// TextRecognizer is satisfied by *ocr.Selector.
type TextRecognizer interface {
	Recognize(ctx context.Context, method constants.OCRMethod, mediaType string, data []byte) (entity.RawOCRResult, error)
}

// Upload is one image submitted for processing.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
	Method      constants.OCRMethod
}

// UploadResult pairs the stored document with the full pipeline output.
type UploadResult struct {
	Document  entity.StoredDocument  `json:"document"`
	Processed entity.ProcessedResult `json:"processed"`
}

// Processor coordinates OCR, the text pipeline and persistence.
type Processor struct {
	logger         *slog.Logger
	recognizer     TextRecognizer
	store          repository.DocumentStore
	summarizer     llm.Generator
	summaryTimeout time.Duration
	now            func() time.Time
}

type Option func(*Processor)

// WithSummarizer enables AI summaries; the deterministic summary is used when
// gen is nil or a call fails.
func WithSummarizer(gen llm.Generator, timeout time.Duration) Option {
	return func(p *Processor) {
		p.summarizer = gen
		if timeout > 0 {
			p.summaryTimeout = timeout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func NewProcessor(logger *slog.Logger, recognizer TextRecognizer, store repository.DocumentStore, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:         logger,
		recognizer:     recognizer,
		store:          store,
		summaryTimeout: 30 * time.Second,
		now:            time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ProcessText normalizes recognized text and runs the four independent
// stages over it. It never fails.
func (p *Processor) ProcessText(raw entity.RawOCRResult) entity.ProcessedResult {
	text := ocr.Normalize(raw.Text)
	res := entity.ProcessedResult{
		Text:       text,
		Confidence: entity.ClampConfidence(raw.Confidence),
	}

	// each stage writes its own field
	var g errgroup.Group
	g.Go(func() error {
		res.Entities = extract.Entities(text)
		return nil
	})
	g.Go(func() error {
		res.DocumentType, res.ClassifiedBy = classify.Explain(text)
		return nil
	})
	g.Go(func() error {
		res.Record = extract.BuildRecord(text)
		return nil
	})
	g.Go(func() error {
		res.Suggestions = quality.Advise(res.Confidence, text)
		return nil
	})
	_ = g.Wait()
	return res
}

// ProcessUpload validates the image, recognizes it, runs the text pipeline and
// appends the resulting document to the store. Input rejections, OCR with no
// engine left and store failures are returned; AI summary failures degrade to
// the deterministic summary.
func (p *Processor) ProcessUpload(ctx context.Context, up Upload) (UploadResult, error) {
	logger := common.LoggerFromContext(ctx, p.logger).With("name", up.Name)
	start := time.Now()

	v := common.NewValidator().
		Field("name", up.Name, common.Required, common.MaxLength(255)).
		Field("method", string(up.Method), common.OneOf(
			string(constants.OCRMethodAuto), string(constants.OCRMethodLocal), string(constants.OCRMethodCloud),
		))
	if err := v.Error(); err != nil {
		return UploadResult{}, err
	}
	mediaType, err := ocr.ValidateUpload(up.ContentType, up.Data)
	if err != nil {
		logger.Warn("processor.upload.rejected", "content_type", up.ContentType, "bytes", len(up.Data), "error", err)
		return UploadResult{}, err
	}
	method := up.Method
	if method == "" {
		method = constants.OCRMethodAuto
	}

	raw, err := p.recognizer.Recognize(ctx, method, mediaType, up.Data)
	if err != nil {
		logger.Error("processor.ocr.failed", "method", method, "error", err)
		return UploadResult{}, err
	}
	logger.Debug("processor.ocr.done",
		"engine", raw.Engine,
		"confidence", raw.Confidence,
		"chars", len(raw.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	res := p.ProcessText(raw)
	logger.Debug("classify.rule", "type", res.DocumentType, "keyword", res.ClassifiedBy)
	doc := entity.StoredDocument{
		Name:       strings.TrimSpace(up.Name),
		Type:       res.DocumentType,
		Date:       DocumentDate(res.Record.Date, p.now()),
		Doctor:     res.Record.ProviderName,
		Hospital:   extract.Facility(res.Text),
		Summary:    entity.StrPtr(p.summarize(ctx, logger, res)),
		Tags:       Tags(res),
		Content:    entity.StrPtr(ocr.NormalizeLayout(raw.Text)),
		Confidence: res.Confidence,
	}

	stored, err := p.store.Append(ctx, doc)
	if err != nil {
		logger.Error("processor.store.failed", "error", err)
		return UploadResult{}, err
	}
	logger.Info("processor.upload.done",
		"document_id", stored.ID,
		"type", stored.Type,
		"entities", len(res.Entities),
		"suggestions", len(res.Suggestions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return UploadResult{Document: stored, Processed: res}, nil
}

func (p *Processor) summarize(ctx context.Context, logger *slog.Logger, res entity.ProcessedResult) string {
	fallback := Summarize(res)
	if p.summarizer == nil || strings.TrimSpace(res.Text) == "" {
		return fallback
	}
	cctx, cancel := common.WithTimeout(ctx, p.summaryTimeout)
	defer cancel()

	start := time.Now()
	out, err := p.summarizer.Generate(cctx, llm.BuildSummaryPrompt(res.DocumentType, res.Text))
	if err != nil {
		logger.Warn("processor.summary.ai_failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return fallback
	}
	out = strings.TrimSpace(out)
	if out == "" {
		logger.Warn("processor.summary.ai_empty", "elapsed_ms", time.Since(start).Milliseconds())
		return fallback
	}
	return out
}

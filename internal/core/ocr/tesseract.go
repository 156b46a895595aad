package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// TesseractConfig configures the local engine.
type TesseractConfig struct {
	Binary        string // binary name or absolute path; if empty -> "tesseract"
	Lang          string // default "eng"
	TessdataDir   string
	PSM           int // e.g., 6 is good for uniform block of text
	OEM           int // 1 = LSTM; leave 0 to use default
	TSVConfidence bool
}

// TesseractConfigFrom maps the application OCR settings.
func TesseractConfigFrom(c common.OCRConfig) TesseractConfig {
	return TesseractConfig{
		Binary:        c.Tesseract,
		Lang:          c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		PSM:           c.PSM,
		OEM:           c.OEM,
		TSVConfidence: c.TSVConfidence,
	}
}

// Tesseract is the local engine: it shells out to the tesseract CLI.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg TesseractConfig, runner Runner, logger *slog.Logger) *Tesseract {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger.With("engine", "tesseract")}
}

func (t *Tesseract) Recognize(ctx context.Context, mediaType string, data []byte) (entity.RawOCRResult, error) {
	f, err := os.CreateTemp("", "medocs-ocr-*")
	if err != nil {
		return entity.RawOCRResult{}, fmt.Errorf("create temp image: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			t.logger.Warn("ocr.tesseract.cleanup_failed", "path", path, "error", err)
		}
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return entity.RawOCRResult{}, fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return entity.RawOCRResult{}, fmt.Errorf("close temp image: %w", err)
	}

	txt, err := t.text(ctx, path)
	if err != nil {
		return entity.RawOCRResult{}, err
	}

	var engineConf float64
	if t.cfg.TSVConfidence {
		if c, err := t.tsvConfidence(ctx, path); err == nil {
			engineConf = c
		} else {
			t.logger.Warn("ocr.tesseract.tsv_failed", "error", err)
		}
	}
	heur := heuristicConfidence(txt)
	conf := blendConfidence(engineConf, heur)

	t.logger.Debug("ocr.tesseract.ok",
		"media_type", mediaType,
		"text_len", len(txt),
		"engine_conf", engineConf,
		"heuristic_conf", heur,
		"confidence", conf,
	)
	return entity.RawOCRResult{Text: txt, Confidence: conf, Engine: "tesseract"}, nil
}

func (t *Tesseract) baseArgs(path string) []string {
	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}

func (t *Tesseract) text(ctx context.Context, path string) (string, error) {
	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, t.logger, t.baseArgs(path)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}
	return NormalizeLayout(string(out)), nil
}

// tsvConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (t *Tesseract) tsvConfidence(ctx context.Context, path string) (float64, error) {
	args := append(t.baseArgs(path), "tsv")
	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, t.logger, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}
	return meanTSVConfidence(string(out)), nil
}

// meanTSVConfidence averages the conf column over word rows. Columns are
// level, page, block, par, line, word, left, top, width, height, conf, text.
func meanTSVConfidence(tsv string) float64 {
	var sum, n float64
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || len(ln) == 0 {
			continue
		} // skip header
		cols := strings.Split(ln, "\t")
		if len(cols) < 11 {
			continue
		}
		confStr := strings.TrimSpace(cols[10])
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n / 100.0
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/app"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core"
)

// runocr processes one image file and prints the stored document and the
// pipeline output as JSON.
func main() {
	methodName := flag.String("method", "", "ocr method: auto, local or cloud (default from OCR_METHOD)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	logger := app.NewLogger()
	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runocr [-method local|cloud|auto] <image-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if *methodName == "" {
		*methodName = cfg.OCR.Method
	}
	method, ok := constants.ParseOCRMethod(*methodName)
	if !ok {
		logger.Error("unknown ocr method", "method", *methodName)
		os.Exit(2)
	}
	mediaType := constants.MediaTypeForExt(filepath.Ext(path))
	if mediaType == "" {
		logger.Error("unsupported file extension", "path", path)
		os.Exit(2)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	start := time.Now()
	res, err := a.Processor.ProcessUpload(ctx, core.Upload{
		Name:        filepath.Base(path),
		ContentType: mediaType,
		Data:        data,
		Method:      method,
	})
	if err != nil {
		logger.Error("processing failed", "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	logger.Info("processing OK",
		"document_id", res.Document.ID,
		"type", res.Document.Type,
		"confidence", res.Processed.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/app"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/async"
	"github.com/joseph-ayodele/medocs/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory of scanned documents (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		fromStr    = flag.String("from", "", "export from date YYYY-MM-DD")
		toStr      = flag.String("to", "", "export to date YYYY-MM-DD")
		methodName = flag.String("method", "", "ocr method: auto, local or cloud (default from OCR_METHOD)")
		workers    = flag.Int("workers", 4, "concurrent documents")
		watch      = flag.Bool("watch", false, "keep running and process new files as they appear")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "medical-documents.xlsx")
	}
	from, err := parseDate(*fromStr)
	if err != nil {
		printError("Error: invalid --from date format, use YYYY-MM-DD: %v\n", err)
		os.Exit(1)
	}
	to, err := parseDate(*toStr)
	if err != nil {
		printError("Error: invalid --to date format, use YYYY-MM-DD: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger()
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
		printError("Error: unknown --method %q\n", *methodName)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var processed, failures atomic.Int64
	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(*workers),
		async.WithQueueSize(64),
		async.WithProcessTimeout(3*time.Minute),
		async.WithResultHandler(func(o async.Outcome) {
			if o.Err != nil {
				failures.Add(1)
				return
			}
			processed.Add(1)
		}),
	)
	ingestor := ingest.NewUsecase(queue, method, logger)

	logger.Info("starting ingestion", "dir", *dir, "method", method)
	_, stats, err := ingestor.IngestDirectory(ctx, *dir, true)
	if err != nil {
		logger.Error("failed to ingest directory", "error", err)
	}

	if *watch && err == nil {
		events, errs, werr := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:    []string{*dir},
			Debounce: 500 * time.Millisecond,
			Logger:   logger,
		})
		if werr != nil {
			logger.Error("failed to start watcher", "error", werr)
		} else {
			logger.Info("watching for new documents", "dir", *dir)
			watchLoop(ctx, ingestor, events, errs)
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	queue.Shutdown(drainCtx)
	cancel()

	logger.Info("exporting to XLSX", "output", *out)
	xlsxBytes, err := a.Export.DocumentsXLSX(context.Background(), from, to)
	if err != nil {
		logger.Error("failed to export documents", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"processed", processed.Load(),
		"failures", failures.Load(),
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", stats.Matched)
	fmt.Printf("- Duplicates skipped: %d\n", stats.Deduplicated)
	fmt.Printf("- Documents processed: %d\n", processed.Load())
	fmt.Printf("- Failures: %d\n", failures.Load())
	fmt.Printf("- Output: %s\n", *out)
}

func watchLoop(ctx context.Context, ingestor *ingest.Usecase, events <-chan string, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-events:
			if !ok {
				return
			}
			if _, err := ingestor.IngestPath(ctx, path); err != nil {
				printError("skipped %s: %v\n", path, err)
			}
		case _, ok := <-errs:
			if !ok {
				return
			}
		}
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

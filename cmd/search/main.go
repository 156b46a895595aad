package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joseph-ayodele/medocs/internal/app"
	"github.com/joseph-ayodele/medocs/internal/common"
)

// search runs one query against the configured store and prints the results
// as JSON, optionally writing them to an XLSX workbook.
func main() {
	enhance := flag.Bool("enhance", false, "rewrite keyword hits into answers (needs an AI credential)")
	out := flag.String("xlsx", "", "also write results to this XLSX file")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Parse()

	logger := app.NewLogger()
	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		logger.Error("usage", "cmd", "search [-enhance] [-xlsx out.xlsx] <query>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	corpus, err := a.Store.All(ctx)
	if err != nil {
		logger.Error("load documents", "error", err)
		os.Exit(1)
	}
	opts := a.SearchOptions()
	opts.Enhance = opts.Enhance || *enhance
	results := a.Search.Search(ctx, query, corpus, opts)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}

	if *out != "" {
		data, err := a.Export.SearchResultsXLSX(query, results)
		if err != nil {
			logger.Error("export results", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Error("write output file", "path", *out, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("search complete", "corpus", len(corpus), "results", len(results))
}

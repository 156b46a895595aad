package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// Options tune the AI tier for one query.
type Options struct {
	Enhance        bool          // rewrite keyword hits into answers to the query
	MaxEnhanced    int           // default constants.MaxEnhancedSearchResults
	RequestTimeout time.Duration // per AI request; 0 means caller context only
}

// OptionsFrom maps the application search settings.
func OptionsFrom(c common.SearchConfig) Options {
	return Options{Enhance: c.Enhance, MaxEnhanced: c.MaxEnhanced, RequestTimeout: c.RequestTimeout}
}

// Engine answers free-text queries over a corpus. Keyword matching runs
// first; the generator is consulted when nothing matched, or to enhance hits.
// A nil generator leaves only the keyword tier.
type Engine struct {
	gen    llm.Generator
	logger *slog.Logger
}

func NewEngine(gen llm.Generator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{gen: gen, logger: logger.With("component", "search")}
}

// Search never fails: any AI problem degrades to the keyword results.
func (e *Engine) Search(ctx context.Context, query string, corpus []entity.StoredDocument, opts Options) []entity.SearchResult {
	logger := common.LoggerFromContext(ctx, e.logger)
	start := time.Now()
	if strings.TrimSpace(query) == "" {
		return make([]entity.SearchResult, 0)
	}
	if opts.MaxEnhanced <= 0 {
		opts.MaxEnhanced = constants.MaxEnhancedSearchResults
	}

	hits := Keyword(query, corpus)
	logger.Debug("search.keyword.done", "query_len", len(query), "corpus", len(corpus), "hits", len(hits))

	switch {
	case e.gen == nil || len(corpus) == 0:
		return hits
	case len(hits) == 0:
		res := e.semantic(ctx, logger, query, corpus, opts)
		logger.Info("search.semantic.done", "results", len(res), "elapsed_ms", time.Since(start).Milliseconds())
		return res
	case opts.Enhance:
		res := e.enhance(ctx, logger, query, hits, opts)
		logger.Info("search.enhance.done", "results", len(res), "elapsed_ms", time.Since(start).Milliseconds())
		return res
	default:
		return hits
	}
}

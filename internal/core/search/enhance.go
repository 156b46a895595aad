package search

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// enhance asks for a grounded answer for each of the first opts.MaxEnhanced
// hits; later hits pass through unchanged. Requests run concurrently and each
// writes its own slot so corpus order holds. A failed request keeps that
// hit's summary.
func (e *Engine) enhance(ctx context.Context, logger *slog.Logger, query string, hits []entity.SearchResult, opts Options) []entity.SearchResult {
	n := min(len(hits), opts.MaxEnhanced)
	out := make([]entity.SearchResult, len(hits))
	copy(out, hits)

	var g errgroup.Group
	g.SetLimit(n)
	for i := range n {
		g.Go(func() error {
			reqCtx, cancel := common.WithTimeout(ctx, opts.RequestTimeout)
			defer cancel()
			answer, err := e.gen.Generate(reqCtx, llm.BuildEnhancePrompt(query, out[i].OriginalDoc))
			answer = strings.TrimSpace(answer)
			switch {
			case err != nil:
				logger.Warn("search.enhance.ai_failed", "document", out[i].DocumentName, "error", err, "fallback", "summary")
			case answer == "":
				logger.Warn("search.enhance.empty_answer", "document", out[i].DocumentName, "fallback", "summary")
			default:
				out[i].Content = answer
			}
			// never fail siblings
			return nil
		})
	}
	_ = g.Wait()
	return out
}

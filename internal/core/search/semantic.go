package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core/llm"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// semantic sends the whole corpus listing in one request and maps the
// returned array back onto stored documents. Any failure yields no results.
func (e *Engine) semantic(ctx context.Context, logger *slog.Logger, query string, corpus []entity.StoredDocument, opts Options) []entity.SearchResult {
	out := make([]entity.SearchResult, 0)

	reqCtx, cancel := common.WithTimeout(ctx, opts.RequestTimeout)
	defer cancel()
	reply, err := e.gen.Generate(reqCtx, llm.BuildSemanticSearchPrompt(query, corpus))
	if err != nil {
		logger.Warn("search.semantic.ai_failed", "error", err, "fallback", "keyword")
		return out
	}

	var hits []llm.SemanticHit
	if err := llm.DecodeResponse(reply, llm.SemanticResultsSchema(), &hits); err != nil {
		logger.Warn("search.semantic.parse_failed", "error", err, "reply_len", len(reply), "fallback", "keyword")
		return out
	}

	byName := make(map[string]entity.StoredDocument, len(corpus))
	for i := len(corpus) - 1; i >= 0; i-- {
		byName[strings.ToLower(strings.TrimSpace(corpus[i].Name))] = corpus[i]
	}
	for _, h := range hits {
		doc, ok := byName[strings.ToLower(strings.TrimSpace(h.DocumentName))]
		if !ok {
			logger.Warn("search.semantic.unknown_document", "document_name", h.DocumentName)
			continue
		}
		date := strings.TrimSpace(h.Date)
		if date == "" {
			date = doc.Date.Format(entity.DateLayout)
		}
		out = append(out, entity.SearchResult{
			DocumentName: doc.Name,
			Date:         date,
			Content:      strings.TrimSpace(h.Content),
			OriginalDoc:  doc,
		})
	}
	return out
}

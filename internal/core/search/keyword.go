package search

import (
	"strings"

	"github.com/joseph-ayodele/medocs/internal/entity"
)

// Keyword returns every document whose searchable text contains query,
// case-insensitively, in corpus order. Content is the document summary.
// The query is matched as given; only a blank query is rejected.
func Keyword(query string, corpus []entity.StoredDocument) []entity.SearchResult {
	out := make([]entity.SearchResult, 0)
	if strings.TrimSpace(query) == "" {
		return out
	}
	q := strings.ToLower(query)
	for _, doc := range corpus {
		if strings.Contains(searchableText(doc), q) {
			out = append(out, toResult(doc))
		}
	}
	return out
}

// searchableText concatenates name, summary, doctor, hospital, tags and content.
func searchableText(doc entity.StoredDocument) string {
	parts := []string{
		doc.Name,
		entity.StrOrEmpty(doc.Summary),
		entity.StrOrEmpty(doc.Doctor),
		entity.StrOrEmpty(doc.Hospital),
		strings.Join(doc.Tags, " "),
		entity.StrOrEmpty(doc.Content),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func toResult(doc entity.StoredDocument) entity.SearchResult {
	return entity.SearchResult{
		DocumentName: doc.Name,
		Date:         doc.Date.Format(entity.DateLayout),
		Content:      entity.StrOrEmpty(doc.Summary),
		OriginalDoc:  doc,
	}
}

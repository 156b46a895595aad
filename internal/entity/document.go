package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/medocs/constants"
)

// StoredDocument is the persisted unit the search engine queries.
type StoredDocument struct {
	ID         uuid.UUID              `json:"id"`
	Name       string                 `json:"name"`
	Type       constants.DocumentType `json:"type"`
	Date       time.Time              `json:"date"`
	Doctor     *string                `json:"doctor,omitempty"`
	Hospital   *string                `json:"hospital,omitempty"`
	Summary    *string                `json:"summary,omitempty"`
	Tags       []string               `json:"tags"`
	Content    *string                `json:"content,omitempty"`
	Confidence float64                `json:"confidence"`
	CreatedAt  time.Time              `json:"created_at"`
}

// SearchResult is produced per query and never persisted.
type SearchResult struct {
	DocumentName string         `json:"documentName"`
	Date         string         `json:"date"`
	Content      string         `json:"content"`
	OriginalDoc  StoredDocument `json:"originalDoc"`
}

// DateLayout is the wire format for SearchResult.Date.
const DateLayout = "2006-01-02"

// StrOrEmpty dereferences an optional field.
func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// StrPtr returns nil for blank strings so optional fields stay absent.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

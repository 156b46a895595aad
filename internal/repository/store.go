package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/medocs/internal/entity"
)

// DocumentStore is an append-only list of processed documents. All returns
// documents in append order.
type DocumentStore interface {
	Append(ctx context.Context, doc entity.StoredDocument) (entity.StoredDocument, error)
	All(ctx context.Context) ([]entity.StoredDocument, error)
	Find(ctx context.Context, id uuid.UUID) (entity.StoredDocument, error)
}

// prepare assigns the store-owned fields of a new document.
func prepare(doc entity.StoredDocument, now func() time.Time) entity.StoredDocument {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now().UTC()
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	doc.Confidence = entity.ClampConfidence(doc.Confidence)
	return doc
}

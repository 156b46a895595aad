package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []entity.StoredDocument
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Append(ctx context.Context, doc entity.StoredDocument) (entity.StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return entity.StoredDocument{}, err
	}
	doc = prepare(doc, s.now)
	doc.Tags = slices.Clone(doc.Tags)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return doc, nil
}

func (s *MemoryStore) All(ctx context.Context) ([]entity.StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.StoredDocument, len(s.docs))
	for i, d := range s.docs {
		d.Tags = slices.Clone(d.Tags)
		out[i] = d
	}
	return out, nil
}

func (s *MemoryStore) Find(ctx context.Context, id uuid.UUID) (entity.StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return entity.StoredDocument{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.ID == id {
			d.Tags = slices.Clone(d.Tags)
			return d, nil
		}
	}
	return entity.StoredDocument{}, fmt.Errorf("document %s: %w", id, common.ErrNotFound)
}

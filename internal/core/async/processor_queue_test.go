package async

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/medocs/internal/common"
	"github.com/joseph-ayodele/medocs/internal/core"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

type fakeProcessor struct {
	mu   sync.Mutex
	seen []string
}

func (f *fakeProcessor) ProcessUpload(_ context.Context, up core.Upload) (core.UploadResult, error) {
	f.mu.Lock()
	f.seen = append(f.seen, up.Name)
	f.mu.Unlock()
	if up.Name == "bad.png" {
		return core.UploadResult{}, common.ErrUpstream
	}
	return core.UploadResult{Document: entity.StoredDocument{ID: uuid.New(), Name: up.Name}}, nil
}

func TestProcessorQueueDrainsOnShutdown(t *testing.T) {
	proc := &fakeProcessor{}
	var (
		mu       sync.Mutex
		outcomes = map[string]Outcome{}
	)
	q := NewProcessorQueue(proc, slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithWorkers(3),
		WithQueueSize(1),
		WithResultHandler(func(o Outcome) {
			mu.Lock()
			outcomes[o.Job.Upload.Name] = o
			mu.Unlock()
		}),
	)

	names := []string{"a.png", "b.png", "bad.png", "c.png", "d.png"}
	for _, n := range names {
		if err := q.Enqueue(context.Background(), Job{Upload: core.Upload{Name: n}}); err != nil {
			t.Fatalf("Enqueue(%s): %v", n, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if len(outcomes) != len(names) {
		t.Fatalf("outcomes = %d, want %d", len(outcomes), len(names))
	}
	for _, n := range names {
		o := outcomes[n]
		if o.Job.ID == "" || o.Job.SubmittedAt.IsZero() {
			t.Errorf("%s: job bookkeeping not filled: %+v", n, o.Job)
		}
		if n == "bad.png" {
			if !errors.Is(o.Err, common.ErrUpstream) {
				t.Errorf("bad.png err = %v", o.Err)
			}
			continue
		}
		if o.Err != nil || o.Result.Document.Name != n {
			t.Errorf("%s outcome = %+v", n, o)
		}
	}
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&fakeProcessor{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Upload: core.Upload{Name: "late.png"}})
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

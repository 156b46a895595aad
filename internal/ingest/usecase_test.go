package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/core/async"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type recordingQueue struct {
	mu   sync.Mutex
	jobs []async.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job async.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIngestDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.png"), pngBytes)
	writeFile(t, filepath.Join(root, "nested", "b.PNG"), append(append([]byte{}, pngBytes...), 'x'))
	writeFile(t, filepath.Join(root, "copy-of-a.png"), pngBytes)
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("hello"))
	writeFile(t, filepath.Join(root, "scan.pdf"), []byte("%PDF-1.4"))
	writeFile(t, filepath.Join(root, ".cache", "c.png"), pngBytes)

	q := &recordingQueue{}
	u := NewUsecase(q, constants.OCRMethodLocal, quietLogger())
	results, stats, err := u.IngestDirectory(context.Background(), root, true)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}

	if stats.Matched != 3 || stats.Enqueued != 2 || stats.Deduplicated != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if len(results) != 3 {
		t.Fatalf("results = %+v", results)
	}
	if len(q.jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(q.jobs))
	}
	var names []string
	for _, j := range q.jobs {
		names = append(names, j.Upload.Name)
		if j.Upload.ContentType != "image/png" || j.Upload.Method != constants.OCRMethodLocal || j.ID == "" {
			t.Errorf("job = %+v", j)
		}
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{"a.png", "b.PNG"}) {
		t.Errorf("enqueued = %v", names)
	}
}

func TestIngestPathRejectsUnsupported(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "scan.pdf")
	writeFile(t, path, []byte("%PDF-1.4"))

	q := &recordingQueue{}
	if _, err := NewUsecase(q, constants.OCRMethodAuto, quietLogger()).IngestPath(context.Background(), path); err == nil {
		t.Fatal("expected an error for a pdf")
	}
	if len(q.jobs) != 0 {
		t.Errorf("jobs = %d", len(q.jobs))
	}
}

func TestWatcherInitialScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), []byte{0xff, 0xd8, 0xff})
	writeFile(t, filepath.Join(root, "readme.md"), []byte("#"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	select {
	case p := <-events:
		if filepath.Base(p) != "a.jpg" {
			t.Errorf("event = %q", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no initial event")
	}
	cancel()
	for range events {
	}
}

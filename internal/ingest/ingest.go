package ingest

import (
	"context"

	"github.com/joseph-ayodele/medocs/internal/core/async"
)

// FileResult is the per-file ingest outcome.
type FileResult struct {
	Path         string
	JobID        string
	MediaType    string
	HashHex      string
	Deduplicated bool
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Enqueued     uint32
	Deduplicated uint32
	Failed       uint32
}

// Ingestor is the behavior the batch command depends on.
type Ingestor interface {
	// IngestPath enqueues a single image file.
	IngestPath(ctx context.Context, path string) (FileResult, error)
	// IngestDirectory enqueues every matching file under root.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]FileResult, DirStats, error)
}

var _ Ingestor = (*Usecase)(nil)

// Enqueuer is satisfied by *async.ProcessorQueue.
type Enqueuer interface {
	Enqueue(ctx context.Context, job async.Job) error
}

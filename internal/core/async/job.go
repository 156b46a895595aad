package async

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/medocs/internal/core"
)

// Job is one upload waiting for a worker.
type Job struct {
	ID          string
	Upload      core.Upload
	SubmittedAt time.Time
}

// Outcome is reported once per job after processing.
type Outcome struct {
	Job     Job
	Result  core.UploadResult
	Err     error
	Elapsed time.Duration
}

var ErrQueueClosed = errors.New("queue is shutting down")

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// UploadProcessor is satisfied by *core.Processor.
type UploadProcessor interface {
	ProcessUpload(ctx context.Context, up core.Upload) (core.UploadResult, error)
}

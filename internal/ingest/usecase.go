package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/core"
	"github.com/joseph-ayodele/medocs/internal/core/async"
)

// Usecase reads image files from disk and hands them to the worker queue.
// Files with identical content are enqueued once per Usecase.
type Usecase struct {
	queue  Enqueuer
	method constants.OCRMethod
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]string // content hash -> job id
}

func NewUsecase(queue Enqueuer, method constants.OCRMethod, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{queue: queue, method: method, logger: logger, seen: map[string]string{}}
}

func (u *Usecase) IngestPath(ctx context.Context, path string) (FileResult, error) {
	out := FileResult{Path: path}
	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}
	out.Path = abs
	out.MediaType = constants.MediaTypeForExt(filepath.Ext(abs))
	if out.MediaType == "" {
		return out, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
	}

	info, err := os.Stat(abs)
	if err != nil {
		return out, fmt.Errorf("stat: %w", err)
	}
	if info.Size() > constants.MaxUploadBytes {
		return out, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), constants.MaxUploadBytes)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return out, fmt.Errorf("read: %w", err)
	}
	sum := sha256.Sum256(data)
	out.HashHex = hex.EncodeToString(sum[:])

	u.mu.Lock()
	if jobID, dup := u.seen[out.HashHex]; dup {
		u.mu.Unlock()
		out.JobID = jobID
		out.Deduplicated = true
		u.logger.Info("ingest.deduplicated", "path", abs, "job_id", jobID)
		return out, nil
	}
	out.JobID = uuid.NewString()
	u.seen[out.HashHex] = out.JobID
	u.mu.Unlock()

	job := async.Job{
		ID:          out.JobID,
		SubmittedAt: time.Now().UTC(),
		Upload: core.Upload{
			Name:        filepath.Base(abs),
			ContentType: out.MediaType,
			Data:        data,
			Method:      u.method,
		},
	}
	if err := u.queue.Enqueue(ctx, job); err != nil {
		u.mu.Lock()
		delete(u.seen, out.HashHex)
		u.mu.Unlock()
		return out, fmt.Errorf("enqueue: %w", err)
	}
	return out, nil
}

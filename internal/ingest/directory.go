package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// IngestDirectory walks root, keeps files with an accepted image extension,
// skips hidden entries if requested, and calls IngestPath for each file.
// Returns per-file results + aggregate stats.
func (u *Usecase) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		res, err := u.IngestPath(ctx, path)
		if err != nil {
			res.Err = err.Error()
			results = append(results, res)
			stats.Failed++
			u.logger.Warn("ingest.file.failed", "path", path, "error", err)
			return nil
		}
		results = append(results, res)
		if res.Deduplicated {
			stats.Deduplicated++
		} else {
			stats.Enqueued++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	u.logger.Info("ingest.directory.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"enqueued", stats.Enqueued,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

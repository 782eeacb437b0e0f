package cleanup

import (
	"chat-attachments/internal/core/port"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Sweep removes regular files at the top level of the temp dir whose
// modification time is older than maxAge. It never fails; per-file errors
// are logged and counted.
func (c *cleanupService) Sweep(ctx context.Context, maxAge time.Duration) port.SweepReport {
	var report port.SweepReport
	if maxAge <= 0 {
		maxAge = DefaultTempMaxAge
	}
	cutoff := c.now().Add(-maxAge)

	entries, err := os.ReadDir(c.tempDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.logger.Info("temp dir does not exist, nothing to sweep", "dir", c.tempDir)
		} else {
			c.logger.Error("failed to read temp dir", "dir", c.tempDir, "error", err)
		}
		return report
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			c.logger.Warn("sweep interrupted", "error", ctx.Err())
			break
		}
		if !entry.Type().IsRegular() {
			continue
		}
		report.Scanned++

		path := filepath.Join(c.tempDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				report.Failed++
				c.logger.Warn("failed to stat temp file", "path", path, "error", err)
			}
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			report.Failed++
			c.logger.Warn("failed to remove temp file", "path", path, "error", err)
			continue
		}
		report.Removed++
	}

	c.metrics.ObserveSweep(report.Removed, report.Failed)
	c.logger.Info("temp dir sweep completed",
		"dir", c.tempDir,
		"scanned", report.Scanned,
		"removed", report.Removed,
		"failed", report.Failed)
	return report
}

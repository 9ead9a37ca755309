// Package export writes schedule reports to disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName returns the report file name for the given moment,
// e.g. study_schedule_20240101_093000.txt.
func FileName(now time.Time) string {
	return fmt.Sprintf("study_schedule_%s.txt", now.Format("20060102_150405"))
}

// WriteFile writes text to a timestamped file in dir and returns its path.
func WriteFile(dir string, now time.Time, text string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to export schedule: %w", err)
	}
	return path, nil
}

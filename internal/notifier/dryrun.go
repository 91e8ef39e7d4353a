package notifier

import (
	"fmt"
	"log"
	"os"
	"time"

	"GapScreener/internal/report"
)

// WriteDryRun stores the CSV artifact under dir and returns its path.
func WriteDryRun(dir string, now time.Time, csv []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := report.DryRunPath(dir, now)
	if err := os.WriteFile(path, csv, 0o644); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	log.Printf("[INFO] DRY-RUN: CSV written to %s", path)
	return path, nil
}

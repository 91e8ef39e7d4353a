package recorder

import (
	"time"

	"GapScreener/internal/model"
)

// Run modes stored with each run.
const (
	ModeDryRun = "DRY_RUN"
	ModeLive   = "LIVE"
)

// RunRecord holds one screening run and how it was delivered.
type RunRecord struct {
	Report    *model.Report
	Mode      string
	Delivered bool
	// Artifact is the dry-run CSV path or the email attachment name.
	Artifact string
	Duration time.Duration
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(run *RunRecord) (string, error)
	Close() error
}

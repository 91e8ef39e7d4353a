package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Notes attached to a ScreeningResult.
const (
	NoteNoFriday    = "no friday data"
	NoteNoSunday    = "no sunday open"
	NoteErrorPrefix = "error: "
)

// SessionPair is the Friday close / Sunday reopen pair located for one ticker.
type SessionPair struct {
	FridayTime  null.Time
	FridayClose null.Float
	SundayTime  null.Time
	SundayOpen  null.Float
}

// ScreeningResult is one report row.
type ScreeningResult struct {
	Pair string
	SessionPair
	GapPct null.Float
	Note   string
}

// Report is the ranked set of results for a single run.
type Report struct {
	ExecutedAt time.Time
	Results    []ScreeningResult
}

package notifier

import (
	"fmt"
	"strings"
	"time"

	"GapScreener/internal/model"
	"GapScreener/internal/report"

	"github.com/guregu/null/v6"
)

// ExecutedAtLayout renders the run timestamp in headers and subjects.
const ExecutedAtLayout = "2006-01-02 15:04:05 MST"

// FormatSummary formats the report as the plain-text body shared by the
// console output and the email.
func FormatSummary(r model.Report, loc *time.Location) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Forex gaps - run at: %s\n", r.ExecutedAt.In(loc).Format(ExecutedAtLayout)))
	b.WriteString(fmt.Sprintf("Pairs analysed: %d\n", len(r.Results)))
	b.WriteString("\n")
	b.WriteString("List (pair | friday_close_time | friday_close | sunday_open_time | sunday_open | gap % | note):\n")
	b.WriteString("\n")

	lines := make([]string, 0, len(r.Results))
	for _, row := range r.Results {
		lines = append(lines, FormatRow(row))
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// FormatRow renders one pipe-delimited result line.
func FormatRow(row model.ScreeningResult) string {
	gap := "None"
	if row.GapPct.Valid {
		gap = fmt.Sprintf("%+.4f%%", row.GapPct.Float64)
	}
	return fmt.Sprintf("%s | %s | %s | %s | %s | %s | %s",
		row.Pair,
		formatTime(row.FridayTime), formatPrice(row.FridayClose),
		formatTime(row.SundayTime), formatPrice(row.SundayOpen),
		gap, row.Note)
}

// Subject is the email subject line for a run.
func Subject(r model.Report, loc *time.Location) string {
	return "Forex gaps - " + r.ExecutedAt.In(loc).Format(ExecutedAtLayout)
}

func formatTime(t null.Time) string {
	if !t.Valid {
		return "None"
	}
	return report.FormatTime(t)
}

func formatPrice(f null.Float) string {
	if !f.Valid {
		return "None"
	}
	return fmt.Sprintf("%.6f", f.Float64)
}

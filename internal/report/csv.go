package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"GapScreener/internal/model"

	"github.com/guregu/null/v6"
)

// Columns is the CSV header row.
var Columns = []string{"pair", "friday_time", "friday_close", "sunday_time", "sunday_open", "gap_pct", "note"}

// TimeLayout renders bar timestamps with their UTC offset.
const TimeLayout = "2006-01-02 15:04:05-07:00"

// EncodeCSV renders the report as CSV. Null values become empty cells.
func EncodeCSV(r model.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, row := range r.Results {
		rec := []string{
			row.Pair,
			FormatTime(row.FridayTime),
			formatFloat(row.FridayClose),
			FormatTime(row.SundayTime),
			formatFloat(row.SundayOpen),
			formatFloat(row.GapPct),
			row.Note,
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write row %s: %w", row.Pair, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTime renders t with TimeLayout, or "" when null.
func FormatTime(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(TimeLayout)
}

func formatFloat(f null.Float) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}

// AttachmentName is the CSV file name used for the email attachment.
func AttachmentName(now time.Time) string {
	return fmt.Sprintf("forex_gaps_%s.csv", now.Format("20060102_1504"))
}

// DryRunPath is where the dry-run CSV is written inside dir.
func DryRunPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("forex_gaps_dryrun_%s.csv", now.Format("20060102_1504")))
}

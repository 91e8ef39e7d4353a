package report

import (
	"math"
	"sort"
	"time"

	"GapScreener/internal/model"
)

// Build ranks results by absolute gap, largest first. A null gap ranks as
// zero; equal magnitudes keep their input order.
func Build(executedAt time.Time, results []model.ScreeningResult) model.Report {
	rows := make([]model.ScreeningResult, len(results))
	copy(rows, results)
	sort.SliceStable(rows, func(i, j int) bool {
		return magnitude(rows[i]) > magnitude(rows[j])
	})
	return model.Report{ExecutedAt: executedAt, Results: rows}
}

func magnitude(r model.ScreeningResult) float64 {
	if !r.GapPct.Valid {
		return 0
	}
	return math.Abs(r.GapPct.Float64)
}

package calculator

import (
	"math"

	"github.com/guregu/null/v6"
)

// GapPct returns the signed percentage move from fridayClose to sundayOpen.
// The result is null when either price is missing or fridayClose is zero.
func GapPct(fridayClose, sundayOpen null.Float) null.Float {
	if !fridayClose.Valid || !sundayOpen.Valid {
		return null.Float{}
	}
	f, s := fridayClose.Float64, sundayOpen.Float64
	if f == 0 || !finite(f) || !finite(s) {
		return null.Float{}
	}
	return null.FloatFrom((s - f) / f * 100.0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

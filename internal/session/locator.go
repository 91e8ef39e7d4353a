package session

import (
	"math"
	"sort"
	"time"
	_ "time/tzdata"

	"GapScreener/internal/model"

	"github.com/guregu/null/v6"
)

// ReopenHour is the local hour from which a Sunday bar counts as the
// Asian-session reopen.
const ReopenHour = 22

// DefaultTimezone is the reference zone the boundaries are evaluated in.
const DefaultTimezone = "Europe/Paris"

// Normalize returns a copy of the series' bars expressed in loc and sorted
// ascending by time. Naive series (nil Location) are read as UTC wall clock.
// Bars sharing a timestamp keep their provider order.
func Normalize(series model.PriceSeries, loc *time.Location) []model.OHLCV {
	bars := make([]model.OHLCV, len(series.Bars))
	for i, b := range series.Bars {
		t := b.Time
		if series.Location == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		}
		b.Time = t.In(loc)
		bars[i] = b
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

// Locate finds the last Friday close and the first Sunday reopen in series.
//
// A missing Friday blanks the whole pair, Sunday data included. When no Sunday
// bar starts at or after ReopenHour, the earliest Sunday bar of any hour is
// used instead; that bar can predate the actual reopen.
func Locate(series model.PriceSeries, loc *time.Location) model.SessionPair {
	var pair model.SessionPair
	if series.Empty() {
		return pair
	}
	bars := Normalize(series, loc)

	friday, ok := lastOn(bars, time.Friday)
	if !ok {
		return pair
	}
	pair.FridayTime = null.TimeFrom(friday.Time)
	pair.FridayClose = price(friday.Close)

	sunday, ok := firstOn(bars, time.Sunday, ReopenHour)
	if !ok {
		sunday, ok = firstOn(bars, time.Sunday, 0)
	}
	if ok {
		pair.SundayTime = null.TimeFrom(sunday.Time)
		if sunday.HasOpen() {
			pair.SundayOpen = price(sunday.Open)
		} else {
			pair.SundayOpen = price(sunday.Close)
		}
	}
	return pair
}

// lastOn returns the latest bar on weekday; the last one wins on equal times.
func lastOn(bars []model.OHLCV, day time.Weekday) (model.OHLCV, bool) {
	var best model.OHLCV
	found := false
	for _, b := range bars {
		if b.Time.Weekday() != day {
			continue
		}
		if !found || !b.Time.Before(best.Time) {
			best, found = b, true
		}
	}
	return best, found
}

// firstOn returns the earliest bar on weekday at or after minHour; the first
// one wins on equal times.
func firstOn(bars []model.OHLCV, day time.Weekday, minHour int) (model.OHLCV, bool) {
	var best model.OHLCV
	found := false
	for _, b := range bars {
		if b.Time.Weekday() != day || b.Time.Hour() < minHour {
			continue
		}
		if !found || b.Time.Before(best.Time) {
			best, found = b, true
		}
	}
	return best, found
}

func price(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

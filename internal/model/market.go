package model

import (
	"math"
	"time"
)

// OHLCV represents a single candlestick bar.
// A price the provider reported as null is stored as NaN.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// HasOpen reports whether the bar carries an open price.
func (b OHLCV) HasOpen() bool { return !math.IsNaN(b.Open) }

// PriceSeries holds the raw bars returned for one ticker.
type PriceSeries struct {
	Symbol string
	Bars   []OHLCV
	// Location is nil when the timestamps are naive wall-clock values
	// without zone information.
	Location *time.Location
}

// Empty reports whether the series has no bars.
func (s PriceSeries) Empty() bool { return len(s.Bars) == 0 }

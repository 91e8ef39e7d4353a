package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"GapScreener/internal/model"
)

// FetchError is returned when the provider could not deliver a series.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchResult is either a series or a *FetchError, never both.
type FetchResult struct {
	Series model.PriceSeries
	Err    *FetchError
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool { return r.Err == nil }

// SeriesOrEmpty returns the fetched series, or an empty one for a failed fetch.
func (r FetchResult) SeriesOrEmpty() model.PriceSeries {
	if r.Err != nil {
		return model.PriceSeries{Symbol: r.Err.Symbol}
	}
	return r.Series
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]model.PriceSeries
	Errors map[string]error
	// Panics makes FetchBars panic with the given value for a symbol.
	Panics map[string]any
	Calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, _ int, _ string) (model.PriceSeries, error) {
	m.Calls = append(m.Calls, symbol)
	if v, ok := m.Panics[symbol]; ok {
		panic(v)
	}
	if err, ok := m.Errors[symbol]; ok {
		return model.PriceSeries{}, err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return model.PriceSeries{Symbol: symbol, Location: time.UTC}, nil
}

// Collector fetches one series per ticker with a bounded timeout.
type Collector struct {
	Fetcher  Fetcher
	Days     int
	Interval string
	Timeout  time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, days int, interval string, timeout time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Days: days, Interval: interval, Timeout: timeout}
}

// Fetch retrieves the series for symbol. Provider errors are logged and
// returned as a *FetchError inside the result; Fetch itself never fails.
func (c *Collector) Fetch(ctx context.Context, symbol string) FetchResult {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	series, err := c.Fetcher.FetchBars(ctx, symbol, c.Days, c.Interval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %v: %w", c.Timeout, err)
		}
		log.Printf("[WARN] %s error for %s: %v", c.Fetcher.Name(), symbol, err)
		return FetchResult{Err: &FetchError{Symbol: symbol, Err: err}}
	}
	if series.Symbol == "" {
		series.Symbol = symbol
	}
	return FetchResult{Series: series}
}

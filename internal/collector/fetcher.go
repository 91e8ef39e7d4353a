package collector

import (
	"context"

	"GapScreener/internal/model"
)

// Fetcher defines the interface for fetching intraday price series.
type Fetcher interface {
	// FetchBars returns the bars of the last `days` days at the given
	// bar interval (e.g. "1h").
	FetchBars(ctx context.Context, symbol string, days int, interval string) (model.PriceSeries, error)
	Name() string
}

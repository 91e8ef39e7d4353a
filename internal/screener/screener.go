package screener

import (
	"context"
	"fmt"
	"log"
	"time"

	"GapScreener/internal/calculator"
	"GapScreener/internal/collector"
	"GapScreener/internal/model"
	"GapScreener/internal/report"
	"GapScreener/internal/session"
	"GapScreener/internal/trace"

	"go.opentelemetry.io/otel/attribute"
)

// Screener runs the Friday close / Sunday open gap screen over a ticker list.
type Screener struct {
	Collector *collector.Collector
	Location  *time.Location
	Now       func() time.Time
}

// New creates a Screener evaluating session boundaries in loc.
func New(col *collector.Collector, loc *time.Location) *Screener {
	return &Screener{Collector: col, Location: loc, Now: time.Now}
}

// Run screens tickers one after another and returns the ranked report.
// Each ticker yields exactly one result; a failure on one ticker is recorded
// in its note and never stops the run.
func (s *Screener) Run(ctx context.Context, tickers []string) model.Report {
	ctx, span := trace.StartSpan(ctx, "screener.Run", attribute.Int("pairs", len(tickers)))
	defer span.End()

	log.Printf("[INFO] pairs to analyze: %d", len(tickers))

	results := make([]model.ScreeningResult, 0, len(tickers))
	for _, ticker := range tickers {
		results = append(results, s.screen(ctx, ticker))
	}
	return report.Build(s.Now(), results)
}

func (s *Screener) screen(ctx context.Context, ticker string) (res model.ScreeningResult) {
	ctx, span := trace.StartSpan(ctx, "screener.ticker", attribute.String("pair", ticker))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			log.Printf("[ERROR] error processing %s: %v", ticker, err)
			trace.Fail(span, err)
			res = errorResult(ticker, err)
		}
	}()

	fetched := s.Collector.Fetch(ctx, ticker)
	pair := session.Locate(fetched.SeriesOrEmpty(), s.Location)
	if !fetched.OK() {
		trace.Fail(span, fetched.Err)
		return errorResult(ticker, fetched.Err.Err)
	}

	res = model.ScreeningResult{
		Pair:        ticker,
		SessionPair: pair,
		GapPct:      calculator.GapPct(pair.FridayClose, pair.SundayOpen),
	}
	switch {
	case !pair.FridayClose.Valid:
		res.Note = model.NoteNoFriday
	case !pair.SundayOpen.Valid:
		res.Note = model.NoteNoSunday
	}
	return res
}

func errorResult(ticker string, err error) model.ScreeningResult {
	return model.ScreeningResult{Pair: ticker, Note: model.NoteErrorPrefix + err.Error()}
}

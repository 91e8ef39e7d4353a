package screener

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"GapScreener/internal/collector"
	"GapScreener/internal/model"
)

var paris, _ = time.LoadLocation("Europe/Paris")

// weekendSeries has a Friday 21:00 close and a Sunday 22:00 reopen (Paris).
func weekendSeries(fridayClose, sundayOpen float64) model.PriceSeries {
	return model.PriceSeries{
		Location: time.UTC,
		Bars: []model.OHLCV{
			{Time: time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC), Open: 1, Close: 1},
			{Time: time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC), Open: fridayClose, Close: fridayClose},
			{Time: time.Date(2024, 1, 7, 21, 0, 0, 0, time.UTC), Open: sundayOpen, Close: sundayOpen},
			{Time: time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC), Open: 2, Close: 2},
		},
	}
}

func newTestScreener(m *collector.MockFetcher) *Screener {
	s := New(collector.NewCollector(m, 12, "1h", time.Second), paris)
	s.Now = func() time.Time { return time.Date(2024, 1, 7, 23, 30, 0, 0, paris) }
	return s
}

func TestRun_EndToEnd(t *testing.T) {
	m := &collector.MockFetcher{
		Series: map[string]model.PriceSeries{"EURUSD=X": weekendSeries(1.0940, 1.0960)},
		Errors: map[string]error{"BADTICKER": errors.New("No data found, symbol may be delisted")},
	}
	rep := newTestScreener(m).Run(context.Background(), []string{"EURUSD=X", "BADTICKER"})

	if len(rep.Results) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rep.Results))
	}
	first, second := rep.Results[0], rep.Results[1]
	if first.Pair != "EURUSD=X" || first.Note != "" {
		t.Errorf("unexpected first row %+v", first)
	}
	want := (1.0960 - 1.0940) / 1.0940 * 100
	if !first.GapPct.Valid || math.Abs(first.GapPct.Float64-want) > 1e-9 {
		t.Errorf("gap = %v, want %v", first.GapPct, want)
	}
	if first.FridayTime.Time.Hour() != 21 || first.SundayTime.Time.Hour() != 22 {
		t.Errorf("unexpected session times %v / %v", first.FridayTime.Time, first.SundayTime.Time)
	}
	if second.Pair != "BADTICKER" || !strings.HasPrefix(second.Note, model.NoteErrorPrefix) {
		t.Errorf("unexpected second row %+v", second)
	}
	if second.FridayClose.Valid || second.SundayOpen.Valid || second.GapPct.Valid {
		t.Errorf("failed ticker should have absent values, got %+v", second)
	}
	if !rep.ExecutedAt.Equal(time.Date(2024, 1, 7, 23, 30, 0, 0, paris)) {
		t.Errorf("unexpected executed at %v", rep.ExecutedAt)
	}
}

func TestRun_Isolation(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *collector.MockFetcher
	}{
		{"error", &collector.MockFetcher{Errors: map[string]error{"BAD": errors.New("boom")}}},
		{"panic", &collector.MockFetcher{Panics: map[string]any{"BAD": "boom"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fetcher.Series = map[string]model.PriceSeries{
				"AAA": weekendSeries(1.0, 1.01),
				"CCC": weekendSeries(1.0, 0.95),
			}
			rep := newTestScreener(tt.fetcher).Run(context.Background(), []string{"AAA", "BAD", "CCC"})

			if len(rep.Results) != 3 {
				t.Fatalf("expected 3 rows, got %d", len(rep.Results))
			}
			// ranked by |gap|: CCC (-5%), AAA (+1%), BAD (absent)
			got := []string{rep.Results[0].Pair, rep.Results[1].Pair, rep.Results[2].Pair}
			if strings.Join(got, ",") != "CCC,AAA,BAD" {
				t.Errorf("order = %v", got)
			}
			bad := rep.Results[2]
			if bad.Note != model.NoteErrorPrefix+"boom" {
				t.Errorf("note = %q", bad.Note)
			}
			if rep.Results[0].Note != "" || rep.Results[1].Note != "" {
				t.Error("neighbours of a failed ticker should be unaffected")
			}
			if strings.Join(tt.fetcher.Calls, ",") != "AAA,BAD,CCC" {
				t.Errorf("calls = %v", tt.fetcher.Calls)
			}
		})
	}
}

func TestRun_Notes(t *testing.T) {
	noSunday := weekendSeries(1.0, 1.0)
	noSunday.Bars = noSunday.Bars[:2]

	m := &collector.MockFetcher{Series: map[string]model.PriceSeries{"NOSUN": noSunday}}
	rep := newTestScreener(m).Run(context.Background(), []string{"EMPTY", "NOSUN"})

	notes := map[string]string{}
	for _, r := range rep.Results {
		notes[r.Pair] = r.Note
		if r.GapPct.Valid {
			t.Errorf("%s: gap should be absent", r.Pair)
		}
	}
	if notes["EMPTY"] != model.NoteNoFriday {
		t.Errorf("EMPTY note = %q", notes["EMPTY"])
	}
	if notes["NOSUN"] != model.NoteNoSunday {
		t.Errorf("NOSUN note = %q", notes["NOSUN"])
	}
}

func TestRun_DuplicatesKept(t *testing.T) {
	m := &collector.MockFetcher{Series: map[string]model.PriceSeries{"AAA": weekendSeries(1.0, 1.02)}}
	rep := newTestScreener(m).Run(context.Background(), []string{"AAA", "AAA"})
	if len(rep.Results) != 2 {
		t.Fatalf("expected one row per requested ticker, got %d", len(rep.Results))
	}
}

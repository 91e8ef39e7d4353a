package collector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRESTFetcher_NaiveTimestamps(t *testing.T) {
	var auth, symbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		symbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`[
			{"time":"2024-01-05 21:00:00","open":1.09,"high":1.1,"low":1.08,"close":1.095,"volume":10},
			{"time":"2024-01-07 22:00:00","open":null,"high":1.1,"low":1.09,"close":1.097,"volume":3}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "key", "")
	series, err := f.FetchBars(context.Background(), "EURUSD", 12, "1h")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if auth != "Bearer key" || symbol != "EURUSD" {
		t.Errorf("unexpected request: auth=%q symbol=%q", auth, symbol)
	}
	if series.Location != nil {
		t.Errorf("expected naive series, got location %v", series.Location)
	}
	if len(series.Bars) != 2 || series.Bars[0].Time.Hour() != 21 {
		t.Fatalf("unexpected bars %+v", series.Bars)
	}
	if !math.IsNaN(series.Bars[1].Open) || series.Bars[1].HasOpen() {
		t.Errorf("null open should be NaN, got %v", series.Bars[1].Open)
	}
}

func TestRESTFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown symbol", http.StatusBadRequest)
	}))
	defer srv.Close()

	if _, err := NewRESTFetcher(srv.URL, "", "").FetchBars(context.Background(), "X", 12, "1h"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"GapScreener/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted bars API.
// Timestamps are returned as naive "2006-01-02 15:04:05" strings in UTC.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Time   string   `json:"time"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume float64  `json:"volume"`
}

const restTimeLayout = "2006-01-02 15:04:05"

func (f *RESTFetcher) FetchBars(ctx context.Context, symbol string, days int, interval string) (model.PriceSeries, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("days", fmt.Sprintf("%d", days))
	endpoint := fmt.Sprintf("%s/api/v1/bars?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.PriceSeries{}, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return model.PriceSeries{}, fmt.Errorf("decode bars: %w", err)
	}

	// Location stays nil: these timestamps carry no zone.
	series := model.PriceSeries{Symbol: symbol}
	series.Bars = make([]model.OHLCV, 0, len(raw))
	for _, rb := range raw {
		t, err := time.Parse(restTimeLayout, rb.Time)
		if err != nil {
			return model.PriceSeries{}, fmt.Errorf("parse bar time %q: %w", rb.Time, err)
		}
		series.Bars = append(series.Bars, model.OHLCV{
			Time:   t,
			Open:   orNaN(rb.Open),
			High:   orNaN(rb.High),
			Low:    orNaN(rb.Low),
			Close:  orNaN(rb.Close),
			Volume: rb.Volume,
		})
	}
	return series, nil
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

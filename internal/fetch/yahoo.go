// Package fetch provides the external data capabilities of the pipeline:
// daily price history and SEC 10-K filing downloads. Both are behind small
// interfaces so the cleaning and feature stages can be tested against
// recorded fixtures without network access.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sipafcli/internal/dataset"
)

// PriceSource fetches daily price history for one ticker.
type PriceSource interface {
	FetchDaily(ctx context.Context, ticker string, start, end time.Time) (*dataset.Dataset, error)
}

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// Browser-like User-Agent; the chart endpoint rejects the Go default.
const yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// YahooClient fetches daily bars from the Yahoo Finance v8 chart endpoint.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooClient creates a price client against the public endpoint.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultYahooBaseURL,
	}
}

// NewYahooClientWithBaseURL creates a client against an alternate endpoint,
// used by tests with a fixture server.
func NewYahooClientWithBaseURL(baseURL string) *YahooClient {
	c := NewYahooClient()
	c.baseURL = baseURL
	return c
}

// chartResponse mirrors the chart endpoint JSON. Quote arrays use pointers:
// days without a value come back as null.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily downloads one ticker's daily bars for [start, end) and returns a
// raw dataset with columns Date, Open, High, Low, Close, Adj Close, Volume,
// Ticker — the same shape the cleaning stage expects on disk.
func (c *YahooClient) FetchDaily(ctx context.Context, ticker string, start, end time.Time) (*dataset.Dataset, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div,split")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", yahooUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart endpoint returned status %d for %s", resp.StatusCode, ticker)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart endpoint error for %s: %s", ticker, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart endpoint returned no result for %s", ticker)
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart endpoint returned no quote data for %s", ticker)
	}
	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	d := dataset.New("Date", "Open", "High", "Low", "Close", "Adj Close", "Volume", "Ticker")
	for i, ts := range result.Timestamp {
		day := time.Unix(ts, 0).UTC()
		row := []dataset.Cell{
			dataset.Date(day),
			optNum(quote.Open, i),
			optNum(quote.High, i),
			optNum(quote.Low, i),
			optNum(quote.Close, i),
			optNum(adjClose, i),
			optNum(quote.Volume, i),
			dataset.Text(ticker),
		}
		if err := d.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// optNum converts a nullable quote array entry to a cell.
func optNum(values []*float64, i int) dataset.Cell {
	if i >= len(values) || values[i] == nil {
		return dataset.Missing()
	}
	return dataset.Num(*values[i])
}

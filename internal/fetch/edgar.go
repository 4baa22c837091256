package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// FilingSource downloads the latest n 10-K filings for a ticker and returns
// the paths of the written full-submission texts.
type FilingSource interface {
	Download10K(ctx context.Context, ticker string, n int) ([]string, error)
}

const (
	defaultEdgarDataURL = "https://data.sec.gov"
	defaultEdgarWWWURL  = "https://www.sec.gov"

	// SEC fair-access policy caps automated clients at 10 requests/second.
	edgarRequestsPerSecond = 10
)

// EdgarClient downloads filings from SEC EDGAR. Requests carry the mandatory
// identifying User-Agent and are rate limited.
type EdgarClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	dataURL    string
	wwwURL     string

	// tickerCIK caches the ticker -> CIK mapping for the process lifetime.
	tickerCIK map[string]int64
}

// NewEdgarClient creates an EDGAR client identifying itself with the given
// contact email, as the SEC requires.
func NewEdgarClient(contactEmail string) *EdgarClient {
	return &EdgarClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(edgarRequestsPerSecond), 1),
		userAgent:  fmt.Sprintf("sipaf-pipeline/1.0 (%s)", contactEmail),
		dataURL:    defaultEdgarDataURL,
		wwwURL:     defaultEdgarWWWURL,
	}
}

// NewEdgarClientWithBaseURLs creates a client against alternate endpoints,
// used by tests with a fixture server.
func NewEdgarClientWithBaseURLs(contactEmail, dataURL, wwwURL string) *EdgarClient {
	c := NewEdgarClient(contactEmail)
	c.dataURL = dataURL
	c.wwwURL = wwwURL
	return c
}

// submissionsResponse mirrors the EDGAR submissions JSON; recent filings are
// parallel arrays.
type submissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
		} `json:"recent"`
	} `json:"filings"`
}

// Downloader writes filings under outDir using the layout
// outDir/sec-edgar-filings/<TICKER>/<accession>/full-submission.txt.
type Downloader struct {
	client *EdgarClient
	outDir string
	logger *slog.Logger
}

// NewDownloader creates a filing downloader rooted at outDir.
func NewDownloader(client *EdgarClient, outDir string, logger *slog.Logger) *Downloader {
	return &Downloader{client: client, outDir: outDir, logger: logger}
}

// Download10K fetches the latest n 10-K filings for ticker.
func (d *Downloader) Download10K(ctx context.Context, ticker string, n int) ([]string, error) {
	cik, err := d.client.resolveCIK(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve CIK for %s: %w", ticker, err)
	}

	subs, err := d.client.fetchSubmissions(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions for %s: %w", ticker, err)
	}

	recent := subs.Filings.Recent
	var written []string
	for i := range recent.AccessionNumber {
		if len(written) >= n {
			break
		}
		if recent.Form[i] != "10-K" {
			continue
		}
		accession := recent.AccessionNumber[i]

		// Company and filing identifiers are the two parent directories;
		// the text cleaner derives output names from them.
		dest := filepath.Join(d.outDir, "sec-edgar-filings", ticker, accession, "full-submission.txt")
		if err := d.client.downloadSubmissionText(ctx, cik, accession, dest); err != nil {
			return written, fmt.Errorf("failed to download %s %s: %w", ticker, accession, err)
		}
		d.logger.Info("downloaded 10-K filing",
			slog.String("ticker", ticker),
			slog.String("accession", accession),
			slog.String("filing_date", recent.FilingDate[i]),
			slog.String("dest", dest))
		written = append(written, dest)
	}

	if len(written) == 0 {
		d.logger.Warn("no 10-K filings found", slog.String("ticker", ticker))
	}
	return written, nil
}

// resolveCIK maps a ticker to its zero-padded CIK via company_tickers.json.
func (c *EdgarClient) resolveCIK(ctx context.Context, ticker string) (int64, error) {
	if c.tickerCIK == nil {
		body, err := c.get(ctx, c.wwwURL+"/files/company_tickers.json", "application/json")
		if err != nil {
			return 0, err
		}

		// Keyed by arbitrary ordinal strings, not by ticker.
		var entries map[string]struct {
			CIK    int64  `json:"cik_str"`
			Ticker string `json:"ticker"`
			Title  string `json:"title"`
		}
		if err := json.Unmarshal(body, &entries); err != nil {
			return 0, fmt.Errorf("failed to parse company tickers: %w", err)
		}

		c.tickerCIK = make(map[string]int64, len(entries))
		for _, e := range entries {
			c.tickerCIK[strings.ToUpper(e.Ticker)] = e.CIK
		}
	}

	cik, ok := c.tickerCIK[strings.ToUpper(ticker)]
	if !ok {
		return 0, fmt.Errorf("ticker %s not found in EDGAR company list", ticker)
	}
	return cik, nil
}

// fetchSubmissions reads the submissions index for a CIK.
func (c *EdgarClient) fetchSubmissions(ctx context.Context, cik int64) (*submissionsResponse, error) {
	url := fmt.Sprintf("%s/submissions/CIK%010d.json", c.dataURL, cik)
	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return nil, err
	}

	var subs submissionsResponse
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("failed to parse submissions: %w", err)
	}
	return &subs, nil
}

// downloadSubmissionText streams the complete submission text file to dest.
func (c *EdgarClient) downloadSubmissionText(ctx context.Context, cik int64, accession, dest string) error {
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s.txt", c.wwwURL, strconv.FormatInt(cik, 10), accession)

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("EDGAR returned status %d for %s", resp.StatusCode, url)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// get performs a rate-limited GET with the EDGAR headers.
func (c *EdgarClient) get(ctx context.Context, url, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("EDGAR returned status %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

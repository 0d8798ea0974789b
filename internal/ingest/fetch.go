package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/KaramelBytes/surveylens/internal/survey"
)

// MaxDownloadBytes caps the size of a fetched export.
const MaxDownloadBytes = 64 << 20

// DefaultTimeout applies when FetchCSV is given no timeout.
const DefaultTimeout = 30 * time.Second

// FetchCSV downloads a published spreadsheet export, such as a Google Sheets
// "publish to web" CSV link, and reads it.
func FetchCSV(ctx context.Context, rawURL string, timeout time.Duration, opt Options) (*survey.Dataset, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid source url %q", rawURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch survey: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch survey: %s returned %s", u.Host, resp.Status)
	}
	if opt.Name == "" {
		opt.Name = u.Host + path.Clean("/"+u.Path)
	}
	body := io.LimitReader(resp.Body, MaxDownloadBytes+1)
	lr := &countingReader{r: body}
	ds, err := ReadCSV(lr, opt)
	if lr.n > MaxDownloadBytes {
		return nil, fmt.Errorf("fetch survey: export larger than %d bytes", MaxDownloadBytes)
	}
	return ds, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

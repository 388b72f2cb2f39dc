package snap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Table identifies one of the three published input tables.
type Table int

const (
	TableSIC Table = iota
	TableMark
	TableMike
)

// FileName is the table's published file name.
func (t Table) FileName() string {
	switch t {
	case TableSIC:
		return "sic_daily_vals.csv"
	case TableMark:
		return "barrow_fubu_dates_mark_nosmooth_mledit.csv"
	case TableMike:
		return "barrow_fubu_dates_michael_nosmooth.csv"
	default:
		return fmt.Sprintf("table-%d", int(t))
	}
}

func (t Table) String() string { return t.FileName() }

// Opener yields the raw CSV bytes of a table.
type Opener interface {
	Open(ctx context.Context, t Table) (io.ReadCloser, error)
}

// Client downloads tables over HTTP.
type Client struct {
	urls       map[Table]string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given table URLs.
func NewClient(sicURL, markURL, mikeURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		urls: map[Table]string{
			TableSIC:  sicURL,
			TableMark: markURL,
			TableMike: mikeURL,
		},
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Open issues a GET for the table. The caller closes the body.
func (c *Client) Open(ctx context.Context, t Table) (io.ReadCloser, error) {
	u, ok := c.urls[t]
	if !ok || u == "" {
		return nil, fmt.Errorf("no url configured for %s", t)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d: %s", t, resp.StatusCode, body)
	}

	c.logger.Debug("table fetched", "table", t.FileName(), "url", u, "elapsed", time.Since(start))
	return resp.Body, nil
}

// Dir reads tables from a local directory holding the published file names.
type Dir struct {
	path string
}

// NewDir creates a directory-backed opener.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Open opens the table's file.
func (d *Dir) Open(_ context.Context, t Table) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.path, t.FileName()))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t, err)
	}
	return f, nil
}

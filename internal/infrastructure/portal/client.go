package portal

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"draftdesk/internal/bootstrap/config"
	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/errs"
	"draftdesk/internal/ports"
)

// The portal rejects unknown clients; this mirrors the browser session the
// account was provisioned for.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client fetches listing pages from the external portal with basic auth.
// TLS verification is off: the portal serves a self-signed certificate.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

var _ ports.PortalFetcher = (*Client)(nil)

func NewClient(cfg config.PortalConfig) *Client {
	return &Client{
		baseURL:  strings.TrimSpace(cfg.BaseURL),
		username: cfg.Username,
		password: cfg.Password,
		http: &http.Client{
			Timeout: cfg.FetchTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

func (c *Client) FetchPage(ctx context.Context, page int) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}

	url := c.pageURL(page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(err, "build page request")
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrPageFetch, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Warn(ctx, "portal page fetch rejected",
			slog.Int("page", page),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: http %d", ports.ErrPageFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ports.ErrPageFetch, err)
	}
	return body, nil
}

func (c *Client) pageURL(page int) string {
	separator := "?"
	if strings.Contains(c.baseURL, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%spage=%d", c.baseURL, separator, page)
}

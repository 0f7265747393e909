package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/config"
)

// Fetcher retrieves raw page markup over HTTP. IMDb rejects default client
// identifiers, so every request carries a fixed desktop browser User-Agent.
// Failures are classified into the taxonomy in errors.go; the fetcher never
// retries on its own.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// NewFetcher creates a fetcher with the configured timeout and User-Agent.
func NewFetcher(cfg config.ScraperConfig, logger zerolog.Logger) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: cfg.UserAgent,
		logger:    logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch performs a single GET and returns the response body as markup.
// Errors wrap ErrTimeout, ErrNetwork or ErrUnknown, or are a *StatusError
// for a completed non-2xx response.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", f.classify(pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Debug().Int("status", resp.StatusCode).Str("url", pageURL).Msg("fetch returned error status")
		return "", &StatusError{Code: resp.StatusCode, URL: pageURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response body: %v", ErrNetwork, err)
	}

	f.logger.Debug().
		Str("url", pageURL).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("page fetched")

	return string(body), nil
}

// classify maps a transport-level error onto the fetch taxonomy.
func (f *Fetcher) classify(pageURL string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s", ErrTimeout, pageURL)
	}

	// http.Client wraps transport failures (refused connections, DNS
	// lookups, resets) in a url.Error.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, urlErr.Err)
	}

	return fmt.Errorf("%w: %v", ErrUnknown, err)
}

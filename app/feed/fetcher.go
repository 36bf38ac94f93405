package feed

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxBodySize = 16 << 20

// BrowserHeaders is the header set presented by the fallback stage.
var BrowserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Connection":                "keep-alive",
	"DNT":                       "1",
	"Upgrade-Insecure-Requests": "1",
}

// Fetcher resolves a source into entries in two stages. The direct stage
// presents only a browser user agent and does not follow redirects. A
// redirect, 403 or 5xx answer triggers exactly one fallback request made
// with a full browser header set and without certificate verification.
type Fetcher struct {
	client         *http.Client
	fallbackClient *http.Client
	parser         *Parser
	userAgent      string
	timeout        time.Duration
	now            func() time.Time
}

func NewFetcher(parser *Parser, userAgent string, timeout time.Duration) *Fetcher {
	direct := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	return &Fetcher{
		client:         direct,
		fallbackClient: &http.Client{Transport: transport},
		parser:         parser,
		userAgent:      userAgent,
		timeout:        timeout,
		now:            time.Now,
	}
}

func (f *Fetcher) Run(ctx context.Context, source Source) (*Result, error) {
	timeout := source.GetTimeout(f.timeout)
	capturedAt := f.now()

	status, data, err := f.get(ctx, f.client, source.URL, map[string]string{"User-Agent": f.userAgent}, timeout)
	if err != nil {
		return nil, &FetchError{Kind: FailureNoStatus, Err: err}
	}

	usedFallback := false
	switch {
	case status == http.StatusOK:
	case needsFallback(status):
		slog.Warn("Direct fetch failed, trying fallback", "feed", source.Name, "status", status)

		fallbackStatus, fallbackData, err := f.get(ctx, f.fallbackClient, source.URL, BrowserHeaders, timeout)
		if err != nil {
			return nil, &FetchError{Kind: FailureFallbackFailed, Status: status, Err: err}
		}
		if fallbackStatus != http.StatusOK {
			return nil, &FetchError{Kind: FailureFallbackFailed, Status: fallbackStatus}
		}

		data = fallbackData
		usedFallback = true
	default:
		return nil, &FetchError{Kind: FailureServerError, Status: status}
	}

	metadata, entries, err := f.parser.Run(data, capturedAt)
	if err != nil {
		return nil, &FetchError{Kind: FailureMalformed, Err: err}
	}

	if len(entries) == 0 {
		return nil, &FetchError{Kind: FailureEmpty}
	}

	return &Result{
		Metadata:     metadata,
		Entries:      entries,
		UsedFallback: usedFallback,
	}, nil
}

func (f *Fetcher) get(ctx context.Context, client *http.Client, url string, headers map[string]string, timeout time.Duration) (int, []byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return resp.StatusCode, nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, fmt.Errorf("timed out reading response body: %w", err)
		}
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, data, nil
}

func needsFallback(status int) bool {
	return (status >= 300 && status < 400) ||
		status == http.StatusForbidden ||
		(status >= 500 && status < 600)
}

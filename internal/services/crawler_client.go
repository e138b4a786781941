package services

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// CrawlerClient wraps an HTTP client with settings tuned for crawling the
// storefront's own pages.
type CrawlerClient struct {
	httpClient *http.Client
	userAgent  string
}

// NewCrawlerClient creates a new HTTP client for the sitemap crawler.
// The timeout bounds each page fetch; a slow page degrades to empty content
// rather than stalling the knowledge-base build.
func NewCrawlerClient(userAgent string, timeout time.Duration) *CrawlerClient {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &CrawlerClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects (max 10)")
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Get performs an HTTP GET request with crawler headers
func (c *CrawlerClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	return c.httpClient.Do(req)
}

// UserAgent returns the configured crawler user agent.
func (c *CrawlerClient) UserAgent() string {
	return c.userAgent
}

package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// RobotsChecker handles robots.txt fetching and compliance checking for the
// sitemap crawler. Missing or malformed robots.txt allows crawling by default.
type RobotsChecker struct {
	cache     *cache.Cache
	userAgent string
	client    *http.Client
}

// NewRobotsChecker creates a new robots.txt checker
func NewRobotsChecker(userAgent string) *RobotsChecker {
	return &RobotsChecker{
		cache:     cache.New(24*time.Hour, 1*time.Hour),
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CanFetch checks if the URL can be fetched according to robots.txt
func (rc *RobotsChecker) CanFetch(ctx context.Context, urlStr string) (bool, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false, fmt.Errorf("invalid URL: %w", err)
	}

	origin := parsedURL.Scheme + "://" + parsedURL.Host

	if cached, found := rc.cache.Get(origin); found {
		robotsData := cached.(*robotstxt.RobotsData)
		return robotsData.FindGroup(rc.userAgent).Test(parsedURL.Path), nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", origin+"/robots.txt", nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", rc.userAgent)

	resp, err := rc.client.Do(req)
	if err != nil {
		// No robots.txt reachable: allow by default
		return true, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return true, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1*1024*1024))
	if err != nil {
		return true, nil
	}

	robotsData, err := robotstxt.FromBytes(body)
	if err != nil {
		return true, nil
	}

	rc.cache.Set(origin, robotsData, cache.DefaultExpiration)

	return robotsData.FindGroup(rc.userAgent).Test(parsedURL.Path), nil
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"agristore/internal/models"

	"github.com/markusmobius/go-trafilatura"
)

const (
	maxPageContentLength = 6000
	maxPageBodySize      = 2 * 1024 * 1024 // 2MB per page is plenty for a storefront
)

var (
	locPattern    = regexp.MustCompile(`(?s)<loc>(.*?)</loc>`)
	absURLPattern = regexp.MustCompile(`^https?://`)
	titlePattern  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]+>`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// CrawlerService builds the chatbot knowledge base from a sitemap. A failed
// page fetch degrades that page to empty content; only an unreadable sitemap
// fails the build.
type CrawlerService struct {
	client      *CrawlerClient
	rateLimiter *CrawlRateLimiter
	robots      *RobotsChecker
	crawlPages  bool
	fetchBudget time.Duration
}

// NewCrawlerService creates a crawler service. When crawlPages is false the
// knowledge base carries sitemap URLs with basename titles only.
func NewCrawlerService(client *CrawlerClient, crawlPages bool, fetchBudget time.Duration) *CrawlerService {
	return &CrawlerService{
		client:      client,
		rateLimiter: NewCrawlRateLimiter(10.0, 5.0),
		robots:      NewRobotsChecker(client.UserAgent()),
		crawlPages:  crawlPages,
		fetchBudget: fetchBudget,
	}
}

// BuildKB reads the sitemap (local path or URL), normalizes each <loc> entry
// against siteBaseURL and assembles the knowledge base.
func (s *CrawlerService) BuildKB(ctx context.Context, sitemapPathOrURL, siteBaseURL string) (*models.KnowledgeBase, error) {
	raw, err := s.readSitemap(ctx, sitemapPathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read sitemap: %w", err)
	}

	locs := ParseSitemapLocs(raw)
	kb := &models.KnowledgeBase{
		GeneratedAt: time.Now(),
		Pages:       make([]models.Page, 0, len(locs)),
	}

	seen := make(map[string]bool, len(locs))
	for _, loc := range locs {
		pageURL := NormalizeURL(siteBaseURL, loc)
		if seen[pageURL] {
			continue
		}
		seen[pageURL] = true

		page := models.Page{
			URL:    pageURL,
			Topics: []string{},
			CTAs:   []string{},
		}

		if s.crawlPages {
			title, content := s.fetchPage(ctx, pageURL)
			page.Title = title
			page.Content = content
		}
		if page.Title == "" {
			page.Title = TitleFromURL(pageURL)
		}

		kb.Pages = append(kb.Pages, page)
	}

	log.Printf("✅ [CRAWLER] Knowledge base built: %d pages from %s", len(kb.Pages), sitemapPathOrURL)
	return kb, nil
}

func (s *CrawlerService) readSitemap(ctx context.Context, pathOrURL string) (string, error) {
	if absURLPattern.MatchString(pathOrURL) {
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchBudget)
		defer cancel()

		resp, err := s.client.Get(fetchCtx, pathOrURL)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != 200 {
			return "", fmt.Errorf("HTTP error %d fetching sitemap", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBodySize))
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	data, err := os.ReadFile(pathOrURL)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// fetchPage fetches one page and extracts its title and cleaned text. Any
// failure returns empty strings; per-page errors never abort the build.
func (s *CrawlerService) fetchPage(ctx context.Context, pageURL string) (title, content string) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", ""
	}

	if allowed, err := s.robots.CanFetch(ctx, pageURL); err == nil && !allowed {
		log.Printf("⚠️  [CRAWLER] Blocked by robots.txt: %s", pageURL)
		return "", ""
	}

	if err := s.rateLimiter.Wait(ctx, parsedURL.Host); err != nil {
		return "", ""
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchBudget)
	defer cancel()

	resp, err := s.client.Get(fetchCtx, pageURL)
	if err != nil {
		log.Printf("⚠️  [CRAWLER] Fetch failed for %s: %v", pageURL, err)
		recordCrawledPage(false)
		return "", ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		log.Printf("⚠️  [CRAWLER] HTTP %d for %s", resp.StatusCode, pageURL)
		recordCrawledPage(false)
		return "", ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBodySize))
	if err != nil {
		recordCrawledPage(false)
		return "", ""
	}

	title = extractTitle(string(body))
	content = s.extractContent(body, parsedURL)
	recordCrawledPage(true)
	return title, content
}

// extractContent prefers trafilatura's main-content extraction and falls back
// to a plain tag-stripping pass when it yields nothing.
func (s *CrawlerService) extractContent(body []byte, pageURL *url.URL) string {
	opts := trafilatura.Options{
		OriginalURL: pageURL,
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), opts)
	if err == nil && result != nil && result.ContentText != "" {
		return truncateContent(result.ContentText)
	}

	return truncateContent(CleanHTML(string(body)))
}

// ParseSitemapLocs extracts <loc> entries in order of appearance. The scan is
// tag-scoped and tolerant of malformed surrounding XML.
func ParseSitemapLocs(raw string) []string {
	matches := locPattern.FindAllStringSubmatch(raw, -1)
	locs := make([]string, 0, len(matches))
	for _, m := range matches {
		loc := strings.TrimSpace(m[1])
		if loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs
}

// NormalizeURL resolves a sitemap location to an absolute URL. Absolute
// locations pass through; relative ones concatenate with the base.
func NormalizeURL(base, loc string) string {
	if absURLPattern.MatchString(loc) {
		return loc
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(loc, "/") {
		loc = "/" + loc
	}
	return base + loc
}

// extractTitle pulls the <title> text out of a page body, "" when absent.
func extractTitle(html string) string {
	m := titlePattern.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(spacePattern.ReplaceAllString(m[1], " "))
}

// TitleFromURL derives a fallback page title from the URL path basename.
func TitleFromURL(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "home"
	}
	base := path.Base(parsed.Path)
	if base == "" || base == "/" || base == "." {
		return "home"
	}
	return base
}

// CleanHTML strips scripts, styles and tags, decodes the minimal entity set
// and collapses whitespace.
func CleanHTML(html string) string {
	text := scriptPattern.ReplaceAllString(html, " ")
	text = stylePattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// truncateContent caps page content, backing up to a rune boundary so the cut
// never leaves a partial UTF-8 sequence.
func truncateContent(text string) string {
	if len(text) <= maxPageContentLength {
		return text
	}
	cut := maxPageContentLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

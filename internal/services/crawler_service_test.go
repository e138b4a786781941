package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestParseSitemapLocs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			"well formed",
			`<?xml version="1.0"?><urlset><url><loc>https://a.example.com/</loc></url><url><loc>https://a.example.com/contact</loc></url></urlset>`,
			[]string{"https://a.example.com/", "https://a.example.com/contact"},
		},
		{
			"whitespace inside loc",
			"<urlset><url><loc>\n  /products\n</loc></url></urlset>",
			[]string{"/products"},
		},
		{
			"malformed surrounding xml",
			`<url><loc>/a</loc><broken><loc>/b</loc>`,
			[]string{"/a", "/b"},
		},
		{"empty", "", nil},
		{"no locs", "<urlset></urlset>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSitemapLocs(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d locs %v, want %d", len(got), got, len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("loc[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		base string
		loc  string
		want string
	}{
		{"https://a.example.com", "/products", "https://a.example.com/products"},
		{"https://a.example.com/", "/products", "https://a.example.com/products"},
		{"https://a.example.com/", "products", "https://a.example.com/products"},
		{"https://a.example.com", "https://other.example.com/x", "https://other.example.com/x"},
		{"https://a.example.com", "/", "https://a.example.com/"},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.base, tt.loc); got != tt.want {
			t.Errorf("NormalizeURL(%q, %q) = %q, want %q", tt.base, tt.loc, got, tt.want)
		}
	}
}

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://a.example.com/products/brush-cutter", "brush-cutter"},
		{"https://a.example.com/contact", "contact"},
		{"https://a.example.com/", "home"},
		{"https://a.example.com", "home"},
		{"://bad", "home"},
	}

	for _, tt := range tests {
		if got := TitleFromURL(tt.url); got != tt.want {
			t.Errorf("TitleFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCleanHTML(t *testing.T) {
	html := `<html><head><style>.x{color:red}</style><script>var a=1;</script></head>
<body><h1>Brush&nbsp;Cutters</h1><p>Field &amp; farm   equipment</p></body></html>`

	got := CleanHTML(html)
	want := "Brush Cutters Field & farm equipment"
	if got != want {
		t.Errorf("CleanHTML = %q, want %q", got, want)
	}
}

func TestTruncateContentRuneBoundary(t *testing.T) {
	// A rupee sign (3 bytes) straddling the cap must not be split mid-rune.
	text := strings.Repeat("a", maxPageContentLength-1) + "₹ and more"

	got := truncateContent(text)
	if len(got) > maxPageContentLength {
		t.Fatalf("len = %d, want <= %d", len(got), maxPageContentLength)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncated content is not valid UTF-8")
	}
	if got != strings.Repeat("a", maxPageContentLength-1) {
		t.Errorf("cut landed at byte %d, want the straddling rune dropped whole", len(got))
	}

	short := "short ₹ text"
	if truncateContent(short) != short {
		t.Error("content under the cap must pass through unchanged")
	}
}

func TestBuildKBPerPageFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/products/brush-cutter", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Brush Cutter</title></head><body><p>Heavy duty brush cutter</p></body></html>`))
	})
	mux.HandleFunc("/products/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sitemap := filepath.Join(t.TempDir(), "sitemap.xml")
	raw := `<urlset><url><loc>/products/brush-cutter</loc></url><url><loc>/products/broken</loc></url><url><loc>/products/brush-cutter</loc></url></urlset>`
	if err := os.WriteFile(sitemap, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewCrawlerClient("test-bot/1.0", 2*time.Second)
	crawler := NewCrawlerService(client, true, 2*time.Second)

	kb, err := crawler.BuildKB(context.Background(), sitemap, server.URL)
	if err != nil {
		t.Fatalf("BuildKB failed: %v", err)
	}

	// Duplicate loc collapsed
	if len(kb.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(kb.Pages))
	}

	ok := kb.Pages[0]
	if ok.Title != "Brush Cutter" {
		t.Errorf("healthy page title = %q, want %q", ok.Title, "Brush Cutter")
	}
	if ok.Content == "" {
		t.Error("healthy page has empty content")
	}

	// The failing page degrades to a basename title with empty content
	broken := kb.Pages[1]
	if broken.Title != "broken" {
		t.Errorf("failed page title = %q, want basename fallback", broken.Title)
	}
	if broken.Content != "" {
		t.Errorf("failed page content = %q, want empty", broken.Content)
	}
}

func TestBuildKBUnreadableSitemapFails(t *testing.T) {
	client := NewCrawlerClient("test-bot/1.0", time.Second)
	crawler := NewCrawlerService(client, false, time.Second)

	if _, err := crawler.BuildKB(context.Background(), "/no/such/sitemap.xml", "https://a.example.com"); err == nil {
		t.Fatal("expected error for missing sitemap")
	}
}

func TestBuildKBWithoutPageCrawl(t *testing.T) {
	sitemap := filepath.Join(t.TempDir(), "sitemap.xml")
	raw := `<urlset><url><loc>/</loc></url><url><loc>/products/sprayer</loc></url></urlset>`
	if err := os.WriteFile(sitemap, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	client := NewCrawlerClient("test-bot/1.0", time.Second)
	crawler := NewCrawlerService(client, false, time.Second)

	kb, err := crawler.BuildKB(context.Background(), sitemap, "https://a.example.com")
	if err != nil {
		t.Fatalf("BuildKB failed: %v", err)
	}
	if len(kb.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(kb.Pages))
	}
	if kb.Pages[0].Title != "home" {
		t.Errorf("root title = %q, want home", kb.Pages[0].Title)
	}
	if kb.Pages[1].Title != "sprayer" {
		t.Errorf("page title = %q, want sprayer", kb.Pages[1].Title)
	}
}

package services

import (
	"context"
	"log"
	"sync"
	"time"

	"agristore/internal/models"

	"golang.org/x/sync/singleflight"
)

// KnowledgeService owns the process-wide knowledge base and graph. The build
// runs lazily on first use and the result is held for the process lifetime;
// concurrent first callers share one build via singleflight.
type KnowledgeService struct {
	crawler *CrawlerService
	source  string // sitemap local path or URL

	mu    sync.RWMutex
	kb    *models.KnowledgeBase
	graph *KnowledgeGraph

	buildGroup singleflight.Group
}

// NewKnowledgeService creates the knowledge service. sitemapURL wins over
// sitemapPath when both are configured.
func NewKnowledgeService(crawler *CrawlerService, sitemapPath, sitemapURL string) *KnowledgeService {
	source := sitemapPath
	if sitemapURL != "" {
		source = sitemapURL
	}
	return &KnowledgeService{
		crawler: crawler,
		source:  source,
	}
}

// Ensure returns the knowledge base and graph, building them on first call.
// A build failure leaves the service unbuilt so a later call can retry.
func (s *KnowledgeService) Ensure(ctx context.Context, siteBaseURL string) (*models.KnowledgeBase, *KnowledgeGraph, error) {
	s.mu.RLock()
	if s.kb != nil && s.graph != nil {
		kb, graph := s.kb, s.graph
		s.mu.RUnlock()
		return kb, graph, nil
	}
	s.mu.RUnlock()

	_, err, _ := s.buildGroup.Do("kb-build", func() (interface{}, error) {
		s.mu.RLock()
		built := s.kb != nil
		s.mu.RUnlock()
		if built {
			return nil, nil
		}

		kb, err := s.crawler.BuildKB(ctx, s.source, siteBaseURL)
		if err != nil {
			return nil, err
		}

		s.install(kb)
		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb, s.graph, nil
}

// EnsureOrFallback never fails: when the sitemap is unreadable it installs a
// minimal single-page knowledge base so the chat endpoint stays available.
func (s *KnowledgeService) EnsureOrFallback(ctx context.Context, siteBaseURL string) (*models.KnowledgeBase, *KnowledgeGraph) {
	kb, graph, err := s.Ensure(ctx, siteBaseURL)
	if err == nil {
		return kb, graph
	}

	log.Printf("⚠️  [KNOWLEDGE] Build failed, using minimal fallback KB: %v", err)
	fallback := &models.KnowledgeBase{
		GeneratedAt: time.Now(),
		Pages: []models.Page{
			{URL: NormalizeURL(siteBaseURL, "/"), Title: "home", Topics: []string{}, CTAs: []string{}},
		},
	}
	s.install(fallback)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kb, s.graph
}

func (s *KnowledgeService) install(kb *models.KnowledgeBase) {
	graph := BuildGraphFromKB(kb)
	s.mu.Lock()
	s.kb = kb
	s.graph = graph
	s.mu.Unlock()
}

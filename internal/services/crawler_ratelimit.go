package services

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// CrawlRateLimiter applies a global cap plus a per-domain cap so the crawler
// stays polite toward the sites it fetches.
type CrawlRateLimiter struct {
	globalLimiter  *rate.Limiter
	domainLimiters sync.Map // map[string]*rate.Limiter
	perDomainRate  float64
}

// NewCrawlRateLimiter creates a two-tier crawl rate limiter
func NewCrawlRateLimiter(globalRate, perDomainRate float64) *CrawlRateLimiter {
	return &CrawlRateLimiter{
		globalLimiter: rate.NewLimiter(rate.Limit(globalRate), int(globalRate*2)),
		perDomainRate: perDomainRate,
	}
}

// Wait blocks until both the global and per-domain limiters admit a request.
func (rl *CrawlRateLimiter) Wait(ctx context.Context, domain string) error {
	if err := rl.globalLimiter.Wait(ctx); err != nil {
		return err
	}

	limiter := rl.getOrCreateDomainLimiter(domain)
	return limiter.Wait(ctx)
}

func (rl *CrawlRateLimiter) getOrCreateDomainLimiter(domain string) *rate.Limiter {
	if existing, ok := rl.domainLimiters.Load(domain); ok {
		return existing.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rate.Limit(rl.perDomainRate), int(rl.perDomainRate*2))
	actual, _ := rl.domainLimiters.LoadOrStore(domain, limiter)
	return actual.(*rate.Limiter)
}

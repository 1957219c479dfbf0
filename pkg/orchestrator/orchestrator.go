// Package orchestrator fans a query out across registered scrapers with
// per-scraper timeouts, bounded retries and an overall batch deadline.
// Failures never escape: every requested site gets exactly one record back,
// real or synthesized.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scout-base/pkg/logger"
	"scout-base/pkg/models"
	"scout-base/pkg/observability"
	"scout-base/pkg/registry"
)

const (
	DefaultScraperTimeout  = 10 * time.Second
	DefaultOverallDeadline = 15 * time.Second
	DefaultMaxRetries      = 2
	DefaultRetryDelay      = 500 * time.Millisecond
)

type Config struct {
	ScraperTimeout  time.Duration
	OverallDeadline time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

func DefaultConfig() Config {
	return Config{
		ScraperTimeout:  DefaultScraperTimeout,
		OverallDeadline: DefaultOverallDeadline,
		MaxRetries:      DefaultMaxRetries,
		RetryDelay:      DefaultRetryDelay,
	}
}

type Controller struct {
	registry *registry.Registry
	cfg      Config
}

func New(reg *registry.Registry, cfg Config) *Controller {
	if cfg.ScraperTimeout <= 0 {
		cfg.ScraperTimeout = DefaultScraperTimeout
	}
	if cfg.OverallDeadline <= 0 {
		cfg.OverallDeadline = DefaultOverallDeadline
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	return &Controller{registry: reg, cfg: cfg}
}

// ScrapeAll runs the query against every registered scraper, or against the
// named subset (matched case-insensitively). It returns one record per
// resolved scraper in no particular order; ranking happens downstream.
func (c *Controller) ScrapeAll(ctx context.Context, input string, sites ...string) []models.ScrapeRecord {
	scrapers := c.resolve(sites)
	if len(scrapers) == 0 {
		return nil
	}

	type unit struct {
		idx int
		rec models.ScrapeRecord
	}
	ch := make(chan unit, len(scrapers))

	for i, s := range scrapers {
		go func(idx int, s models.Scraper) {
			ch <- unit{idx, c.scrapeBounded(ctx, s, input)}
		}(i, s)
	}

	results := make([]models.ScrapeRecord, len(scrapers))
	seen := make([]bool, len(scrapers))

	overall := time.NewTimer(c.cfg.OverallDeadline)
	defer overall.Stop()

	pending := len(scrapers)
collect:
	for pending > 0 {
		select {
		case u := <-ch:
			results[u.idx] = u.rec
			seen[u.idx] = true
			pending--
		case <-overall.C:
			break collect
		case <-ctx.Done():
			break collect
		}
	}

	// Whatever is still in flight gets a timeout record. The goroutines are
	// abandoned, not joined; the buffered channel lets them exit on their own.
	for i, s := range scrapers {
		if !seen[i] {
			observability.ScrapeErrors.Inc()
			results[i] = models.ErrorRecord(s.SiteName(),
				fmt.Sprintf("Timeout after %s (overall deadline)", c.cfg.OverallDeadline))
		}
	}
	return results
}

// ScrapeOne runs the query against a single site.
func (c *Controller) ScrapeOne(ctx context.Context, siteName, input string) (models.ScrapeRecord, error) {
	s, ok := c.lookup(siteName)
	if !ok {
		return models.ScrapeRecord{}, fmt.Errorf("%w: %s", models.ErrSiteNotFound, siteName)
	}
	return c.scrapeBounded(ctx, s, input), nil
}

// scrapeBounded wraps the retry loop in the per-scraper timeout.
func (c *Controller) scrapeBounded(ctx context.Context, s models.Scraper, input string) models.ScrapeRecord {
	sctx, cancel := context.WithTimeout(ctx, c.cfg.ScraperTimeout)
	defer cancel()

	done := make(chan models.ScrapeRecord, 1)
	go func() {
		done <- c.scrapeWithRetry(sctx, s, input)
	}()

	select {
	case rec := <-done:
		return rec
	case <-sctx.Done():
		observability.ScrapeErrors.Inc()
		return models.ErrorRecord(s.SiteName(),
			fmt.Sprintf("Timeout after %s", c.cfg.ScraperTimeout))
	}
}

// scrapeWithRetry invokes the scraper up to MaxRetries times, validating each
// result. A panic or error inside the scraper becomes part of the final error
// record, never an escaped failure.
func (c *Controller) scrapeWithRetry(ctx context.Context, s models.Scraper, input string) models.ScrapeRecord {
	site := s.SiteName()
	var lastErr string

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		rec, err := c.scrapeSafe(ctx, s, input)
		switch {
		case err != nil:
			lastErr = err.Error()
		case !rec.Valid():
			lastErr = "invalid output format"
		default:
			observability.ScrapesTotal.Inc()
			return rec
		}

		logger.Dedup("[%s] attempt %d failed: %s", site, attempt+1, lastErr)

		if attempt < c.cfg.MaxRetries-1 {
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				observability.ScrapeErrors.Inc()
				return models.ErrorRecord(site, fmt.Sprintf("Cancelled during retry: %s", lastErr))
			}
		}
	}

	observability.ScrapeErrors.Inc()
	return models.ErrorRecord(site,
		fmt.Sprintf("Failed after %d attempts: %s", c.cfg.MaxRetries, lastErr))
}

func (c *Controller) scrapeSafe(ctx context.Context, s models.Scraper, input string) (rec models.ScrapeRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scraper panic: %v", r)
		}
	}()
	return s.Scrape(ctx, input)
}

func (c *Controller) resolve(sites []string) []models.Scraper {
	if len(sites) == 0 {
		return c.registry.All()
	}
	out := make([]models.Scraper, 0, len(sites))
	for _, name := range sites {
		if s, ok := c.lookup(name); ok {
			out = append(out, s)
		}
	}
	return out
}

// ResolveSite maps any spelling of a registered site onto its canonical name.
func (c *Controller) ResolveSite(name string) (string, bool) {
	if s, ok := c.lookup(name); ok {
		return s.SiteName(), true
	}
	return "", false
}

func (c *Controller) lookup(name string) (models.Scraper, bool) {
	if s, ok := c.registry.Get(name); ok {
		return s, true
	}
	for _, registered := range c.registry.Names() {
		if strings.EqualFold(registered, name) {
			return c.registry.Get(registered)
		}
	}
	return nil, false
}

// Status reports the controller configuration and registry contents.
type Status struct {
	RegisteredScrapers int      `json:"registered_scrapers"`
	ScraperSites       []string `json:"scraper_sites"`
	ScraperTimeout     string   `json:"scraper_timeout"`
	OverallDeadline    string   `json:"overall_deadline"`
	MaxRetries         int      `json:"max_retries"`
	RetryDelay         string   `json:"retry_delay"`
}

func (c *Controller) Status() Status {
	return Status{
		RegisteredScrapers: c.registry.Count(),
		ScraperSites:       c.registry.Names(),
		ScraperTimeout:     c.cfg.ScraperTimeout.String(),
		OverallDeadline:    c.cfg.OverallDeadline.String(),
		MaxRetries:         c.cfg.MaxRetries,
		RetryDelay:         c.cfg.RetryDelay.String(),
	}
}

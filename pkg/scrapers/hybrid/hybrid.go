// Package hybrid tries a cheap static scrape first and falls back to a
// browser render when the result smells like JS-only content or a bot block.
// The detection heuristic is fuzzy and site-dependent, so it is a pluggable
// predicate rather than a fixed keyword list.
package hybrid

import (
	"context"
	"fmt"
	"strings"

	"scout-base/pkg/logger"
	"scout-base/pkg/models"
)

// Predicate decides whether a static result needs a browser render.
type Predicate func(rec models.ScrapeRecord) bool

type Scraper struct {
	Static  models.Scraper
	Browser models.Scraper

	// NeedsBrowser defaults to DefaultNeedsBrowser when nil.
	NeedsBrowser Predicate
}

func New(static, browser models.Scraper) *Scraper {
	return &Scraper{Static: static, Browser: browser}
}

func (s *Scraper) SiteName() string { return s.Static.SiteName() }

func (s *Scraper) Scrape(ctx context.Context, input string) (models.ScrapeRecord, error) {
	predicate := s.NeedsBrowser
	if predicate == nil {
		predicate = DefaultNeedsBrowser
	}

	rec, err := s.Static.Scrape(ctx, input)
	if err == nil && !predicate(rec) {
		return rec, nil
	}

	if s.Browser == nil {
		return rec, err
	}
	logger.Dedup("[%s] static scrape insufficient, rendering with browser", s.SiteName())

	brec, berr := s.Browser.Scrape(ctx, input)
	if berr != nil {
		if err != nil {
			return models.ScrapeRecord{}, fmt.Errorf("static error: %v, browser error: %w", err, berr)
		}
		// Keep the static result; a degraded record beats none.
		return rec, nil
	}
	return brec, nil
}

// DefaultNeedsBrowser flags error records, missing critical fields and the
// usual placeholder/bot-wall titles.
func DefaultNeedsBrowser(rec models.ScrapeRecord) bool {
	if rec.IsError() {
		return true
	}
	if rec.Title == "" || rec.Title == "N/A" || rec.Price == "" || rec.Price == "N/A" {
		return true
	}
	title := strings.ToLower(rec.Title)
	for _, marker := range []string{"loading", "please wait", "robot", "captcha", "access denied"} {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

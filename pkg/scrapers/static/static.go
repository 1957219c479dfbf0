// Package static implements the scrape capability with colly for sites whose
// markup arrives fully server-rendered. Selector accuracy is site business;
// the adapter owns fetch, identity rotation and record assembly.
package static

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"scout-base/pkg/models"
	"scout-base/pkg/rotation"
)

// Selectors names the CSS selectors a site config provides per field.
type Selectors struct {
	Title        string
	Price        string
	Rating       string
	Availability string
}

type Scraper struct {
	site           string
	searchURL      string // must contain one %s for the escaped query
	selectors      Selectors
	rotation       *rotation.Manager
	AllowedDomains []string
	RequestTimeout time.Duration
}

func New(site, searchURL string, sel Selectors, rot *rotation.Manager) *Scraper {
	return &Scraper{
		site:           site,
		searchURL:      searchURL,
		selectors:      sel,
		rotation:       rot,
		RequestTimeout: 10 * time.Second,
	}
}

func (s *Scraper) SiteName() string { return s.site }

func (s *Scraper) Scrape(ctx context.Context, input string) (models.ScrapeRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.ScrapeRecord{}, err
	}

	target := s.searchURL
	if strings.Contains(target, "%s") {
		target = fmt.Sprintf(target, url.QueryEscape(input))
	}

	rec := models.ScrapeRecord{
		Site:         s.site,
		Rating:       "N/A",
		Availability: "In Stock",
		Link:         target,
	}

	opts := []colly.CollectorOption{}
	if len(s.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(s.AllowedDomains...))
	}
	// A fresh collector per call: handlers close over this record and colly
	// collectors are not safe to reconfigure concurrently.
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(s.RequestTimeout)

	headers := map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}
	if s.rotation != nil {
		headers = s.rotation.HeadersWithRotation(headers)
	}
	c.OnRequest(func(r *colly.Request) {
		for k, v := range headers {
			r.Headers.Set(k, v)
		}
	})

	proxy := ""
	if s.rotation != nil {
		proxy = s.rotation.NextProxy()
	}
	if proxy != "" {
		if err := c.SetProxy(ProxyURL(proxy)); err != nil {
			return models.ScrapeRecord{}, fmt.Errorf("set proxy %s: %w", proxy, err)
		}
	}

	c.OnHTML(s.selectors.Title, func(e *colly.HTMLElement) {
		if rec.Title == "" {
			rec.Title = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML(s.selectors.Price, func(e *colly.HTMLElement) {
		if rec.Price == "" {
			rec.Price = strings.TrimSpace(e.Text)
		}
	})
	if s.selectors.Rating != "" {
		c.OnHTML(s.selectors.Rating, func(e *colly.HTMLElement) {
			if rec.Rating == "N/A" {
				rec.Rating = strings.TrimSpace(e.Text)
			}
		})
	}
	if s.selectors.Availability != "" {
		c.OnHTML(s.selectors.Availability, func(e *colly.HTMLElement) {
			rec.Availability = strings.TrimSpace(e.Text)
		})
	}

	if err := c.Visit(target); err != nil {
		if s.rotation != nil {
			s.rotation.MarkProxyFailure(proxy)
		}
		return models.ScrapeRecord{}, err
	}
	c.Wait()

	if s.rotation != nil {
		s.rotation.MarkProxySuccess(proxy)
	}
	if rec.Title == "" || rec.Price == "" {
		return rec, models.ErrProductNotFound
	}
	return rec, nil
}

// ProxyURL normalizes an endpoint for colly: bare host:port entries get an
// http scheme, credentialed URLs pass through.
func ProxyURL(endpoint string) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "http://" + endpoint
}

// Package browser implements the scrape capability with chromedp for sites
// that only render prices client-side. It reads the product JSON-LD block and
// falls back to visible price/title selectors.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/chromedp/chromedp"

	"scout-base/pkg/models"
	"scout-base/pkg/rotation"
)

type Scraper struct {
	site       string
	productURL string // must contain one %s for the product id/query
	rotation   *rotation.Manager
}

func New(site, productURL string, rot *rotation.Manager) *Scraper {
	return &Scraper{site: site, productURL: productURL, rotation: rot}
}

func (s *Scraper) SiteName() string { return s.site }

func (s *Scraper) targetFor(input string) string {
	if !strings.Contains(s.productURL, "%s") {
		return s.productURL
	}
	return fmt.Sprintf(s.productURL, url.QueryEscape(input))
}

type productJSONLD struct {
	Type   string `json:"@type"`
	Name   string `json:"name"`
	Offers struct {
		Price         json.RawMessage `json:"price"` // string or number
		PriceCurrency string          `json:"priceCurrency"`
		Availability  string          `json:"availability"`
		URL           string          `json:"url"`
	} `json:"offers"`
}

func (s *Scraper) Scrape(ctx context.Context, input string) (models.ScrapeRecord, error) {
	target := s.targetFor(input)

	ua := ""
	if s.rotation != nil {
		ua = s.rotation.UserAgents.Random()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080),
	)
	if ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	cctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var jsonLD, priceText, title string
	err := chromedp.Run(cctx,
		chromedp.Navigate(target),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Evaluate(`
			(function() {
				const scripts = document.querySelectorAll('script[type="application/ld+json"]');
				for (const script of scripts) {
					if (script.innerText.includes('"@type": "Product"') || script.innerText.includes('"@type":"Product"')) {
						return script.innerText;
					}
				}
				return "";
			})()
		`, &jsonLD),
		chromedp.Evaluate(`document.querySelector('[itemprop="price"], .price, .product-price')?.innerText || ""`, &priceText),
		chromedp.Evaluate(`document.querySelector("h1")?.innerText || ""`, &title),
	)
	if err != nil {
		return models.ScrapeRecord{}, fmt.Errorf("chromedp execution failed: %w", err)
	}

	rec := models.ScrapeRecord{
		Site:         s.site,
		Title:        strings.TrimSpace(title),
		Price:        strings.TrimSpace(priceText),
		Rating:       "N/A",
		Availability: "In Stock",
		Link:         target,
	}

	if jsonLD != "" {
		var ld productJSONLD
		if json.Unmarshal([]byte(jsonLD), &ld) == nil {
			if name := strings.TrimSpace(ld.Name); name != "" {
				rec.Title = name
			}
			if len(ld.Offers.Price) > 0 {
				var priceStr string
				if json.Unmarshal(ld.Offers.Price, &priceStr) != nil {
					priceStr = string(ld.Offers.Price)
				}
				priceStr = strings.Trim(priceStr, `"'`)
				if priceStr != "" {
					rec.Price = priceStr
					if ld.Offers.PriceCurrency != "" {
						rec.Price = priceStr + " " + ld.Offers.PriceCurrency
					}
				}
			}
			if avail := strings.ToLower(ld.Offers.Availability); avail != "" {
				if strings.Contains(avail, "instock") || avail == "in stock" {
					rec.Availability = "In Stock"
				} else {
					rec.Availability = ld.Offers.Availability
				}
			}
			if ld.Offers.URL != "" {
				rec.Link = ld.Offers.URL
			}
		}
	}

	if rec.Title == "" || rec.Price == "" {
		return rec, models.ErrProductNotFound
	}
	return rec, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	scalargo "github.com/bdpiprava/scalar-go"
	"github.com/google/uuid"

	"scout-base/pkg/api"
	"scout-base/pkg/cache"
	"scout-base/pkg/config"
	"scout-base/pkg/logger"
	"scout-base/pkg/models"
	"scout-base/pkg/observability"
	"scout-base/pkg/orchestrator"
	"scout-base/pkg/pricing"
	"scout-base/pkg/registry"
	"scout-base/pkg/rotation"
	"scout-base/pkg/scrapers/browser"
	"scout-base/pkg/scrapers/hybrid"
	"scout-base/pkg/scrapers/static"
)

var (
	cfg         *config.Config
	resultCache *cache.Cache
	controller  *orchestrator.Controller
	rotator     *rotation.Manager
)

// siteConfig wires one storefront into the registry. Selector upkeep is the
// site's problem, not the core's; these are starting points.
type siteConfig struct {
	name      string
	searchURL string
	selectors static.Selectors
	// browserURL enables the hybrid browser fallback for JS-heavy catalogs.
	browserURL string
}

var defaultSites = []siteConfig{
	{
		name:      "Amazon",
		searchURL: "https://www.amazon.in/s?k=%s",
		selectors: static.Selectors{
			Title:        "h2.a-size-mini a span",
			Price:        ".a-price .a-offscreen",
			Rating:       ".a-icon-alt",
			Availability: "#availability span",
		},
		browserURL: "https://www.amazon.in/s?k=%s",
	},
	{
		name:      "Flipkart",
		searchURL: "https://www.flipkart.com/search?q=%s",
		selectors: static.Selectors{
			Title:  "div._4rR01T, a.s1Q9rs",
			Price:  "div._30jeq3",
			Rating: "div._3LWZlK",
		},
		browserURL: "https://www.flipkart.com/search?q=%s",
	},
	{
		name:      "Snapdeal",
		searchURL: "https://www.snapdeal.com/search?keyword=%s",
		selectors: static.Selectors{
			Title:  "p.product-title",
			Price:  "span.product-price",
			Rating: "div.filled-stars",
		},
	},
}

func main() {
	cfg = config.Load()

	var err error
	resultCache, err = cache.New(cfg.CacheDBPath, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer resultCache.Close()
	log.Printf("Cache initialized at %s with TTL %s", cfg.CacheDBPath, cfg.CacheTTL)

	rotator = rotation.NewManager(cfg.Proxies)
	reg := registry.New()
	for _, sc := range defaultSites {
		reg.Register(buildScraper(sc))
	}

	controller = orchestrator.New(reg, orchestrator.Config{
		ScraperTimeout:  cfg.ScraperTimeout,
		OverallDeadline: cfg.OverallDeadline,
		MaxRetries:      cfg.MaxRetries,
	})

	observability.Start(cfg.MetricsPort)

	http.HandleFunc("/", rootHandler)

	ip := GetOutboundIP()
	if ip != nil {
		fmt.Printf("Local Network URL: http://%s:%s\n", ip.String(), cfg.Port)
	}
	fmt.Printf("Access URL: http://localhost:%s\n", cfg.Port)
	fmt.Printf("API Docs: http://localhost:%s/\n", cfg.Port)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           nil,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

func buildScraper(sc siteConfig) models.Scraper {
	s := static.New(sc.name, sc.searchURL, sc.selectors, rotator)
	if sc.browserURL == "" {
		return s
	}
	return hybrid.New(s, browser.New(sc.name, sc.browserURL, rotator))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/compare":
		compareHandler(w, r)
	case r.URL.Path == "/status":
		statusHandler(w, r)
	case r.URL.Path == "/":
		docsHandler(w, r)
	default:
		api.WriteNotFound(w, "Unknown path. Available: /compare, /status", r.URL.Path)
	}
}

func docsHandler(w http.ResponseWriter, r *http.Request) {
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("Price Scout API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

type compareResponse struct {
	SearchID string                `json:"search_id"`
	Query    string                `json:"query"`
	Currency string                `json:"currency"`
	Records  []models.ScrapeRecord `json:"records"`
	Offers   []models.ProductOffer `json:"offers"`
	Cheapest *models.ProductOffer  `json:"cheapest,omitempty"`
}

func compareHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteMethodNotAllowed(w, "Use GET for /compare", r.URL.Path)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		api.WriteBadRequest(w, "Missing query. Expected /compare?q={product}", r.URL.Path)
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if currency == "" {
		currency = cfg.TargetCurrency
	}

	var sites []string
	if raw := r.URL.Query().Get("sites"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sites = append(sites, s)
			}
		}
	}

	records := search(r.Context(), query, sites)
	result := pricing.CompareRecords(records, currency)

	resp := compareResponse{
		SearchID: uuid.New().String(),
		Query:    query,
		Currency: currency,
		Records:  records,
		Offers:   result.Offers,
		Cheapest: result.Cheapest,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding response: %v", err)
		api.WriteInternalServerError(w, fmt.Errorf("failed to encode response"), r.URL.Path)
	}
}

// search serves what it can from the cache and scrapes only the rest.
func search(ctx context.Context, query string, sites []string) []models.ScrapeRecord {
	var requested []string
	if len(sites) == 0 {
		requested = controller.Status().ScraperSites
	} else {
		// Cache entries are keyed by canonical site name, so the caller's
		// spelling has to be resolved before the lookup.
		for _, site := range sites {
			if canonical, ok := controller.ResolveSite(site); ok {
				requested = append(requested, canonical)
			}
		}
	}

	var records []models.ScrapeRecord
	var missing []string
	for _, site := range requested {
		if rec, ok := resultCache.Get(site, query); ok {
			logger.Dedup("Cache hit for %s/%s", site, query)
			records = append(records, rec)
			continue
		}
		missing = append(missing, site)
	}

	if len(missing) > 0 {
		scraped := controller.ScrapeAll(ctx, query, missing...)
		for _, rec := range scraped {
			resultCache.Set(rec.Site, query, rec)
		}
		records = append(records, scraped...)
	}
	return records
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteMethodNotAllowed(w, "Use GET for /status", r.URL.Path)
		return
	}
	status := struct {
		Controller orchestrator.Status `json:"controller"`
		Rotation   rotation.Status     `json:"rotation"`
	}{
		Controller: controller.Status(),
		Rotation:   rotator.Status(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func GetOutboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		addrs, _ := net.InterfaceAddrs()
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					return ipnet.IP
				}
			}
		}
		return nil
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	return localAddr.IP
}

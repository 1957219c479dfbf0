package pricing

import (
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// RateFetcher returns the multiplier that converts one unit of from into to.
type RateFetcher func(from, to string) decimal.Decimal

// DefaultTTL bounds how long a fetched rate is reused before refetching.
const DefaultTTL = time.Hour

// snapshotRates is the built-in static table: INR per one unit of currency.
// Approximate by design; replace the fetcher for live rates.
var snapshotRates = map[string]decimal.Decimal{
	"INR": decimal.NewFromInt(1),
	"USD": decimal.RequireFromString("83.00"),
	"EUR": decimal.RequireFromString("90.00"),
	"GBP": decimal.RequireFromString("100.00"),
	"JPY": decimal.RequireFromString("0.55"),
	"AED": decimal.RequireFromString("22.60"),
	"CAD": decimal.RequireFromString("61.00"),
	"AUD": decimal.RequireFromString("53.00"),
}

// SnapshotFetcher cross-rates through INR using the embedded table. Unknown
// pairs resolve to 1:1; lossy, but the pipeline stays non-fatal.
func SnapshotFetcher(from, to string) decimal.Decimal {
	f := strings.ToUpper(from)
	t := strings.ToUpper(to)
	if f == t {
		return decimal.NewFromInt(1)
	}
	inrPerF, okF := snapshotRates[f]
	inrPerT, okT := snapshotRates[t]
	if okF && okT {
		// 16 digits of precision is plenty for a 2dp result.
		return inrPerF.DivRound(inrPerT, 16)
	}
	return decimal.NewFromInt(1)
}

type ratePair struct {
	from, to string
}

type cachedRate struct {
	fetchedAt time.Time
	rate      decimal.Decimal
}

// Converter produces conversion multipliers with a TTL cache over a pluggable
// fetcher. Safe for concurrent use; normalization runs one goroutine per offer.
type Converter struct {
	BaseCurrency string

	mu      sync.Mutex
	cache   map[ratePair]cachedRate
	fetcher RateFetcher
	ttl     time.Duration
	now     func() time.Time
}

func NewConverter(baseCurrency string) *Converter {
	if baseCurrency == "" {
		baseCurrency = "INR"
	}
	return &Converter{
		BaseCurrency: strings.ToUpper(baseCurrency),
		cache:        make(map[ratePair]cachedRate),
		fetcher:      SnapshotFetcher,
		ttl:          DefaultTTL,
		now:          time.Now,
	}
}

// SetFetcher swaps in a different rate source (e.g. a live API client).
func (c *Converter) SetFetcher(f RateFetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetcher = f
	c.cache = make(map[ratePair]cachedRate)
}

// SetTTL changes how long cached rates stay fresh.
func (c *Converter) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// Rate returns the cached multiplier for the pair, refetching when stale.
func (c *Converter) Rate(from, to string) decimal.Decimal {
	k := ratePair{strings.ToUpper(from), strings.ToUpper(to)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.cache[k]; ok && c.now().Sub(cached.fetchedAt) < c.ttl {
		return cached.rate
	}
	rate := c.fetcher(k.from, k.to)
	c.cache[k] = cachedRate{fetchedAt: c.now(), rate: rate}
	return rate
}

// Convert converts an amount between currencies, bankers-rounded to 2dp.
// An empty target converts into the base currency.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	if to == "" {
		to = c.BaseCurrency
	}
	return round2(amount.Mul(c.Rate(from, to)))
}

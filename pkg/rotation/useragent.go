// Package rotation supplies rotating identity material (user agents, proxy
// endpoints) shared process-wide by every scraper, with per-endpoint failure
// bookkeeping. One Manager per process; coordination only works globally.
package rotation

import (
	"math/rand"
	"sync"
)

// defaultUserAgents covers current Chrome/Firefox/Safari/Edge builds across
// desktop and mobile so repeated requests do not all look alike.
var defaultUserAgents = []string{
	// Chrome on Windows
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36",
	// Chrome on macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	// Chrome on Linux
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	// Firefox on Windows
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
	// Firefox on macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
	// Firefox on Linux
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0",
	// Safari on macOS
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	// Edge on Windows
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
	// Mobile Chrome
	"Mozilla/5.0 (Linux; Android 13; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Linux; Android 12; Pixel 6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Mobile Safari/537.36",
	// Mobile Safari
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
}

// UserAgentRotator hands out user agents uniformly or round-robin. The pool is
// append-only at runtime.
type UserAgentRotator struct {
	mu     sync.Mutex
	agents []string
	index  int
}

func NewUserAgentRotator() *UserAgentRotator {
	agents := make([]string, len(defaultUserAgents))
	copy(agents, defaultUserAgents)
	return &UserAgentRotator{agents: agents}
}

// Random returns a uniformly picked user agent.
func (r *UserAgentRotator) Random() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agents[rand.Intn(len(r.agents))]
}

// Next returns the next user agent in rotation, wrapping around.
func (r *UserAgentRotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ua := r.agents[r.index]
	r.index = (r.index + 1) % len(r.agents)
	return ua
}

// Add appends a custom user agent unless it is already in the pool.
func (r *UserAgentRotator) Add(userAgent string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ua := range r.agents {
		if ua == userAgent {
			return
		}
	}
	r.agents = append(r.agents, userAgent)
}

func (r *UserAgentRotator) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.agents)
}

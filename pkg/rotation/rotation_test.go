package rotation

import (
	"testing"
	"time"
)

func TestUserAgentNextWraps(t *testing.T) {
	r := NewUserAgentRotator()
	n := r.Count()
	if n == 0 {
		t.Fatal("empty default pool")
	}

	first := r.Next()
	for i := 1; i < n; i++ {
		r.Next()
	}
	if got := r.Next(); got != first {
		t.Errorf("rotation did not wrap: got %q, want %q", got, first)
	}
}

func TestUserAgentAddDeduplicates(t *testing.T) {
	r := NewUserAgentRotator()
	n := r.Count()

	r.Add("custom-agent/1.0")
	r.Add("custom-agent/1.0")
	if got := r.Count(); got != n+1 {
		t.Errorf("count: got %d, want %d", got, n+1)
	}
}

func TestProxyCooldown(t *testing.T) {
	r := NewProxyRotator([]string{"proxy1.example.com:8080"})
	current := time.Unix(1000, 0)
	r.now = func() time.Time { return current }

	for i := 0; i < DefaultMaxFailures; i++ {
		r.MarkFailure("proxy1.example.com:8080")
	}
	if r.HasProxies() {
		t.Fatal("endpoint should be sidelined after hitting the failure threshold")
	}
	if got := r.Next(); got != "" {
		t.Fatalf("sidelined endpoint was selected: %q", got)
	}

	// Past the cooldown it becomes selectable again with a clean slate.
	current = current.Add(DefaultFailureCooldown + time.Second)
	if !r.HasProxies() {
		t.Fatal("endpoint should be eligible after cooldown")
	}
	if got := r.Next(); got != "proxy1.example.com:8080" {
		t.Fatalf("expected endpoint back in rotation, got %q", got)
	}

	// The reset wiped the old failures: two fresh ones stay under threshold.
	r.MarkFailure("proxy1.example.com:8080")
	r.MarkFailure("proxy1.example.com:8080")
	if !r.HasProxies() {
		t.Error("failure count was not reset after cooldown")
	}
}

func TestProxySuccessClearsFailures(t *testing.T) {
	r := NewProxyRotator([]string{"p:1"})

	r.MarkFailure("p:1")
	r.MarkFailure("p:1")
	r.MarkSuccess("p:1")
	r.MarkFailure("p:1")
	r.MarkFailure("p:1")

	if !r.HasProxies() {
		t.Error("success report should have cleared the failure count")
	}
}

func TestProxyEmptyPool(t *testing.T) {
	r := NewProxyRotator(nil)
	if r.HasProxies() {
		t.Error("empty pool reports proxies")
	}
	if r.Next() != "" || r.Random() != "" {
		t.Error("empty pool should select nothing")
	}
}

func TestProxyNextSkipsSidelined(t *testing.T) {
	r := NewProxyRotator([]string{"a:1", "b:2"})
	for i := 0; i < DefaultMaxFailures; i++ {
		r.MarkFailure("a:1")
	}

	for i := 0; i < 4; i++ {
		if got := r.Next(); got != "b:2" {
			t.Fatalf("expected only b:2 in rotation, got %q", got)
		}
	}

	total, available := r.Counts()
	if total != 2 || available != 1 {
		t.Errorf("counts: got (%d, %d), want (2, 1)", total, available)
	}
}

func TestManagerHeadersWithRotation(t *testing.T) {
	m := NewManager(nil)
	base := map[string]string{"Accept": "text/html"}

	headers := m.HeadersWithRotation(base)
	if headers["User-Agent"] == "" {
		t.Error("missing rotated User-Agent")
	}
	if headers["Accept"] != "text/html" {
		t.Error("base headers not merged")
	}
	if _, ok := base["User-Agent"]; ok {
		t.Error("base map was mutated")
	}
}

func TestManagerStatus(t *testing.T) {
	m := NewManager([]string{"a:1", "b:2"})
	s := m.Status()

	if !s.ProxiesEnabled || s.TotalProxies != 2 || s.AvailableProxies != 2 {
		t.Errorf("unexpected status: %+v", s)
	}
	if s.UserAgents == 0 {
		t.Error("user agent pool reported empty")
	}

	if NewManager(nil).Status().ProxiesEnabled {
		t.Error("proxying should be disabled with an empty list")
	}
}

package rotation

// Manager bundles user-agent and proxy rotation behind one interface. Build
// exactly one per process and inject it into every scraper; the anti-blocking
// value of rotation only holds when decisions are coordinated globally.
type Manager struct {
	UserAgents *UserAgentRotator
	Proxies    *ProxyRotator
}

func NewManager(proxies []string) *Manager {
	return &Manager{
		UserAgents: NewUserAgentRotator(),
		Proxies:    NewProxyRotator(proxies),
	}
}

// HeadersWithRotation merges a rotated User-Agent onto the base headers.
// The base map is not modified.
func (m *Manager) HeadersWithRotation(base map[string]string) map[string]string {
	headers := make(map[string]string, len(base)+1)
	for k, v := range base {
		headers[k] = v
	}
	headers["User-Agent"] = m.UserAgents.Random()
	return headers
}

// NextProxy returns the next usable proxy endpoint, or "" when proxying is
// disabled or every endpoint is cooling down.
func (m *Manager) NextProxy() string {
	return m.Proxies.Next()
}

// RandomProxy returns a uniformly picked usable proxy endpoint, or "".
func (m *Manager) RandomProxy() string {
	return m.Proxies.Random()
}

func (m *Manager) MarkProxyFailure(proxy string) { m.Proxies.MarkFailure(proxy) }
func (m *Manager) MarkProxySuccess(proxy string) { m.Proxies.MarkSuccess(proxy) }
func (m *Manager) HasProxies() bool              { return m.Proxies.HasProxies() }

type Status struct {
	UserAgents       int  `json:"user_agents"`
	TotalProxies     int  `json:"total_proxies"`
	AvailableProxies int  `json:"available_proxies"`
	ProxiesEnabled   bool `json:"proxies_enabled"`
}

func (m *Manager) Status() Status {
	total, available := m.Proxies.Counts()
	return Status{
		UserAgents:       m.UserAgents.Count(),
		TotalProxies:     total,
		AvailableProxies: available,
		ProxiesEnabled:   total > 0,
	}
}

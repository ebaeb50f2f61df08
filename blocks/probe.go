package blocks

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// HTTPProbe checks image availability with a HEAD request and remembers the
// answer for TTL. Relative URLs are resolved against BaseURL.
type HTTPProbe struct {
	Client  *http.Client
	BaseURL string
	TTL     time.Duration

	mu    sync.Mutex
	cache map[string]probeResult
}

type probeResult struct {
	ok      bool
	expires time.Time
}

func NewHTTPProbe(baseURL string, timeout, ttl time.Duration) *HTTPProbe {
	return &HTTPProbe{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		TTL:     ttl,
		cache:   make(map[string]probeResult),
	}
}

func (p *HTTPProbe) Available(ctx context.Context, rawURL string) bool {
	target := p.resolve(rawURL)
	if target == "" {
		return false
	}

	now := time.Now()
	p.mu.Lock()
	if res, ok := p.cache[target]; ok && now.Before(res.expires) {
		p.mu.Unlock()
		return res.ok
	}
	p.mu.Unlock()

	ok := p.head(ctx, target)

	p.mu.Lock()
	p.cache[target] = probeResult{ok: ok, expires: now.Add(p.TTL)}
	p.mu.Unlock()
	return ok
}

func (p *HTTPProbe) head(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	// Some hosts refuse HEAD but serve the file.
	if resp.StatusCode == http.StatusMethodNotAllowed {
		return true
	}
	return resp.StatusCode < 400
}

func (p *HTTPProbe) resolve(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	if p.BaseURL == "" {
		return ""
	}
	base, err := url.Parse(p.BaseURL + "/")
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

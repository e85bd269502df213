package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"support-widget/internal/apperr"
)

// quotaWindow is the trailing window a key's request quota applies to.
const quotaWindow = time.Hour

// KeyConfig describes one registered widget installation.
type KeyConfig struct {
	Name      string
	Domain    string
	RateLimit int
}

// APIKeyGate validates the X-API-Key header and enforces a per-key
// sliding-window request quota. Counters are in-process; each key keeps the
// timestamps of its requests inside the trailing window.
type APIKeyGate struct {
	keys map[string]KeyConfig

	mu     sync.Mutex
	window map[string][]time.Time
	now    func() time.Time // injectable for tests
}

// NewAPIKeyGate builds a gate over a static key table.
func NewAPIKeyGate(keys map[string]KeyConfig) *APIKeyGate {
	return &APIKeyGate{
		keys:   keys,
		window: make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Verify checks that key is registered and returns its configuration.
func (g *APIKeyGate) Verify(key string) (KeyConfig, error) {
	cfg, ok := g.keys[key]
	if !ok {
		return KeyConfig{}, apperr.New(apperr.KindUnauthorized, "invalid API key")
	}
	return cfg, nil
}

// CheckQuota records one request for key and fails once the trailing-hour
// count reaches limit.
func (g *APIKeyGate) CheckQuota(key string, limit int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	cutoff := now.Add(-quotaWindow)

	kept := g.window[key][:0]
	for _, t := range g.window[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= limit {
		g.window[key] = kept
		return apperr.New(apperr.KindRateLimited, "rate limit exceeded")
	}
	g.window[key] = append(kept, now)
	return nil
}

// Handler returns the Fiber middleware enforcing the gate on every request.
func (g *APIKeyGate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("X-API-Key")
		cfg, err := g.Verify(key)
		if err != nil {
			return err
		}
		if err := g.CheckQuota(key, cfg.RateLimit); err != nil {
			return err
		}
		c.Locals("client_name", cfg.Name)
		return c.Next()
	}
}

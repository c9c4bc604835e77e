package calendly

import "sync"

// Cache keys for the two provider identities that are static for the
// lifetime of one clinic configuration.
const (
	CacheKeyAccountURI   = "account-uri"
	CacheKeyEventTypeURI = "event-type-uri"
)

// IdentityCache holds slow-changing provider lookups for the lifetime of
// the process. There is no TTL: once populated a value is never re-fetched.
// Populating is idempotent, so concurrent first fetches are harmless.
// The cache is injected into the client so tests can start from a fresh one.
type IdentityCache struct {
	mu     sync.Mutex
	values map[string]string
}

func NewIdentityCache() *IdentityCache {
	return &IdentityCache{values: make(map[string]string)}
}

func (c *IdentityCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *IdentityCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

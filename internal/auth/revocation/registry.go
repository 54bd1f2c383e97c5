// Package revocation tracks session token identifiers that must be treated
// as invalid before their natural expiry. The registry is consulted on every
// authorization decision; it is injected explicitly, never a package global.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Registry is a concurrency-safe set of revoked token identifiers.
type Registry interface {
	// Revoke marks jti invalid for at least ttl. Implementations may keep
	// the entry longer; they must never drop it earlier.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRegistry is the default in-process implementation. Entries expire
// with the token they shadow, so the set stays bounded by the number of
// logouts inside one token lifetime. Being process-local, it forgets all
// revocations on restart; tokens revoked before a restart are accepted again
// until their natural expiry. Deployments that cannot accept that window use
// RedisRegistry instead.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *MemoryRegistry) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	r.entries[jti] = r.now().Add(ttl)
	return nil
}

func (r *MemoryRegistry) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	expiry, ok := r.entries[jti]
	if !ok {
		return false, nil
	}
	// An expired entry shadows a token that is itself expired; either answer
	// leads to rejection, so stale entries are only cleaned up on Revoke.
	return !expiry.Before(r.now()), nil
}

// prune drops entries whose shadowed token has expired. Caller holds mu.
func (r *MemoryRegistry) prune() {
	now := r.now()
	for jti, expiry := range r.entries {
		if expiry.Before(now) {
			delete(r.entries, jti)
		}
	}
}

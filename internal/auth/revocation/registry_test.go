package revocation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryRegistry_RevokeAndCheck(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "unknown")
	if err != nil || revoked {
		t.Fatalf("expected unknown jti to be accepted, got revoked=%v err=%v", revoked, err)
	}

	if err := r.Revoke(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	revoked, err = r.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti-1 to be revoked, got revoked=%v err=%v", revoked, err)
	}
}

func TestMemoryRegistry_EntryOutlivesTokenOnly(t *testing.T) {
	r := NewMemoryRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }
	ctx := context.Background()

	if err := r.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	// Move past the shadowed token's expiry: the entry no longer matters and
	// reports not-revoked (the token itself is expired by then).
	now = now.Add(2 * time.Minute)
	revoked, err := r.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("expected expired entry to report not revoked, got %v err=%v", revoked, err)
	}

	// The next Revoke prunes stale entries.
	if err := r.Revoke(ctx, "jti-2", time.Minute); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	r.mu.RLock()
	_, stale := r.entries["jti-1"]
	r.mu.RUnlock()
	if stale {
		t.Fatalf("expected jti-1 to be pruned")
	}
}

func TestMemoryRegistry_Concurrent(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = r.Revoke(ctx, fmt.Sprintf("jti-%d", n), time.Hour)
		}(i)
		go func(n int) {
			defer wg.Done()
			_, _ = r.IsRevoked(ctx, fmt.Sprintf("jti-%d", n))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		revoked, err := r.IsRevoked(ctx, fmt.Sprintf("jti-%d", i))
		if err != nil || !revoked {
			t.Fatalf("jti-%d: expected revoked, got %v err=%v", i, revoked, err)
		}
	}
}

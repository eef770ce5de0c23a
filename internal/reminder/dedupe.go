package reminder

import (
	"context"
	"sync"
	"time"
)

// Deduper runs fn at most once per key within ttl. *cache.Deduper implements
// it on Redis.
type Deduper interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) (bool, error)
}

// LocalDeduper is an in-process Deduper for single-instance deployments
// without Redis.
type LocalDeduper struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

// NewLocalDeduper creates an empty LocalDeduper.
func NewLocalDeduper() *LocalDeduper {
	return &LocalDeduper{claims: make(map[string]time.Time), now: time.Now}
}

// Once implements Deduper. A failing fn releases the claim.
func (d *LocalDeduper) Once(_ context.Context, key string, ttl time.Duration, fn func() error) (bool, error) {
	if !d.claim(key, ttl) {
		return false, nil
	}
	if err := fn(); err != nil {
		d.mu.Lock()
		delete(d.claims, key)
		d.mu.Unlock()
		return true, err
	}
	return true, nil
}

func (d *LocalDeduper) claim(key string, ttl time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, expires := range d.claims {
		if !now.Before(expires) {
			delete(d.claims, k)
		}
	}
	if _, taken := d.claims[key]; taken {
		return false
	}
	d.claims[key] = now.Add(ttl)
	return true
}

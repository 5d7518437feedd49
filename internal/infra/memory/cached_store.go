package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"calquiz-service/internal/app"
	"golang.org/x/sync/singleflight"
)

// CachedStore is a read-through cache in front of a slower app.KeyValueStore.
// Reads are cached for the TTL (plus jitter), writes go to the backing store and replace the entry.
type CachedStore struct {
	backing app.KeyValueStore
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand
	rndMu   sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedValue
}

type cachedValue struct {
	value     []byte
	ok        bool
	expiresAt time.Time
}

func NewCachedStore(backing app.KeyValueStore, ttl time.Duration) *CachedStore {
	return &CachedStore{
		backing: backing,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedValue),
	}
}

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if entry, ok := c.lookup(key); ok {
		return cloneBytes(entry.value), entry.ok, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another caller filled it.
		if entry, ok := c.lookup(key); ok {
			return entry, nil
		}

		value, found, err := c.backing.Get(ctx, key)
		if err != nil {
			return cachedValue{}, err
		}
		entry := cachedValue{value: cloneBytes(value), ok: found, expiresAt: c.clock().Add(c.ttlWithJitter())}
		c.mu.Lock()
		c.cache[key] = entry
		c.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return nil, false, err
	}
	entry := result.(cachedValue)
	return cloneBytes(entry.value), entry.ok, nil
}

func (c *CachedStore) Put(ctx context.Context, key string, value []byte) error {
	if err := c.backing.Put(ctx, key, value); err != nil {
		c.Invalidate(key)
		return err
	}
	c.mu.Lock()
	c.cache[key] = cachedValue{value: cloneBytes(value), ok: true, expiresAt: c.clock().Add(c.ttlWithJitter())}
	c.mu.Unlock()
	return nil
}

// Invalidate drops a cached key so the next read goes to the backing store.
func (c *CachedStore) Invalidate(key string) {
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
}

func (c *CachedStore) lookup(key string) (cachedValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return cachedValue{}, false
	}
	return entry, true
}

func (c *CachedStore) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

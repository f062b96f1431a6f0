package hrtf

import (
	"fmt"
	"sync"
)

// Provider loads the filter bank for a key. Implementations return
// ErrUnsupportedSampleRate for rates outside SupportedSampleRates.
type Provider interface {
	Load(key Key) (*FilterBank, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(key Key) (*FilterBank, error)

// Load calls f(key).
func (f ProviderFunc) Load(key Key) (*FilterBank, error) {
	return f(key)
}

// Cache memoizes the banks returned by another provider. It is safe for
// concurrent use.
type Cache struct {
	provider Provider

	mu    sync.Mutex
	banks map[Key]*FilterBank
}

// NewCache wraps provider.
func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		banks:    make(map[Key]*FilterBank),
	}
}

// Load returns the cached bank for key, loading and validating it on first
// use. Failed loads are not cached.
func (c *Cache) Load(key Key) (*FilterBank, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.banks[key]; ok {
		return b, nil
	}

	b, err := c.provider.Load(key)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("hrtf: provider returned bank for %s: %w", key, err)
	}

	c.banks[key] = b
	return b, nil
}

// Len returns the number of cached banks.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.banks)
}

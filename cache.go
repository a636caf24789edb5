package exprschnell

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cache memoizes successful Build results, keyed by an xxhash of the input.
// Sharing parsed trees is safe because they are immutable; the original input
// is kept per entry so a hash collision falls through to a fresh parse.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64]cacheEntry
	order   []uint64
	max     int
}

type cacheEntry struct {
	input   string
	operand Operand
}

// NewCache creates a cache holding at most maxEntries trees. When the cache
// is full the oldest entry is evicted.
func NewCache(maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		entries: make(map[uint64]cacheEntry, maxEntries),
		max:     maxEntries,
	}
}

// Build parses input, reusing a previously built tree when the exact same
// input was seen before. Errors are never cached.
func (c *Cache) Build(input string, opts ...BuildOption) (Operand, error) {
	key := xxhash.Sum64String(input)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && entry.input == input {
		c.mu.Unlock()
		return entry.operand, nil
	}
	c.mu.Unlock()

	operand, err := Build(input, opts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if _, ok := c.entries[key]; !ok {
		for len(c.entries) >= c.max && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[key] = cacheEntry{input: input, operand: operand}
		c.order = append(c.order, key)
	}
	c.mu.Unlock()

	return operand, nil
}

// Eval builds through the cache and calculates the result.
func (c *Cache) Eval(input string, opts ...BuildOption) (Value, error) {
	operand, err := c.Build(input, opts...)
	if err != nil {
		return Value{}, err
	}
	return operand.Calculate()
}

// Len returns the number of cached trees.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

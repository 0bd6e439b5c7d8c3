package selectors

import "sync"

// Memo caches the result of compute for the most recent key. When the key
// changes the result is recomputed, and if equal reports the new result as
// equal to the cached one the cached value is returned instead, so callers
// can compare results by identity.
type Memo[K comparable, R any] struct {
	compute func(K) R
	equal   func(a, b R) bool

	mu     sync.Mutex
	key    K
	result R
	valid  bool
}

// NewMemo returns a Memo around compute. equal may be nil, in which case
// every recomputation replaces the cached result.
func NewMemo[K comparable, R any](compute func(K) R, equal func(a, b R) bool) *Memo[K, R] {
	return &Memo[K, R]{compute: compute, equal: equal}
}

// Get returns the result for key.
func (m *Memo[K, R]) Get(key K) R {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		return m.result
	}

	result := m.compute(key)
	m.key = key
	if m.valid && m.equal != nil && m.equal(m.result, result) {
		return m.result
	}
	m.result = result
	m.valid = true
	return result
}

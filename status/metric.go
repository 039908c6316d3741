// Package status is the metrics registry shared by the engine and its hosts
// Engine components cache metric pointers at construction and write atomics each tick;
// hosts read them from any goroutine
package status

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// Float is an atomic float64 stored as bits, zero value is 0.0
type Float struct {
	bits atomic.Uint64
}

// Store sets the value
func (f *Float) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

// Load reads the value
func (f *Float) Load() float64 { return math.Float64frombits(f.bits.Load()) }

// Add adds delta and returns the new value
func (f *Float) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Text is an atomic string, zero value is empty
type Text struct {
	ptr atomic.Pointer[string]
}

// Store sets the value
func (s *Text) Store(v string) { s.ptr.Store(&v) }

// Load reads the value
func (s *Text) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

// Map is a keyed set of metrics of one kind
// Lookups after the first are lock-free through the cached pointer
type Map[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func newMap[T any]() *Map[T] {
	return &Map[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, allocating it on first use
func (m *Map[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	return ptr
}

// Range visits metrics in key order
func (m *Map[T]) Range(fn func(key string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, m.items[k])
	}
}

// Len returns the number of metrics
func (m *Map[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

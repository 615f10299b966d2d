package safepool

import (
	"sync"

	"github.com/rdeusser/tagpool/tagpool"
)

// A Pool is a tagpool.Pool that is safe for concurrent use. Every call,
// including the factory calls made during a refill, runs under one mutex.
type Pool[T any] struct {
	mu sync.Mutex
	p  *tagpool.Pool[T]
}

// NewPool constructs a new Pool.
func NewPool[T any](opts ...tagpool.Option[T]) *Pool[T] {
	return &Pool[T]{p: tagpool.New(opts...)}
}

// Get retrieves a *T with the given tag, creating one if necessary.
func (p *Pool[T]) Get(tag tagpool.Tag) (*T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.Allocate(tag)
}

// Put returns t to the pool.
func (p *Pool[T]) Put(t *T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.Release(t)
}

// SetFactory replaces the factory. A nil factory disables refills.
func (p *Pool[T]) SetFactory(f tagpool.Factory[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.p.SetFactory(f)
}

// SetBatchSize sets how many factory calls a refill pass may make.
// Non-positive values are ignored.
func (p *Pool[T]) SetBatchSize(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.p.SetBatchSize(n)
}

// BatchSize returns the current batch size.
func (p *Pool[T]) BatchSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.BatchSize()
}

// Prime creates up to n instances for tag without handing any out.
func (p *Pool[T]) Prime(tag tagpool.Tag, n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.Prime(tag, n)
}

// Clear destroys every instance the pool owns and unsets the factory.
func (p *Pool[T]) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.Clear()
}

// Stats returns a snapshot of the pool.
func (p *Pool[T]) Stats() tagpool.Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.Stats()
}

// TagOf returns the tag of a checked out instance.
func (p *Pool[T]) TagOf(t *T) (tagpool.Tag, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.TagOf(t)
}

// FreeLen returns the number of free instances with the given tag.
func (p *Pool[T]) FreeLen(tag tagpool.Tag) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.FreeLen(tag)
}

// FreeLenTotal returns the number of free instances across all tags.
func (p *Pool[T]) FreeLenTotal() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.FreeLenTotal()
}

// InUseLen returns the number of checked out instances.
func (p *Pool[T]) InUseLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.p.InUseLen()
}

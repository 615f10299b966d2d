// Package tagpool recycles heap-allocated instances of a type, keyed by an
// integer tag. A Pool is not safe for concurrent use; see package safepool.
package tagpool

import (
	"sort"

	"github.com/scylladb/go-set/iset"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Tag identifies which kind of instance a pool entry is. The pool never
// interprets it.
type Tag int

type handle int

type state uint8

const (
	stateFree state = iota
	stateInUse
)

type entry[T any] struct {
	v     *T
	tag   Tag
	state state
}

// freeList is the free sequence of a single tag. Its logical order is fresh
// from top to bottom followed by returned from first to last.
type freeList struct {
	fresh    []handle
	returned []handle
}

func (l *freeList) pushFront(h handle) {
	l.fresh = append(l.fresh, h)
}

func (l *freeList) pushBack(h handle) {
	l.returned = append(l.returned, h)
}

func (l *freeList) popFront() (handle, bool) {
	if n := len(l.fresh); n > 0 {
		h := l.fresh[n-1]
		l.fresh = l.fresh[:n-1]
		return h, true
	}

	if len(l.returned) > 0 {
		h := l.returned[0]
		l.returned = l.returned[1:]
		return h, true
	}

	return 0, false
}

func (l *freeList) len() int {
	return len(l.fresh) + len(l.returned)
}

// Stats is a snapshot of the pool's bookkeeping.
type Stats struct {
	Free  int
	InUse int
	Tags  []Tag
}

// A Pool hands out *T by tag and takes them back for reuse. Instances are
// only created by the factory and only destroyed by Clear.
type Pool[T any] struct {
	factory   Factory[T]
	destroyer Destroyer[T]
	batchSize int
	logger    *zap.Logger

	entries []entry[T]
	index   map[*T]handle
	free    map[Tag]*freeList
	tags    *iset.Set
	nfree   int
	ninuse  int
}

// New constructs an empty Pool.
func New[T any](opts ...Option[T]) *Pool[T] {
	p := &Pool[T]{
		batchSize: DefaultBatchSize,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.reset()

	return p
}

// SetFactory replaces the factory. A nil factory disables refills.
func (p *Pool[T]) SetFactory(f Factory[T]) {
	p.factory = checkFactory(f)
}

// SetBatchSize sets how many factory calls a refill pass may make.
// Non-positive values are ignored.
func (p *Pool[T]) SetBatchSize(n int) {
	if n <= 0 {
		p.logger.Debug("ignoring non-positive batch size", zap.Int("batch_size", n))
		return
	}

	p.batchSize = n
}

// BatchSize returns the current batch size.
func (p *Pool[T]) BatchSize() int {
	return p.batchSize
}

// Allocate returns a free instance with the given tag, refilling the pool
// from the factory when there is none. It returns false when no factory is
// configured or the factory produced nothing for tag.
func (p *Pool[T]) Allocate(tag Tag) (*T, bool) {
	if v, ok := p.take(tag); ok {
		return v, true
	}

	if p.factory == nil {
		return nil, false
	}

	p.refill(tag, p.batchSize)

	return p.take(tag)
}

// Release returns v to the pool. It reports false if v is nil, was never
// handed out by this pool, or has already been released.
func (p *Pool[T]) Release(v *T) bool {
	if v == nil {
		return false
	}

	h, ok := p.index[v]
	if !ok || p.entries[h].state != stateInUse {
		p.logger.Debug("release rejected", zap.Bool("known", ok))
		return false
	}

	e := &p.entries[h]
	e.state = stateFree
	p.freeList(e.tag).pushBack(h)
	p.ninuse--
	p.nfree++

	return true
}

// Prime runs one refill pass of at most n factory calls for tag without
// allocating anything. It returns the number of instances created.
func (p *Pool[T]) Prime(tag Tag, n int) int {
	if p.factory == nil || n <= 0 {
		return 0
	}

	return p.refill(tag, n)
}

// Clear destroys every instance the pool knows about, free or in use, and
// unsets the factory. Pointers still held by callers must not be used
// afterwards. Errors returned by the destroyer are combined; the pool is
// emptied regardless.
func (p *Pool[T]) Clear() error {
	destroyer := p.destroyer
	if destroyer == nil {
		if d, ok := p.factory.(Destroyer[T]); ok {
			destroyer = d
		}
	}

	var err error

	if destroyer != nil {
		for _, st := range []state{stateFree, stateInUse} {
			for _, e := range p.entries {
				if e.state == st {
					err = multierr.Append(err, destroyer.Destroy(e.tag, e.v))
				}
			}
		}
	}

	p.logger.Debug("pool cleared",
		zap.Int("free", p.nfree),
		zap.Int("in_use", p.ninuse),
		zap.Error(err),
	)

	p.reset()
	p.factory = nil

	return err
}

// TagOf returns the tag of an instance that is currently checked out.
func (p *Pool[T]) TagOf(v *T) (Tag, bool) {
	h, ok := p.index[v]
	if !ok || p.entries[h].state != stateInUse {
		return 0, false
	}

	return p.entries[h].tag, true
}

// FreeLen returns the number of free instances with the given tag.
func (p *Pool[T]) FreeLen(tag Tag) int {
	if l, ok := p.free[tag]; ok {
		return l.len()
	}

	return 0
}

// FreeLenTotal returns the number of free instances across all tags.
func (p *Pool[T]) FreeLenTotal() int {
	return p.nfree
}

// InUseLen returns the number of checked out instances.
func (p *Pool[T]) InUseLen() int {
	return p.ninuse
}

// Stats returns a snapshot of the pool. Tags lists every tag created since
// the last Clear, in ascending order.
func (p *Pool[T]) Stats() Stats {
	list := p.tags.List()
	sort.Ints(list)

	tags := make([]Tag, 0, len(list))
	for _, t := range list {
		tags = append(tags, Tag(t))
	}

	return Stats{
		Free:  p.nfree,
		InUse: p.ninuse,
		Tags:  tags,
	}
}

func (p *Pool[T]) take(tag Tag) (*T, bool) {
	l, ok := p.free[tag]
	if !ok {
		return nil, false
	}

	h, ok := l.popFront()
	if !ok {
		return nil, false
	}

	e := &p.entries[h]
	e.state = stateInUse
	p.nfree--
	p.ninuse++

	return e.v, true
}

func (p *Pool[T]) refill(tag Tag, n int) int {
	created := 0

	for i := 0; i < n; i++ {
		v := p.factory.New(tag)
		if v == nil {
			break
		}

		if _, ok := p.index[v]; ok {
			p.logger.Warn("factory returned an instance the pool already tracks", zap.Int("tag", int(tag)))
			break
		}

		h := handle(len(p.entries))
		p.entries = append(p.entries, entry[T]{v: v, tag: tag, state: stateFree})
		p.index[v] = h
		p.freeList(tag).pushFront(h)
		p.nfree++
		created++
	}

	if created > 0 {
		p.tags.Add(int(tag))
	}

	p.logger.Debug("refill pass",
		zap.Int("tag", int(tag)),
		zap.Int("requested", n),
		zap.Int("created", created),
	)

	return created
}

func (p *Pool[T]) freeList(tag Tag) *freeList {
	l, ok := p.free[tag]
	if !ok {
		l = &freeList{}
		p.free[tag] = l
	}

	return l
}

func (p *Pool[T]) reset() {
	p.entries = nil
	p.index = make(map[*T]handle)
	p.free = make(map[Tag]*freeList)
	p.tags = iset.New()
	p.nfree = 0
	p.ninuse = 0
}

package tagpool

import "go.uber.org/zap"

// DefaultBatchSize is the number of factory calls per refill pass used when
// no batch size is configured.
const DefaultBatchSize = 1

// Option configures a Pool.
type Option[T any] func(*Pool[T])

// WithFactory sets the factory used to refill the pool.
func WithFactory[T any](f Factory[T]) Option[T] {
	return func(p *Pool[T]) {
		p.factory = checkFactory(f)
	}
}

// WithFactoryFunc sets a plain function as the factory. A nil fn leaves the
// pool without a factory.
func WithFactoryFunc[T any](fn func(tag Tag) *T) Option[T] {
	return func(p *Pool[T]) {
		if fn == nil {
			p.factory = nil
			return
		}

		p.factory = FactoryFunc[T](fn)
	}
}

// WithBatchSize sets the number of factory calls per refill pass.
// Non-positive values are ignored.
func WithBatchSize[T any](n int) Option[T] {
	return func(p *Pool[T]) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithDestroyFunc sets the hook Clear runs on every owned instance. It takes
// precedence over a factory that implements Destroyer.
func WithDestroyFunc[T any](fn func(tag Tag, v *T) error) Option[T] {
	return func(p *Pool[T]) {
		if fn == nil {
			p.destroyer = nil
			return
		}

		p.destroyer = DestroyFunc[T](fn)
	}
}

// WithLogger sets the logger. The pool only logs at debug and warn level.
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(p *Pool[T]) {
		if logger != nil {
			p.logger = logger
		}
	}
}

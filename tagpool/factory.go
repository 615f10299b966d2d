package tagpool

// A Factory creates new instances for a tag. Returning nil signals that no
// more instances can be produced for that tag right now.
type Factory[T any] interface {
	New(tag Tag) *T
}

// FactoryFunc adapts an ordinary function to the Factory interface.
type FactoryFunc[T any] func(tag Tag) *T

// New calls f(tag).
func (f FactoryFunc[T]) New(tag Tag) *T {
	return f(tag)
}

// checkFactory maps a nil FactoryFunc to a nil Factory.
func checkFactory[T any](f Factory[T]) Factory[T] {
	if fn, ok := f.(FactoryFunc[T]); ok && fn == nil {
		return nil
	}

	return f
}

// A Destroyer releases whatever an instance holds. When the configured
// factory also implements Destroyer, Clear uses it for every owned instance.
type Destroyer[T any] interface {
	Destroy(tag Tag, v *T) error
}

// DestroyFunc adapts an ordinary function to the Destroyer interface.
type DestroyFunc[T any] func(tag Tag, v *T) error

// Destroy calls f(tag, v).
func (f DestroyFunc[T]) Destroy(tag Tag, v *T) error {
	return f(tag, v)
}

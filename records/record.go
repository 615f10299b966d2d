package records

import (
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/rdeusser/tagpool/tagpool"
)

// Base holds the fields every record carries.
type Base struct {
	A int
	B int
}

// Extension holds the fields only KindExtended records carry.
type Extension struct {
	C int
}

// A Record is either a plain KindBase record or a KindExtended record with a
// non-nil Ext.
type Record struct {
	Kind Kind
	Base
	Ext *Extension
}

// Extended returns the extension of a KindExtended record.
func (r *Record) Extended() (*Extension, bool) {
	if r.Kind != KindExtended || r.Ext == nil {
		return nil, false
	}

	return r.Ext, true
}

func (r *Record) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("kind", r.Kind.String())
	enc.AddInt("a", r.A)
	enc.AddInt("b", r.B)

	if ext, ok := r.Extended(); ok {
		enc.AddInt("c", ext.C)
	}

	return nil
}

// Factory builds records for the pool: KindBase yields {A:1 B:2} and
// KindExtended yields {A:3 B:4 C:5}. Any other tag yields nothing.
type Factory struct {
	// Limit caps the number of records ever created. Zero means no limit.
	Limit int

	created int
}

var (
	_ tagpool.Factory[Record]   = (*Factory)(nil)
	_ tagpool.Destroyer[Record] = (*Factory)(nil)
)

// New creates a record for tag.
func (f *Factory) New(tag tagpool.Tag) *Record {
	if f.Limit > 0 && f.created >= f.Limit {
		return nil
	}

	var r *Record

	switch Kind(tag) {
	case KindBase:
		r = &Record{Kind: KindBase, Base: Base{A: 1, B: 2}}
	case KindExtended:
		r = &Record{Kind: KindExtended, Base: Base{A: 3, B: 4}, Ext: &Extension{C: 5}}
	default:
		return nil
	}

	f.created++

	return r
}

// Destroy zeroes r. It fails if r does not belong to tag.
func (f *Factory) Destroy(tag tagpool.Tag, r *Record) error {
	if r.Kind.Tag() != tag {
		return errors.Errorf("record of kind %s pooled under tag %d", r.Kind, tag)
	}

	*r = Record{}

	return nil
}

// Created returns the number of records created so far.
func (f *Factory) Created() int {
	return f.created
}

// NewPool returns a pool that creates records with f.
func NewPool(f *Factory, opts ...tagpool.Option[Record]) *tagpool.Pool[Record] {
	return tagpool.New(append([]tagpool.Option[Record]{tagpool.WithFactory[Record](f)}, opts...)...)
}

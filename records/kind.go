package records

import "github.com/rdeusser/tagpool/tagpool"

//go:generate go run ../tools/gen-tag -type Kind

// Kind is the pool tag of a Record.
type Kind int

const (
	KindBase     Kind = iota + 1 // name=base
	KindExtended                 // name=extended
)

// Tag converts k into a pool tag.
func (k Kind) Tag() tagpool.Tag {
	return tagpool.Tag(k)
}

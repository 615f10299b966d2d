package paint

import "github.com/rdeusser/tagpool/tagpool"

type Color int

const (
	ColorRed  Color = iota + 1 // name=red
	ColorDeep                  // name="deep blue"
	ColorPlain_Green
)

func (c Color) Tag() tagpool.Tag {
	return tagpool.Tag(c)
}

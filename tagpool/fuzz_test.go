package tagpool

import (
	"testing"

	gofuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type op struct {
	Kind  uint8
	Tag   uint8
	Index uint8
	Batch int8
}

// checkInvariants verifies that the free lists and the in-use state describe
// disjoint sets of handles and that the counters agree with them.
func checkInvariants(t *testing.T, p *Pool[widget]) {
	t.Helper()

	seen := make(map[handle]bool)
	free := 0

	for tag, l := range p.free {
		for _, hs := range [][]handle{l.fresh, l.returned} {
			for _, h := range hs {
				require.False(t, seen[h], "handle %d listed twice", h)
				seen[h] = true

				e := p.entries[h]
				require.Equal(t, stateFree, e.state)
				require.Equal(t, tag, e.tag)
				free++
			}
		}
	}

	inUse := 0
	for h, e := range p.entries {
		if e.state == stateInUse {
			require.False(t, seen[handle(h)], "handle %d both free and in use", h)
			inUse++
		}

		got, ok := p.index[e.v]
		require.True(t, ok)
		require.Equal(t, handle(h), got)
	}

	require.Equal(t, len(p.entries), len(p.index))
	require.Equal(t, free, p.nfree)
	require.Equal(t, inUse, p.ninuse)
	require.Equal(t, len(p.entries), free+inUse)
}

func TestFuzzOperations(t *testing.T) {
	f := gofuzz.NewWithSeed(42).NilChance(0).NumElements(100, 400)

	for round := 0; round < 50; round++ {
		var ops []op
		f.Fuzz(&ops)

		factory := &countingFactory{limit: 64}
		p := New(WithFactory[widget](factory), WithBatchSize[widget](3))

		var held []*widget

		for _, o := range ops {
			tag := Tag(o.Tag % 4)

			switch o.Kind % 5 {
			case 0, 1:
				calls := factory.calls
				w, ok := p.Allocate(tag)
				assert.LessOrEqual(t, factory.calls-calls, p.BatchSize())
				if ok {
					assert.Equal(t, tag, w.tag)
					held = append(held, w)
				}
			case 2:
				if len(held) == 0 {
					assert.False(t, p.Release(&widget{}))
					continue
				}
				i := int(o.Index) % len(held)
				assert.True(t, p.Release(held[i]))
				assert.False(t, p.Release(held[i]))
				held = append(held[:i], held[i+1:]...)
			case 3:
				p.SetBatchSize(int(o.Batch) % 6)
			case 4:
				p.Prime(tag, int(o.Index)%4)
			}

			checkInvariants(t, p)
			assert.Equal(t, len(held), p.InUseLen())
		}

		require.NoError(t, p.Clear())
		assert.Len(t, factory.destroyed, factory.calls)
	}
}

func TestFuzzNoFactoryNeverMutates(t *testing.T) {
	f := gofuzz.NewWithSeed(7)
	p := New[widget]()

	for i := 0; i < 200; i++ {
		var tag int
		f.Fuzz(&tag)

		_, ok := p.Allocate(Tag(tag))
		assert.False(t, ok)
		assert.Empty(t, p.free)
		assert.Empty(t, p.entries)
	}
}

package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zapcore"

	"github.com/rdeusser/tagpool/tagpool"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReuseScenario(t *testing.T) {
	f := &Factory{}
	p := NewPool(f)

	a, ok := p.Allocate(KindBase.Tag())
	require.True(t, ok)
	assert.Equal(t, Base{A: 1, B: 2}, a.Base)
	_, ok = a.Extended()
	assert.False(t, ok)

	b, ok := p.Allocate(KindExtended.Tag())
	require.True(t, ok)
	assert.Equal(t, Base{A: 3, B: 4}, b.Base)
	ext, ok := b.Extended()
	require.True(t, ok)
	assert.Equal(t, 5, ext.C)

	assert.True(t, p.Release(a))
	assert.True(t, p.Release(b))

	c, ok := p.Allocate(KindBase.Tag())
	require.True(t, ok)
	assert.Same(t, a, c)
	assert.Equal(t, Base{A: 1, B: 2}, c.Base)

	d, ok := p.Allocate(KindExtended.Tag())
	require.True(t, ok)
	assert.Same(t, b, d)
	ext, ok = d.Extended()
	require.True(t, ok)
	assert.Equal(t, 5, ext.C)

	assert.Equal(t, 2, f.Created())
}

func TestFactory(t *testing.T) {
	testCases := []struct {
		testName string
		tag      tagpool.Tag
		want     *Record
	}{
		{"base", 1, &Record{Kind: KindBase, Base: Base{A: 1, B: 2}}},
		{"extended", 2, &Record{Kind: KindExtended, Base: Base{A: 3, B: 4}, Ext: &Extension{C: 5}}},
		{"unknown", 3, nil},
		{"zero", 0, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			f := &Factory{}
			assert.Equal(t, tc.want, f.New(tc.tag))
		})
	}
}

func TestFactoryLimit(t *testing.T) {
	f := &Factory{Limit: 2}
	p := NewPool(f, tagpool.WithBatchSize[Record](5))

	_, ok := p.Allocate(KindBase.Tag())
	require.True(t, ok)
	assert.Equal(t, 2, f.Created())

	_, ok = p.Allocate(KindExtended.Tag())
	assert.False(t, ok)
}

func TestClearDestroysRecords(t *testing.T) {
	f := &Factory{}
	p := NewPool(f)

	a, ok := p.Allocate(KindBase.Tag())
	require.True(t, ok)
	b, ok := p.Allocate(KindExtended.Tag())
	require.True(t, ok)
	require.True(t, p.Release(b))

	require.NoError(t, p.Clear())
	assert.Equal(t, Record{}, *a)
	assert.Equal(t, Record{}, *b)

	_, ok = p.Allocate(KindBase.Tag())
	assert.False(t, ok)
}

func TestDestroyRejectsMismatchedTag(t *testing.T) {
	f := &Factory{}
	r := f.New(KindBase.Tag())

	err := f.Destroy(KindExtended.Tag(), r)
	assert.EqualError(t, err, "record of kind base pooled under tag 2")
	assert.Equal(t, 1, r.A)
}

func TestKind(t *testing.T) {
	testCases := []struct {
		testName string
		s        string
		want     Kind
		wantErr  error
	}{
		{"base", "base", KindBase, nil},
		{"extended", "extended", KindExtended, nil},
		{"unknown", "derived", 0, ErrInvalidKind},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			got, err := ParseKind(tc.s)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantErr == nil, IsKind(tc.s))
		})
	}

	assert.Equal(t, []Kind{KindBase, KindExtended}, KindList())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestMarshalLogObject(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	r := (&Factory{}).New(KindExtended.Tag())

	require.NoError(t, r.MarshalLogObject(enc))
	assert.Equal(t, map[string]interface{}{
		"kind": "extended",
		"a":    3,
		"b":    4,
		"c":    5,
	}, enc.Fields)
}

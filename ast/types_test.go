package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBounds(t *testing.T) {
	tests := []struct {
		name        string
		lower       int64
		upper       *int64
		expectError bool
		rendered    string
	}{
		{"closed", 0, ptr[int64](10), false, "nat [0, 10]"},
		{"single point", 3, ptr[int64](3), false, "nat [3, 3]"},
		{"unbounded", 0, nil, false, "nat [0, inf]"},
		{"unbounded from 3", 3, nil, false, "nat [3, inf]"},
		{"empty", 5, ptr[int64](3), true, ""},
		{"negative lower", -1, nil, true, ""},
		{"negative upper", 0, ptr[int64](-2), true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := NewNatType(tt.lower, tt.upper)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrMalformedNode)
				var merr *MalformedNodeError
				require.ErrorAs(t, err, &merr)
				assert.Equal(t, "Bounds", merr.Node)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rendered, typ.String())
			assert.Equal(t, tt.upper == nil, typ.Bounds.Unbounded())
		})
	}
}

func TestBoundsAreCopied(t *testing.T) {
	upper := int64(10)
	b, err := NewBounds(1, &upper)
	require.NoError(t, err)
	upper = 20
	assert.Equal(t, int64(10), *b.Upper)
	assert.True(t, b.Contains(10))
	assert.False(t, b.Contains(11))
	assert.False(t, b.Contains(0))
}

func TestTypeEquality(t *testing.T) {
	a := must(NewNatType(0, ptr[int64](10)))
	b := must(NewNatType(0, ptr[int64](10)))
	c := must(NewNatType(0, nil))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(&NatType{}), "[0, inf] is spelled differently from an unbounded nat")
	assert.True(t, (&BoolType{}).Equal(&BoolType{}))
	assert.False(t, (&BoolType{}).Equal(&RealType{}))
	assert.Equal(t, "nat", (&NatType{}).String())
	assert.Equal(t, "real", (&RealType{}).String())
}

package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"wood", Quantity{Kind: Wood, Count: 1}},
		{"2 stone", Quantity{Kind: Stone, Count: 2}},
		{"papyrus:3", Quantity{Kind: Papyrus, Count: 3}},
		{" 1 coin ", Quantity{Kind: Gold, Count: 1}},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseQuantity("3 marble")
	assert.Error(t, err)
	_, err = ParseQuantity("")
	assert.Error(t, err)
}

func TestKindClasses(t *testing.T) {
	for _, k := range RawKinds() {
		assert.True(t, k.IsRaw(), k)
		assert.Equal(t, ClassRaw, k.Class())
	}
	for _, k := range ManufacturedKinds() {
		assert.True(t, k.IsManufactured(), k)
		assert.Equal(t, ClassManufactured, k.Class())
	}
	assert.False(t, Gold.IsRaw())
	assert.False(t, Gold.IsManufactured())
	assert.Len(t, TradeableKinds(), 7)
}

func TestBundle_CoversAndMerge(t *testing.T) {
	have := NewBundle(Quantity{Kind: Wood, Count: 2}, Quantity{Kind: Clay, Count: 1})

	assert.True(t, have.Covers(Bundle{Wood: 2}))
	assert.False(t, have.Covers(Bundle{Wood: 3}))
	assert.True(t, have.Covers(Bundle{}))

	merged := Merge([]Quantity{{Kind: Ore, Count: 1}, {Kind: Ore, Count: 2}, {Kind: Wood, Count: 0}})
	assert.Equal(t, []Quantity{{Kind: Ore, Count: 3}}, merged)
}

func TestBundle_Missing(t *testing.T) {
	have := Bundle{Wood: 1, Ore: 2}

	missing := have.Missing(Bundle{Wood: 3, Ore: 1, Glass: 1})

	assert.Equal(t, Bundle{Wood: 2, Glass: 1}, missing)
	assert.Empty(t, have.Missing(Bundle{Ore: 2}))
}

func TestQuantity_TextRoundTrip(t *testing.T) {
	for _, q := range []Quantity{{Kind: Wood, Count: 1}, {Kind: Papyrus, Count: 3}} {
		text, err := q.MarshalText()
		require.NoError(t, err)

		var back Quantity
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, q, back)
	}
}

package eqtb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/open-cli-collective/texml/pkg/symbol"
)

func TestDimension_String(t *testing.T) {
	tests := []struct {
		d        Dimension
		expected string
	}{
		{Points(1), "1.0pt"},
		{Dimension(32768), "0.5pt"},
		{Points(-3), "-3.0pt"},
		{Dimension(1), "0.00002pt"},
		{0, "0.0pt"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.d.String())
		})
	}
}

func TestGlueSpec_String(t *testing.T) {
	assert.Equal(t, "3.0pt", GlueSpec{Width: Points(3)}.String())
	assert.Equal(t, "0.0pt plus 1.0fill minus 2.0pt",
		GlueSpec{Stretch: Points(1), StretchOrder: Fill, Shrink: Points(2)}.String())
}

func TestTokenize(t *testing.T) {
	tbl := symbol.NewTable()
	tl := Tokenize(`\foo{a}\&`, tbl)

	assert.Len(t, tl, 5)
	assert.True(t, tl[0].IsCS())
	assert.Equal(t, "foo", tbl.ByID(tl[0].SymbolID()).String())
	assert.Equal(t, CatBeginGroup, tl[1].Cat())
	assert.Equal(t, 'a', tl[2].Char())
	assert.Equal(t, CatLetter, tl[2].Cat())
	assert.Equal(t, "&", tbl.ByID(tl[4].SymbolID()).String())
	assert.Equal(t, `\foo {a}\&`, tl.Format(tbl))
}

func TestMacroTable_ReusesFreedHandles(t *testing.T) {
	m := NewMacroTable()
	a := m.New(nil)
	m.Incr(a)
	b := m.New(nil)
	m.Discard(b)
	assert.False(t, m.Live(b))

	c := m.New(nil)
	assert.Equal(t, b, c)

	m.Decr(a)
	assert.False(t, m.Live(a))
	assert.Equal(t, 1, m.Count())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("count")
	assert.NoError(t, err)
	assert.Equal(t, Int, c)

	_, err = ParseCategory("nope")
	assert.Error(t, err)
}

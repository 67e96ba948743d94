package eqtb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDimension(t *testing.T) {
	tests := []struct {
		input    string
		expected Dimension
	}{
		{"12pt", Points(12)},
		{"-1.5pt", Dimension(-98304)},
		{"0.5pt", Dimension(32768)},
		{"1in", Dimension(4736287)},
		{"3sp", Dimension(3)},
		{"1pc", Points(12)},
		{"16383.99998pt", Dimension(MaxDimen)},
		{"-1073741823sp", Dimension(-MaxDimen)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDimension(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestParseDimension_Errors(t *testing.T) {
	for _, s := range []string{"", "pt", "12", "12furlongs", "1fil"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseDimension(s)
			assert.Error(t, err)
		})
	}
}

func TestParseDimension_TooLarge(t *testing.T) {
	for _, s := range []string{"16384pt", "40000pt", "-20000pt", "3000000000sp", "1073741824sp", "600cm"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseDimension(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Dimension too large")
		})
	}

	_, err := ParseGlue("1pt plus 20000fil")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dimension too large")

	_, err = ParseGlue("1pt minus 40000pt")
	assert.Error(t, err)
}

func TestParseGlue(t *testing.T) {
	g, err := ParseGlue("10pt plus 2fil minus 1pt")
	require.NoError(t, err)
	assert.Equal(t, GlueSpec{Width: Points(10), Stretch: Points(2), StretchOrder: Fil, Shrink: Points(1)}, g)
	assert.Equal(t, "10.0pt plus 2.0fil minus 1.0pt", g.String())

	g, err = ParseGlue("0pt minus 1filll")
	require.NoError(t, err)
	assert.Equal(t, Filll, g.ShrinkOrder)

	_, err = ParseGlue("1pt plus")
	assert.Error(t, err)
	_, err = ParseGlue("")
	assert.Error(t, err)
}

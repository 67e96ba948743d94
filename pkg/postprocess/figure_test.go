package postprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

func parse(t *testing.T, tbl *symbol.Table, src string) *xmltree.Node {
	t.Helper()
	n, err := xmltree.Parse(strings.NewReader(src), tbl)
	require.NoError(t, err)
	return n
}

func TestFigureOrTable(t *testing.T) {
	tests := []struct {
		name     string
		isFigure bool
		opts     Options
		input    string
		expected string
		warning  string
	}{
		{
			name:     "table inside figure",
			isFigure: true,
			input:    `<figure><p>a</p><table>X</table></figure>`,
			expected: `<figure rend='array'><p><table>X</table></p><unexpected>a</unexpected></figure>`,
			warning:  "Warning: junk in figure at line 3",
		},
		{
			name:     "single image takes attributes but rend",
			isFigure: true,
			input:    `<figure><scaption>Cap</scaption><p><figure file='x.png' rend='inline' width='3cm'/></p></figure>`,
			expected: "<figure file='x.png' width='3cm'><caption>Cap</caption>\n</figure>",
		},
		{
			name:     "alt caption follows caption",
			isFigure: true,
			input:    `<figure><alt_caption>Alt</alt_caption><scaption>Cap</scaption><figure file='y'/></figure>`,
			expected: "<figure file='y'><caption>Cap</caption>\n<alt_caption>Alt</alt_caption>\n</figure>",
		},
		{
			name:     "verbatim lines",
			isFigure: true,
			input:    `<figure><pre>l1</pre><p><pre>l2</pre></p></figure>`,
			expected: `<figure rend='pre'><pre>l1</pre><pre>l2</pre></figure>`,
		},
		{
			name:     "paragraph fallback",
			isFigure: true,
			input:    `<figure><p>A<hfill/>B</p><p> </p></figure>`,
			expected: `<figure><p>A &#xA0;B</p></figure>`,
		},
		{
			name:     "paragraph fallback salvages a lone leftover figure",
			isFigure: true,
			input:    `<figure><p>x<figure file='a'/></p><figure file='b'/></figure>`,
			expected: `<figure><p>x<figure file='a'/></p><figure file='b'/></figure>`,
		},
		{
			name:     "subfigures in table layout",
			isFigure: true,
			input: `<figure><p>` +
				`<subfigure id='s1'><leg>L1</leg><texte><figure file='a'/></texte></subfigure>` +
				`<subfigure><leg>L2</leg><texte>T2</texte></subfigure>` +
				`<subfigure><leg>L3</leg><texte>T3</texte></subfigure>` +
				`</p></figure>`,
			expected: `<figure rend='array'><p><table rend='inline'>` +
				`<row><cell id='s1'><figure file='a'/></cell><cell>T2</cell></row>` +
				`<row><cell>(a) L1</cell><cell>(b) L2</cell></row>` +
				`<row><cell>T3</cell></row>` +
				`<row><cell>(c) L3</cell></row>` +
				`</table></p></figure>`,
		},
		{
			name:     "subfigures in raw layout",
			isFigure: true,
			opts:     Options{RawSubfigures: true},
			input: `<figure><p>` +
				`<subfigure id='s1'><leg>L1</leg><texte><figure file='a'/></texte></subfigure>` +
				`<subfigure><leg>L2</leg><texte><figure file='b' rend='r'/></texte></subfigure>` +
				`</p><p><subfigure><leg>L3</leg></subfigure></p></figure>`,
			expected: "<figure rend='subfigure'>" +
				"<subfigure id='s1' parid='0' file='a'><head>L1</head></subfigure>\n" +
				"<subfigure parid='0' file='b'><head>L2</head></subfigure>\n" +
				"<subfigure parid='1'><head>L3</head></subfigure>\n" +
				"</figure>",
		},
		{
			name:     "raw subfigure text is junk",
			isFigure: true,
			opts:     Options{RawSubfigures: true},
			input:    `<figure><p><subfigure><texte>stray</texte></subfigure></p></figure>`,
			expected: "<figure rend='subfigure'><subfigure parid='0'/>\n<unexpected>stray</unexpected></figure>",
			warning:  "Warning: junk in figure at line 3",
		},
		{
			name:     "lone tabular is flattened into the table",
			input:    `<table><p><table rend='x' id='t1'><row><cell>1</cell></row></table></p></table>`,
			expected: `<table rend='display' id='t1'><row><cell>1</cell></row></table>`,
		},
		{
			name:     "several tabulars get a paragraph each",
			input:    `<table><p><table>1</table></p><p><table>2</table></p></table>`,
			expected: `<table rend='array'><p><table>1</table></p><p><table>2</table></p></table>`,
		},
		{
			name:     "formula is hoisted",
			input:    "<table>\n<p><formula>x</formula></p>\n</table>",
			expected: `<table rend='display'><formula>x</formula></table>`,
		},
		{
			name:     "table junk",
			input:    `<table><formula>x</formula><p>y</p></table>`,
			expected: `<table rend='display'><unexpected><formula>x</formula><p>y</p></unexpected></table>`,
			warning:  "Warning: junk in table at line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := symbol.NewTable()
			sink := diag.New(nil)
			p := New(tbl, sink, tt.opts)
			container := parse(t, tbl, tt.input)

			p.FigureOrTable(container, tt.isFigure, diag.Location{Line: 3})

			assert.Equal(t, tt.expected, xmltree.String(container))
			if tt.warning == "" {
				assert.Zero(t, sink.Len())
			} else {
				assert.Equal(t, []string{tt.warning}, sink.Lines())
				assert.Equal(t, 1, sink.WarningCount())
			}
		})
	}
}

func TestFigureOrTable_SubfiguresPerRow(t *testing.T) {
	tbl := symbol.NewTable()
	p := New(tbl, nil, Options{SubfiguresPerRow: 3})
	container := parse(t, tbl, `<figure><p>`+
		`<subfigure><leg>1</leg><texte>a</texte></subfigure>`+
		`<subfigure><leg>2</leg><texte>b</texte></subfigure>`+
		`<subfigure><leg>3</leg><texte>c</texte></subfigure>`+
		`</p></figure>`)

	p.FigureOrTable(container, true, diag.Location{})

	table := xmltree.First(container, p.Names().Table)
	require.NotNil(t, table)
	assert.Equal(t, 2, table.Len(), "three subfigures fit in one row pair")
	assert.Equal(t, 3, table.Children[0].Len())
}

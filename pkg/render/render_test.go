package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

func parse(t *testing.T, tbl *symbol.Table, src string) *xmltree.Node {
	t.Helper()
	n, err := xmltree.Parse(strings.NewReader(src), tbl)
	require.NoError(t, err)
	return n
}

func TestHTML(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		expected string
	}{
		{"paragraph", "<p>a &amp; b</p>", "<p>a &amp; b</p>"},
		{"emphasis", "<p><hi rend='it'>x</hi><hi rend='bold'>y</hi><hi rend='sc'>z</hi></p>", "<p><em>x</em><strong>y</strong>z</p>"},
		{"image", "<figure file='a.png'/>", `<div><img src="a.png" alt=""></div>`},
		{"container", "<figure rend='array'><caption>C</caption></figure>", "<div><p><em>C</em></p></div>"},
		{"reference", "<ref target='bid0'/>", `<a href="#bid0">bid0</a>`},
		{"link", "<xref url='http://x.org'>site</xref>", `<a href="http://x.org">site</a>`},
		{"ordered list", "<list type='ordered'><item>a</item></list>", "<ol><li>a</li></ol>"},
		{"bibitem", "<bibitem bibkey='k' id='bid0'>Text</bibitem>", "<p>[k] Text</p>"},
		{"unknown", "<document><env>x</env></document>", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := symbol.NewTable()
			assert.Equal(t, tt.expected, HTML(parse(t, tbl, tt.xml), tbl))
		})
	}
}

func TestMarkdown(t *testing.T) {
	tbl := symbol.NewTable()
	n := parse(t, tbl, "<document><head>Title</head><p>Hello <hi rend='bold'>world</hi></p><figure file='a.png'/></document>")

	md, err := Markdown(n, tbl)
	require.NoError(t, err)
	assert.Contains(t, md, "## Title")
	assert.Contains(t, md, "Hello **world**")
	assert.Contains(t, md, "![](a.png)")
}

func TestMarkdown_Empty(t *testing.T) {
	tbl := symbol.NewTable()
	md, err := Markdown(xmltree.NewElement(tbl.Intern("document")), tbl)
	require.NoError(t, err)
	assert.Empty(t, md)
}

package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

func TestComposition(t *testing.T) {
	tbl := symbol.NewTable()
	sink := diag.New(nil)
	p := New(tbl, sink, Options{})
	root := parse(t, tbl, `<div0><module><head>H</head><p>A</p></module></div0>`)

	p.Composition(root, diag.Location{})

	assert.Equal(t, `<div0><p>A</p></div0>`, xmltree.String(root))
	require.Len(t, p.Heads(), 1)
	assert.Equal(t, `<head>H</head>`, xmltree.String(p.Heads()[0]))
	assert.Zero(t, sink.Len())
}

func TestDocument_CompositionReportsLostLabel(t *testing.T) {
	tbl := symbol.NewTable()
	sink := diag.New(nil)
	p := New(tbl, sink, Options{})
	root := parse(t, tbl, `<div0><env name='composition' line='4'>`+
		`<module id='m1'><head>H</head><p>A</p></module>`+
		`<module id='m2'><p>B</p></module>`+
		`</env><ref target='m1'/></div0>`)

	sum := p.Document(root, "")

	assert.Equal(t, `<div0><p>A</p><p>B</p><ref target='m1'/></div0>`, xmltree.String(root))
	assert.Equal(t, 1, sum.Compositions)
	assert.Equal(t, []string{"Removing `module in composition' made the following label disappear: m1 at line 4"}, sink.Lines())
	assert.Equal(t, []RemovedLabel{{What: "module in composition", ID: "m2"}}, p.Labels().Removed())
	assert.False(t, p.Labels().Defined("m2"))
	assert.Len(t, p.Heads(), 1)
}

func TestDocument_InnermostFirst(t *testing.T) {
	tbl := symbol.NewTable()
	sink := diag.New(nil)
	p := New(tbl, sink, Options{})
	root := parse(t, tbl, `<doc><env name='figure' line='7'><env name='center' line='8'>`+
		`<p>x</p><table>T</table></env></env></doc>`)

	sum := p.Document(root, "a.tex")

	assert.Equal(t, `<doc><figure rend='array'><p><table>T</table></p><unexpected>x</unexpected></figure></doc>`,
		xmltree.String(root))
	assert.Equal(t, Summary{Figures: 1, Unwrapped: 1}, sum)
	assert.Equal(t, []string{"Warning: junk in figure at line 7 of file a.tex"}, sink.Lines())
}

func TestDocument_TableEnvironment(t *testing.T) {
	tbl := symbol.NewTable()
	p := New(tbl, nil, Options{})
	root := parse(t, tbl, `<doc><env name='table*' line='2' id='tab1'><scaption>C</scaption>`+
		`<table><row><cell>1</cell></row></table></env></doc>`)

	sum := p.Document(root, "")

	assert.Equal(t, "<doc><table id='tab1' rend='display'><caption>C</caption>\n<row><cell>1</cell></row></table></doc>",
		xmltree.String(root))
	assert.Equal(t, 1, sum.Tables)
}

func TestDocument_Citations(t *testing.T) {
	tbl := symbol.NewTable()
	sink := diag.New(nil)
	p := New(tbl, sink, Options{})
	root := parse(t, tbl, `<doc><p><cite key='knuth' type='year' prenote='p. 5'>note</cite><cite key='lamport'/></p>`+
		`<div><biblio/></div>`+
		`<thebibliography><bibitem bibkey='knuth'/><bibitem bibkey='knuth'/></thebibliography></doc>`)

	sum := p.Document(root, "")

	assert.Equal(t, `<doc><p><cit rend='year' prenote='p. 5'><ref target='bid0'>note</ref></cit><cit><ref target='bid1'/></cit></p>`+
		`<div><thebibliography><bibitem bibkey='knuth' id='bid0'/><bibitem bibkey='knuth'/></thebibliography></div></doc>`,
		xmltree.String(root))
	assert.Equal(t, 2, sum.Citations)
	assert.Equal(t, 1, sum.Solved)
	assert.Equal(t, []string{"Bibliography entry already defined knuth"}, sink.Lines())
	assert.Equal(t, []string{"lamport"}, p.Bibliography().Unsolved())
	assert.Equal(t, []string{"bid1"}, p.Labels().Dangling())
}

func TestCite(t *testing.T) {
	tbl := symbol.NewTable()
	p := New(tbl, nil, Options{})
	note := xmltree.NewElement(p.Names().Temporary, xmltree.NewText("p. "), xmltree.NewText("25"))

	cit := p.Cite("foot", "knuth", note, "author", "see")

	assert.Equal(t, `<cit rend='foot' citetype='author' prenote='see'><ref target='bid0'>p. 25</ref></cit>`, xmltree.String(cit))
	assert.Equal(t, `<ref target='bid0'/>`, xmltree.String(p.CiteRef("foot", "knuth")))
	assert.Equal(t, `<ref target='bid1'/>`, xmltree.String(p.CiteRef("", "knuth")))
}

func TestSolveCitation_KeepsOwnID(t *testing.T) {
	tbl := symbol.NewTable()
	sink := diag.New(nil)
	p := New(tbl, sink, Options{})
	entry := parse(t, tbl, `<bibitem id='uid3'/>`)

	require.True(t, p.SolveCitation(entry, "refer", "knuth", diag.Location{}))
	assert.Equal(t, `<bibitem id='uid3'/>`, xmltree.String(entry))
	assert.Equal(t, `<ref target='uid3'/>`, xmltree.String(p.CiteRef("", "knuth")))

	other := parse(t, tbl, `<bibitem id='uid4'/>`)
	p.CiteRef("", "lamport")
	assert.False(t, p.SolveCitation(other, "", "lamport", diag.Location{Line: 9}))
	assert.Equal(t, []string{"Cannot solve (element has an Id) lamport at line 9"}, sink.Lines())
}

func TestInsertBibliography(t *testing.T) {
	tbl := symbol.NewTable()
	p := New(tbl, nil, Options{})
	doc := parse(t, tbl, `<doc><sec><x/><y/></sec><sec><mark/></sec></doc>`)
	marker := xmltree.First(doc, tbl.Intern("mark"))
	bibliography := xmltree.NewElement(p.Names().Temporary,
		xmltree.NewElement(tbl.Intern("b1")), xmltree.NewElement(tbl.Intern("b2")))

	p.InsertBibliography(doc, bibliography, marker)

	assert.Equal(t, `<doc><sec><x/><y/></sec><sec><mark/><b1/><b2/></sec></doc>`, xmltree.String(doc))

	p.InsertBibliography(doc, xmltree.NewElement(tbl.Intern("b3")), nil)
	assert.Equal(t, `<doc><sec><x/><y/></sec><sec><mark/><b1/><b2/></sec><b3/></doc>`, xmltree.String(doc))
}

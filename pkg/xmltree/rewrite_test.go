package xmltree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/texml/pkg/symbol"
)

func mustParse(t *testing.T, tbl *symbol.Table, src string) *Node {
	t.Helper()
	n, err := Parse(strings.NewReader(src), tbl)
	require.NoError(t, err)
	return n
}

func TestDeleteAll_Idempotent(t *testing.T) {
	tbl := symbol.NewTable()
	src := `<doc><note>x</note><p>a<note>y<note>z</note></note>b</p><note/></doc>`
	once := mustParse(t, tbl, src)
	twice := mustParse(t, tbl, src)

	n := DeleteAll(once, tbl.Intern("note"))
	DeleteAll(twice, tbl.Intern("note"))
	m := DeleteAll(twice, tbl.Intern("note"))

	assert.Equal(t, 3, n, "nested notes go with their parent")
	assert.Zero(t, m)
	assert.Equal(t, String(once), String(twice))
	assert.Equal(t, "<doc><p>ab</p></doc>", String(once))
}

func TestExpandAll_Composition(t *testing.T) {
	tbl := symbol.NewTable()
	root := mustParse(t, tbl, `<div0><module><head>H</head><p>A</p></module></div0>`)

	var seen []*Node
	heads := ExpandAll(root, tbl.Intern("module"), tbl.Intern("head"), func(m *Node) { seen = append(seen, m) })

	assert.Equal(t, "<div0><p>A</p></div0>", String(root))
	require.Len(t, heads, 1)
	assert.Equal(t, "<head>H</head>", String(heads[0]))
	require.Len(t, seen, 1)
	assert.Zero(t, seen[0].Len(), "expanded module keeps nothing")
}

func TestExpandAll_SplicedChildrenAreVisited(t *testing.T) {
	tbl := symbol.NewTable()
	root := mustParse(t, tbl, `<c>0<module>1<module>2</module>3</module>4</c>`)

	ExpandAll(root, tbl.Intern("module"), tbl.Intern("head"), nil)

	assert.Equal(t, "<c>01234</c>", String(root))
}

func TestApplyAll_Actions(t *testing.T) {
	tbl := symbol.NewTable()
	p := tbl.Intern("p")

	t.Run("count includes nested", func(t *testing.T) {
		root := mustParse(t, tbl, `<r><p><p/></p><q><p/></q></r>`)
		assert.Equal(t, 3, Count(root, p))
	})

	t.Run("remove empty keeps content", func(t *testing.T) {
		root := mustParse(t, tbl, "<r><p> </p><p>x</p><p/><p>\n<b/></p></r>")
		assert.Equal(t, 2, RemoveEmpty(root, p))
		assert.Equal(t, "<r><p>x</p><p>\n<b/></p></r>", String(root))
	})

	t.Run("rename descends", func(t *testing.T) {
		root := mustParse(t, tbl, `<r><leg><leg/></leg></r>`)
		assert.Equal(t, 2, RenameAll(root, tbl.Intern("leg"), tbl.Intern("head")))
		assert.Equal(t, "<r><head><head/></head></r>", String(root))
	})

	t.Run("substitute copies replacement and skips it", func(t *testing.T) {
		root := mustParse(t, tbl, `<r><hfill/>a<hfill/></r>`)
		repl := NewElement(tbl.Intern("hfill"))
		assert.Equal(t, 2, SubstituteAll(root, tbl.Intern("hfill"), repl))
		assert.Equal(t, "<r><hfill/>a<hfill/></r>", String(root))
		assert.False(t, root.Children[0] == root.Children[2], "each match gets its own copy")
	})

	t.Run("move in document order", func(t *testing.T) {
		root := mustParse(t, tbl, `<r><pre>1</pre><p><pre>2<pre>3</pre></pre></p></r>`)
		target := NewElement(tbl.Intern("out"))
		assert.Equal(t, 2, MoveAll(root, tbl.Intern("pre"), target))
		assert.Equal(t, "<r><p/></r>", String(root))
		assert.Equal(t, "<out><pre>1</pre><pre>2<pre>3</pre></pre></out>", String(target))
	})

	t.Run("text never matches", func(t *testing.T) {
		root := NewElement(tbl.Intern("r"), NewText("p"))
		assert.Zero(t, DeleteAll(root, p))
		assert.Equal(t, 1, root.Len())
	})
}

func TestApplyFirst(t *testing.T) {
	tbl := symbol.NewTable()
	fig := tbl.Intern("figure")
	root := mustParse(t, tbl, `<r><p><figure n="1"/></p><figure n="2"/></r>`)

	assert.True(t, Contains(root, fig))
	assert.False(t, Contains(root, tbl.Intern("table")))

	first := First(root, fig)
	require.NotNil(t, first)
	v, _ := first.Attr(tbl.Intern("n"))
	assert.Equal(t, "1", v, "pre-order finds the nested one first")

	taken := TakeFirst(root, fig)
	assert.True(t, taken == first)
	assert.Equal(t, `<r><p/><figure n='2'/></r>`, String(root))
	assert.Nil(t, TakeFirst(root, tbl.Intern("nothing")))
}

func TestApplyAll_DeepTreeDoesNotRecurse(t *testing.T) {
	tbl := symbol.NewTable()
	p := tbl.Intern("p")
	root := NewElement(p)
	cur := root
	for i := 0; i < 100000; i++ {
		next := NewElement(p)
		cur.Append(next)
		cur = next
	}

	assert.Equal(t, 100000, Count(root, p))
	assert.Equal(t, 1, DeleteAll(root, p))
	assert.Zero(t, root.Len())
}

// Package mdskel reads markdown into the raw document skeleton that the
// postprocessor works on.
//
// Plain markdown maps onto skeleton elements (<p>, <head>, <list>, <pre>,
// <table> rows and cells, images as <figure file=".."/>). Environments are
// written as fenced divs on a paragraph of their own:
//
//	::: figure {#fig1}
//	![](a.png)
//
//	Caption: A picture.
//	:::
//
// A bare ":::" closes the innermost environment, "::: /name" closes it by
// name. Group nesting goes through an eqtb.Engine so that unbalanced fences
// are reported the same way unbalanced \begin/\end are.
package mdskel

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/eqtb"
	"github.com/open-cli-collective/texml/pkg/postprocess"
	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// skelParser is a goldmark parser configured for skeleton building.
var skelParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
	),
)

var (
	fenceRe  = regexp.MustCompile(`^:::[ \t]*(/?)([A-Za-z][A-Za-z*]*)?[ \t]*(?:\{#([^}\s]+)\})?[ \t]*$`)
	bibRe    = regexp.MustCompile(`(?s)^\[([^\]]+)\][ \t]*(.*)$`)
	markerRe = regexp.MustCompile(`^\[\[bibliography\]\]$`)
)

// BibliographyMarker is the paragraph text that marks where the
// bibliography goes.
const BibliographyMarker = "[[bibliography]]"

const captionPrefix = "Caption:"

var (
	figureEnvs = map[string]bool{"figure": true, "figure*": true, "wrapfigure": true}
	tableEnvs  = map[string]bool{"table": true, "table*": true}
)

type names struct {
	*postprocess.Names
	Document symbol.Symbol
	List     symbol.Symbol
	Item     symbol.Symbol
	Quote    symbol.Symbol
	Hi       symbol.Symbol
	Xref     symbol.Symbol
	URL      symbol.Symbol
	File     symbol.Symbol
}

// Reader builds skeletons. One reader handles one document.
type Reader struct {
	names  names
	sink   *diag.Sink
	engine *eqtb.Engine

	src   []byte
	file  string
	out   []*xmltree.Node
	envs  []string
	floor int
	line  int
	lines []int
}

// New creates a reader interning names in tbl and reporting to sink.
func New(tbl *symbol.Table, sink *diag.Sink) *Reader {
	if sink == nil {
		sink = diag.New(nil)
	}
	return &Reader{
		names: names{
			Names:    postprocess.NewNames(tbl),
			Document: tbl.Intern("document"),
			List:     tbl.Intern("list"),
			Item:     tbl.Intern("item"),
			Quote:    tbl.Intern("quote"),
			Hi:       tbl.Intern("hi"),
			Xref:     tbl.Intern("xref"),
			URL:      tbl.Intern("url"),
			File:     tbl.Intern("file"),
		},
		sink:   sink,
		engine: eqtb.NewEngine(sink, tbl),
	}
}

// Engine returns the scope engine tracking environment nesting.
func (r *Reader) Engine() *eqtb.Engine { return r.engine }

// Read parses src and returns the skeleton rooted at a <document> element.
// Environments still open at the end are reported and closed.
func (r *Reader) Read(src []byte, file string) *xmltree.Node {
	r.src = src
	r.file = file
	r.engine.SetFile(file)
	r.lines = r.lines[:0]
	for i, c := range src {
		if c == '\n' {
			r.lines = append(r.lines, i)
		}
	}

	root := xmltree.NewElement(r.names.Document)
	r.out = []*xmltree.Node{root}
	r.envs = nil
	r.floor = 0

	doc := skelParser.Parser().Parse(text.NewReader(src))
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c)
	}

	if len(r.envs) > 0 {
		r.engine.SetLine(r.lineAt(len(src)))
		r.engine.FinalUnwind()
		r.envs = nil
	}
	r.out = nil
	return root
}

func (r *Reader) cur() *xmltree.Node { return r.out[len(r.out)-1] }

func (r *Reader) el(name symbol.Symbol, children ...*xmltree.Node) *xmltree.Node {
	return xmltree.NewElement(name, children...)
}

// lineAt returns the 1-based line holding byte offset off.
func (r *Reader) lineAt(off int) int {
	lo, hi := 0, len(r.lines)
	for lo < hi {
		mid := (lo + hi) / 2
		if r.lines[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo + 1
}

func (r *Reader) lineOf(n ast.Node) int {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return r.lineAt(n.Lines().At(0).Start)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if l := r.lineOf(c); l > 0 {
			return l
		}
	}
	return 0
}

func (r *Reader) rawText(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(r.src))
	}
	return strings.TrimSpace(buf.String())
}

func (r *Reader) innerEnv() string {
	if len(r.envs) == 0 {
		return ""
	}
	return r.envs[len(r.envs)-1]
}

// blocks converts the block children of n into the current output element.
// Environments opened inside a container block are closed when it ends.
func (r *Reader) blocks(n ast.Node) {
	mark, floor := len(r.envs), r.floor
	r.floor = mark
	defer func() { r.floor = floor }()
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c)
	}
	for len(r.envs) > mark {
		name := r.innerEnv()
		r.sink.Errorf(diag.Location{Line: r.lineOf(n), File: r.file},
			"Environment '%s' not closed before the end of its block", name)
		r.closeEnv(name)
	}
}

func (r *Reader) block(n ast.Node) {
	nm := r.names
	if l := r.lineOf(n); l > 0 {
		r.line = l
		r.engine.SetLine(l)
	}
	switch node := n.(type) {
	case *ast.Paragraph:
		r.paragraph(node)
	case *ast.TextBlock:
		r.paragraph(node)
	case *ast.Heading:
		h := r.el(nm.Head)
		r.inlines(h, node, false)
		r.cur().Append(h, xmltree.NewText("\n"))
	case *ast.List:
		if r.innerEnv() == "thebibliography" {
			r.bibItems(node)
			return
		}
		l := r.el(nm.List)
		if node.IsOrdered() {
			l.SetAttr(nm.Type, "ordered")
		} else {
			l.SetAttr(nm.Type, "simple")
		}
		r.cur().Append(l)
		r.out = append(r.out, l)
		for it := node.FirstChild(); it != nil; it = it.NextSibling() {
			item := r.el(nm.Item)
			l.Append(item)
			r.out = append(r.out, item)
			r.blocks(it)
			r.out = r.out[:len(r.out)-1]
		}
		r.out = r.out[:len(r.out)-1]
	case *ast.Blockquote:
		q := r.el(nm.Quote)
		r.cur().Append(q)
		r.out = append(r.out, q)
		r.blocks(node)
		r.out = r.out[:len(r.out)-1]
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(r.src))
		}
		r.cur().Append(r.el(nm.Pre, xmltree.NewText(buf.String())), xmltree.NewText("\n"))
	case *extast.Table:
		r.table(node)
	case *ast.HTMLBlock:
		r.sink.Warnf(r.loc(n), "Ignoring raw HTML block")
	case *ast.ThematicBreak:
	default:
		r.sink.Warnf(r.loc(n), "Ignoring markdown block %s", n.Kind())
	}
}

func (r *Reader) loc(n ast.Node) diag.Location {
	return diag.Location{Line: r.lineOf(n), File: r.file}
}

func (r *Reader) paragraph(n ast.Node) {
	nm := r.names
	raw := r.rawText(n)
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		if m[1] == "" && m[2] != "" {
			r.openEnv(m[2], m[3], r.lineOf(n))
		} else {
			r.closeEnv(m[2])
		}
		return
	}
	if markerRe.MatchString(raw) {
		r.cur().Append(r.el(nm.P, r.el(nm.BibMarker)), xmltree.NewText("\n"))
		return
	}

	env := r.innerEnv()
	name := nm.P
	caption := false
	if (figureEnvs[env] || tableEnvs[env]) && strings.HasPrefix(raw, captionPrefix) {
		name = nm.SCaption
		caption = true
	}
	p := r.el(name)
	r.inlines(p, n, figureEnvs[env] && countImages(n) > 1)
	if caption && len(p.Children) > 0 && p.Children[0].Kind == xmltree.TextNode {
		first := p.Children[0]
		first.Data = strings.TrimLeft(strings.TrimPrefix(first.Data, captionPrefix), " \t")
		if first.Data == "" {
			p.RemoveAt(0)
		}
	}
	r.cur().Append(p, xmltree.NewText("\n"))
}

func countImages(n ast.Node) int {
	k := 0
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.Image); ok {
			k++
		}
	}
	return k
}

// openEnv starts an environment. Modules and the bibliography are built as
// their own elements, anything else as an <env> wrapper for the
// postprocessor.
func (r *Reader) openEnv(name, id string, line int) {
	nm := r.names
	r.engine.SetLine(line)
	r.engine.BeginEnvironment(name)
	var x *xmltree.Node
	switch name {
	case "module":
		x = r.el(nm.Module)
	case "thebibliography":
		x = r.el(nm.Bibliography)
	default:
		x = r.el(nm.Env)
		x.SetAttr(nm.Name, name)
		x.SetAttr(nm.Line, strconv.Itoa(line))
	}
	if id != "" {
		x.SetAttr(nm.ID, id)
	}
	r.cur().Append(x)
	r.envs = append(r.envs, name)
	r.out = append(r.out, x)
}

// closeEnv ends the innermost environment. An empty name closes whatever
// is open. Environments opened outside the current container block cannot
// be closed from inside it.
func (r *Reader) closeEnv(name string) {
	if len(r.envs) > 0 && len(r.envs) <= r.floor {
		r.sink.Errorf(diag.Location{Line: r.line, File: r.file},
			"Cannot close environment '%s' from inside a nested block", r.innerEnv())
		return
	}
	if len(r.envs) == 0 {
		if err := r.engine.EndEnvironment(name); err != nil {
			r.sink.Errorf(diag.Location{Line: r.line, File: r.file}, "%v", err)
		}
		return
	}
	if name == "" {
		name = r.innerEnv()
	}
	if err := r.engine.EndEnvironment(name); err != nil {
		r.sink.Errorf(diag.Location{Line: r.line, File: r.file}, "%v", err)
	}
	r.envs = r.envs[:len(r.envs)-1]
	r.out = r.out[:len(r.out)-1]
	r.cur().Append(xmltree.NewText("\n"))
}

// bibItems turns "[key] text" list items into <bibitem> entries.
func (r *Reader) bibItems(list *ast.List) {
	nm := r.names
	for it := list.FirstChild(); it != nil; it = it.NextSibling() {
		first := it.FirstChild()
		if first == nil {
			continue
		}
		raw := r.rawText(first)
		m := bibRe.FindStringSubmatch(raw)
		if m == nil {
			r.sink.Warnf(r.loc(it), "Bibliography item without key")
			continue
		}
		item := r.el(nm.Bibitem)
		item.SetAttr(nm.BibKey, m[1])
		item.SetAttr(nm.Line, strconv.Itoa(r.lineOf(it)))
		if m[2] != "" {
			item.Append(xmltree.NewText(m[2]))
		}
		r.cur().Append(item, xmltree.NewText("\n"))
	}
}

func (r *Reader) table(t *extast.Table) {
	nm := r.names
	tab := r.el(nm.Table)
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		xr := r.el(nm.Row)
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			xc := r.el(nm.Cell)
			r.inlines(xc, cell, false)
			xr.Append(xc)
		}
		tab.Append(xr)
	}
	r.cur().Append(r.el(nm.P, tab), xmltree.NewText("\n"))
}

// inlines converts the inline children of n into children of to. With
// subfigures set every image becomes a <subfigure> whose legend is the
// image description.
func (r *Reader) inlines(to *xmltree.Node, n ast.Node, subfigures bool) {
	nm := r.names
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			to.AppendText(string(node.Segment.Value(r.src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				to.AppendText("\n")
			}
		case *ast.String:
			to.AppendText(string(node.Value))
		case *ast.Emphasis:
			hi := r.el(nm.Hi)
			if node.Level >= 2 {
				hi.SetAttr(nm.Rend, "bold")
			} else {
				hi.SetAttr(nm.Rend, "it")
			}
			r.inlines(hi, node, false)
			to.Append(hi)
		case *ast.CodeSpan:
			hi := r.el(nm.Hi)
			hi.SetAttr(nm.Rend, "tt")
			r.inlines(hi, node, false)
			to.Append(hi)
		case *ast.Image:
			img := r.el(nm.Figure)
			img.SetAttr(nm.File, string(node.Destination))
			if !subfigures {
				to.Append(img)
				continue
			}
			sf := r.el(nm.Subfigure)
			if alt := r.plain(node); alt != "" {
				sf.Append(r.el(nm.Leg, xmltree.NewText(alt)))
			}
			sf.Append(r.el(nm.Texte, img))
			to.Append(sf)
		case *ast.Link:
			to.Append(r.link(node))
		case *ast.AutoLink:
			u := string(node.URL(r.src))
			x := r.el(nm.Xref, xmltree.NewText(string(node.Label(r.src))))
			x.SetAttr(nm.URL, u)
			to.Append(x)
		case *ast.RawHTML:
		default:
			r.inlines(to, c, false)
		}
	}
}

// link maps "#id" destinations to references, "cite:key" to citation
// placeholders and anything else to <xref>.
func (r *Reader) link(l *ast.Link) *xmltree.Node {
	nm := r.names
	dest := string(l.Destination)
	switch {
	case strings.HasPrefix(dest, "#") && len(dest) > 1:
		ref := r.el(nm.Ref)
		ref.SetAttr(nm.Target, dest[1:])
		return ref
	case strings.HasPrefix(dest, "cite:"):
		c := r.el(nm.Cite)
		c.SetAttr(nm.Key, strings.TrimPrefix(dest, "cite:"))
		r.inlines(c, l, false)
		return c
	default:
		x := r.el(nm.Xref)
		x.SetAttr(nm.URL, dest)
		r.inlines(x, l, false)
		return x
	}
}

func (r *Reader) plain(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(r.src))
			if node.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(node.Value)
		default:
			sb.WriteString(r.plain(c))
		}
	}
	return sb.String()
}

package postprocess

import (
	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// FigureOrTable normalizes the content of a figure or table container in
// place. Captions move first, then the content is classified; whatever no
// rule claimed is kept in an <unexpected> child and reported as a warning.
func (p *Processor) FigureOrTable(to *xmltree.Node, isFigure bool, loc diag.Location) {
	n := p.names
	tmp := p.el(n.Temporary)
	to.SwapChildren(tmp)

	if c := xmltree.TakeFirst(tmp, n.SCaption); c != nil {
		c.Name = n.Caption
		to.Append(c, newline())
	}
	if c := xmltree.TakeFirst(tmp, n.AltCaption); c != nil {
		to.Append(c, newline())
	}

	if isFigure {
		p.figure(to, tmp)
	} else {
		p.table(to, tmp)
	}

	xmltree.RemoveEmpty(tmp, n.P)
	tmp.UnwrapSingleParagraph(n.P)
	if tmp.IsWhitespace() {
		return
	}
	kind := "table"
	if isFigure {
		kind = "figure"
	}
	p.sink.Warnf(loc, "Warning: junk in %s", kind)
	u := p.el(n.Unexpected)
	to.Append(u)
	tmp.TakeNonEmptyInto(u)
}

// figure classifies from and moves what it recognizes into to. Tests run in
// a fixed priority: table, subfigure, pre, a single figure, then the
// paragraph fallback.
func (p *Processor) figure(to, from *xmltree.Node) {
	n := p.names
	switch {
	case xmltree.Contains(from, n.Table):
		par := p.el(n.P)
		to.Append(par)
		xmltree.MoveAll(from, n.Table, par)
		to.SetAttr(n.Rend, "array")

	case xmltree.Contains(from, n.Subfigure):
		junk := p.el(n.P)
		if p.opts.RawSubfigures {
			p.rawSubfigures(from, to, junk)
		} else {
			p.tableSubfigures(from, to, junk)
		}
		from.TakeNonEmptyInto(junk)
		from.SwapChildren(junk)

	case xmltree.Contains(from, n.Pre):
		xmltree.MoveAll(from, n.Pre, to)
		to.SetAttr(n.Rend, "pre")

	case xmltree.Count(from, n.Figure) == 1:
		x := xmltree.TakeFirst(from, n.Figure)
		to.CopyAttrsExcept(x, n.Rend)
		to.Append(x.Children...)
		x.Children = nil

	default:
		xmltree.RemoveEmpty(from, n.P)
		nbsp := xmltree.NewText(" \u00a0")
		xmltree.SubstituteAll(from, n.HFill, nbsp)
		xmltree.SubstituteAll(from, n.HFil, nbsp)
		xmltree.MoveAll(from, n.P, to)
		if xmltree.Count(from, n.Figure) == 1 {
			from.TakeNonEmptyInto(to)
		}
	}
}

// table handles a table container: several tabulars each get their own
// paragraph, a lone figure, formula or tabular is hoisted.
func (p *Processor) table(to, from *xmltree.Node) {
	n := p.names
	if xmltree.Count(from, n.Table) > 1 {
		holder := p.el(n.Temporary)
		xmltree.MoveAll(from, n.Table, holder)
		for _, tb := range holder.Children {
			to.Append(p.el(n.P, tb))
		}
		to.SetAttr(n.Rend, "array")
		return
	}

	xmltree.RemoveEmpty(from, n.P)
	from.UnwrapSingleParagraph(n.P)
	to.SetAttr(n.Rend, "display")
	c := from.SingleNonEmpty()
	if c == nil {
		return
	}
	switch {
	case c.Is(n.Figure), c.Is(n.Formula):
		to.Append(c)
		from.Children = nil
	case c.Is(n.Table):
		to.Append(c.Children...)
		c.Children = nil
		to.CopyAttrsExcept(c, n.Rend)
		from.Children = nil
		to.Name = n.Table
	}
}

package postprocess

import (
	"fmt"
	"strconv"

	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// tableSubfigures lays out the subfigures of every paragraph of from as an
// inline table: one row of images and one row of lettered captions for each
// group of SubfiguresPerRow subfigures.
func (p *Processor) tableSubfigures(from, to, junk *xmltree.Node) {
	n := p.names
	to.SetAttr(n.Rend, "array")
	ctr := 'a'
	for {
		par := xmltree.TakeFirst(from, n.P)
		if par == nil {
			break
		}
		if res := p.figline(par, &ctr, junk); res != nil {
			to.Append(res)
		}
	}
}

func (p *Processor) figline(from *xmltree.Node, ctr *rune, junk *xmltree.Node) *xmltree.Node {
	n := p.names
	var rows []*xmltree.Node
	images, captions := p.el(n.Row), p.el(n.Row)
	inRow, total := 0, 0
	for {
		sf := xmltree.TakeFirst(from, n.Subfigure)
		if sf == nil {
			break
		}
		if inRow == p.opts.SubfiguresPerRow {
			rows = append(rows, images, captions)
			images, captions = p.el(n.Row), p.el(n.Row)
			inRow = 0
		}
		leg := xmltree.TakeFirst(sf, n.Leg)
		texte := xmltree.TakeFirst(sf, n.Texte)
		sf.TakeNonEmptyInto(junk)
		if texte != nil {
			texte.Name = n.Cell
			texte.Attrs.CopyFrom(sf.Attrs, symbol.Null)
			images.Append(texte)
		}
		if leg != nil {
			leg.Name = n.Cell
			leg.Prepend(xmltree.NewText(fmt.Sprintf("(%c) ", *ctr)))
			captions.Append(leg)
		}
		*ctr++
		inRow++
		total++
	}
	from.TakeNonEmptyInto(junk)
	if total == 0 {
		return nil
	}
	rows = append(rows, images, captions)
	tab := p.el(n.Table, rows...)
	tab.SetAttr(n.Rend, "inline")
	return p.el(n.P, tab)
}

// rawSubfigures keeps each subfigure as an element of to, tagged with the
// index of the paragraph it came from. Its legend becomes its head and it
// takes the attributes of the image inside its text.
func (p *Processor) rawSubfigures(from, to, junk *xmltree.Node) {
	n := p.names
	to.SetAttr(n.Rend, "subfigure")
	for k := 0; ; k++ {
		par := xmltree.TakeFirst(from, n.P)
		if par == nil {
			return
		}
		parID := strconv.Itoa(k)
		for {
			sf := xmltree.TakeFirst(par, n.Subfigure)
			if sf == nil {
				par.TakeNonEmptyInto(junk)
				break
			}
			sf.SetAttr(n.ParID, parID)
			leg := xmltree.TakeFirst(sf, n.Leg)
			texte := xmltree.TakeFirst(sf, n.Texte)
			sf.TakeNonEmptyInto(junk)
			if leg != nil {
				leg.Name = n.Head
				sf.Append(leg)
			}
			if texte != nil {
				if img := xmltree.TakeFirst(texte, n.Figure); img != nil {
					sf.CopyAttrsExcept(img, n.Rend)
				}
				texte.TakeNonEmptyInto(junk)
			}
			to.Append(sf, newline())
		}
	}
}

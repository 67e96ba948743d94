package postprocess

import (
	"strconv"

	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// Summary counts what Document did.
type Summary struct {
	Figures      int
	Tables       int
	Compositions int
	Unwrapped    int
	Citations    int
	Solved       int
}

var (
	figureEnvs = map[string]bool{"figure": true, "figure*": true, "wrapfigure": true}
	tableEnvs  = map[string]bool{"table": true, "table*": true}
)

type envSite struct {
	parent *xmltree.Node
	node   *xmltree.Node
}

// Document postprocesses a whole skeleton. Every <env name=".." line="..">
// wrapper below root is handled innermost first: figure and table
// environments become folded <figure> and <table> containers, compositions
// are expanded, other wrappers are replaced by their content. Ids and
// references are registered first so that removals can be reported.
// <cite key=".."> placeholders become citations, <bibitem bibkey="..">
// entries are matched with them, and a <thebibliography> subtree moves to
// the <biblio/> marker.
func (p *Processor) Document(root *xmltree.Node, file string) Summary {
	var sum Summary
	p.registerLabels(root)
	p.expandCites(root)
	for _, site := range p.envSites(root) {
		env := site.node
		name, _ := env.Attr(p.names.Name)
		loc := diag.Location{File: file}
		if l, ok := env.Attr(p.names.Line); ok {
			loc.Line, _ = strconv.Atoi(l)
		}
		switch {
		case figureEnvs[name]:
			p.toContainer(env, p.names.Figure)
			p.FigureOrTable(env, true, loc)
			sum.Figures++
		case tableEnvs[name]:
			p.toContainer(env, p.names.Table)
			p.FigureOrTable(env, false, loc)
			sum.Tables++
		case name == "composition":
			p.Composition(env, loc)
			p.unwrap(site)
			sum.Compositions++
		default:
			p.unwrap(site)
			sum.Unwrapped++
		}
	}
	sum.Citations = p.bib.Len()
	sum.Solved = p.solveBibitems(root, file)
	p.placeBibliography(root)
	return sum
}

func (p *Processor) toContainer(env *xmltree.Node, name symbol.Symbol) {
	env.Name = name
	env.Attrs.Delete(p.names.Name)
	env.Attrs.Delete(p.names.Line)
}

func (p *Processor) unwrap(site envSite) {
	k := site.parent.IndexOf(site.node)
	if k < 0 {
		return
	}
	site.parent.RemoveAt(k)
	site.parent.InsertAt(k, site.node.Children...)
	site.node.Children = nil
}

// envSites lists env wrappers in post-order, so that an inner wrapper comes
// before the wrapper around it.
func (p *Processor) envSites(root *xmltree.Node) []envSite {
	type frame struct {
		n    *xmltree.Node
		i    int
		site envSite
	}
	var out []envSite
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.i < len(top.n.Children) {
			c := top.n.Children[top.i]
			top.i++
			if c.IsElement() {
				stack = append(stack, frame{n: c, site: envSite{parent: top.n, node: c}})
			}
			continue
		}
		if top.site.node != nil && top.site.node.Is(p.names.Env) {
			out = append(out, top.site)
		}
		stack = stack[:len(stack)-1]
	}
	return out
}

// registerLabels records every id attribute as a defined label and every
// <ref target> as a reference.
func (p *Processor) registerLabels(root *xmltree.Node) {
	work := []*xmltree.Node{root}
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		if id, ok := x.Attr(p.names.ID); ok {
			p.labels.Define(id)
		}
		if x.Is(p.names.Ref) {
			if t, ok := x.Attr(p.names.Target); ok {
				p.labels.Use(t)
			}
		}
		for i := len(x.Children) - 1; i >= 0; i-- {
			if c := x.Children[i]; c.IsElement() {
				work = append(work, c)
			}
		}
	}
}

// solveBibitems matches every <bibitem bibkey=".." from=".."> with its
// citation and returns how many were solved.
func (p *Processor) solveBibitems(root *xmltree.Node, file string) int {
	solved := 0
	work := []*xmltree.Node{root}
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		if x.Is(p.names.Bibitem) {
			if key, ok := x.Attr(p.names.BibKey); ok {
				from, _ := x.Attr(p.names.BibSource)
				line := 0
				if l, ok := x.Attr(p.names.Line); ok {
					line, _ = strconv.Atoi(l)
				}
				if p.SolveCitation(x, from, key, diag.Location{Line: line, File: file}) {
					solved++
				}
			}
		}
		for i := len(x.Children) - 1; i >= 0; i-- {
			if c := x.Children[i]; c.IsElement() {
				work = append(work, c)
			}
		}
	}
	return solved
}

// expandCites replaces every <cite key=".." type=".." citetype=".."
// prenote=".."> placeholder by the citation it stands for. The content of
// the placeholder becomes the note.
func (p *Processor) expandCites(root *xmltree.Node) {
	n := p.names
	work := []*xmltree.Node{root}
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		for i, c := range x.Children {
			if !c.Is(n.Cite) {
				continue
			}
			key, _ := c.Attr(n.Key)
			typ, _ := c.Attr(n.Type)
			xtype, _ := c.Attr(n.CiteType)
			prenote, _ := c.Attr(n.PreNote)
			var note *xmltree.Node
			if c.Len() > 0 {
				note = p.el(n.Temporary, c.Children...)
				c.Children = nil
			}
			x.Children[i] = p.Cite(typ, key, note, xtype, prenote)
		}
		for i := len(x.Children) - 1; i >= 0; i-- {
			if c := x.Children[i]; c.IsElement() && !c.Is(n.Cit) {
				work = append(work, c)
			}
		}
	}
}

// placeBibliography moves the first <thebibliography> next to the <biblio/>
// marker; markers are then dropped. Without a marker the tree is left
// alone.
func (p *Processor) placeBibliography(root *xmltree.Node) {
	n := p.names
	marker := xmltree.First(root, n.BibMarker)
	if marker == nil || !xmltree.Contains(root, n.Bibliography) {
		return
	}
	bibliography := xmltree.TakeFirst(root, n.Bibliography)
	p.InsertBibliography(root, bibliography, marker)
	xmltree.DeleteAll(root, n.BibMarker)
}

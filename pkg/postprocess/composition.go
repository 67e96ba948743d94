package postprocess

import (
	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// Composition expands every <module> below root in place. Module heads are
// not spliced; they go to the head registry. A module carrying an id takes
// its label with it.
func (p *Processor) Composition(root *xmltree.Node, loc diag.Location) {
	n := p.names
	heads := xmltree.ExpandAll(root, n.Module, n.Head, func(m *xmltree.Node) {
		if id, ok := m.Attr(n.ID); ok {
			p.labels.Remove("module in composition", id, loc)
		}
	})
	p.heads = append(p.heads, heads...)
}

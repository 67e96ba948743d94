package postprocess

import (
	"errors"

	"github.com/open-cli-collective/texml/pkg/bib"
	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// normalizeSource maps citation types that share the default bibliography
// onto it.
func normalizeSource(s string) string {
	if s == "year" || s == "refer" {
		return ""
	}
	return s
}

// CiteRef builds <ref target="bidN"/> for (source, key), registering the
// citation on first use.
func (p *Processor) CiteRef(source, key string) *xmltree.Node {
	n, _ := p.bib.FindCitationItem(normalizeSource(source), key, true)
	id := p.bib.ID(n)
	ref := p.el(p.names.Ref)
	ref.SetAttr(p.names.Target, id)
	p.labels.Use(id)
	return ref
}

// Cite builds a full citation: <cit rend=type citetype=.. prenote=..>
// around the reference. note, when given, becomes the content of the
// reference; a <temporary> note is flattened.
func (p *Processor) Cite(citeType, key string, note *xmltree.Node, xtype, prenote string) *xmltree.Node {
	n := p.names
	ref := p.CiteRef(citeType, key)
	if note != nil {
		ref.AppendFlatten(note, n.Temporary)
	}
	cit := p.el(n.Cit, ref)
	if citeType != "" {
		cit.SetAttr(n.Rend, citeType)
	}
	if xtype != "" {
		cit.SetAttr(n.CiteType, xtype)
	}
	if prenote != "" {
		cit.SetAttr(n.PreNote, prenote)
	}
	return cit
}

// SolveCitation makes entry the target of the citation (source, key): the
// entry gets the citation id, or keeps its own id when nothing referred to
// the citation yet. It returns false when the citation cannot be solved.
func (p *Processor) SolveCitation(entry *xmltree.Node, source, key string, loc diag.Location) bool {
	n, _ := p.bib.FindCitationItem(normalizeSource(source), key, true)
	own, _ := entry.Attr(p.names.ID)
	id, err := p.bib.Solve(n, own)
	switch {
	case errors.Is(err, bib.ErrAlreadySolved):
		p.sink.Errorf(loc, "Bibliography entry already defined %s", key)
		return false
	case errors.Is(err, bib.ErrHasID):
		p.sink.Errorf(loc, "Cannot solve (element has an Id) %s", key)
		return false
	case err != nil:
		p.sink.Errorf(loc, "%v", err)
		return false
	}
	entry.SetAttr(p.names.ID, id)
	p.labels.Define(id)
	return true
}

// InsertBibliography appends the bibliography subtree to the element of doc
// whose only child is marker, or to doc itself when marker is nil or not
// found. A <temporary> wrapper around the bibliography is flattened.
func (p *Processor) InsertBibliography(doc, bibliography, marker *xmltree.Node) {
	holder := doc
	if marker != nil {
		if h := findHolder(doc, marker); h != nil {
			holder = h
		}
	}
	holder.AppendFlatten(bibliography, p.names.Temporary)
}

// findHolder returns the first element, checking each node's children
// before descending, whose single child is marker.
func findHolder(root, marker *xmltree.Node) *xmltree.Node {
	work := []*xmltree.Node{root}
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		for _, c := range x.Children {
			if c.IsElement() && len(c.Children) == 1 && c.Children[0] == marker {
				return c
			}
		}
		for i := len(x.Children) - 1; i >= 0; i-- {
			if c := x.Children[i]; c.IsElement() {
				work = append(work, c)
			}
		}
	}
	return nil
}

// Package postprocess turns the raw document skeleton into final XML:
// figure and table folding, subfigure layout, composition expansion,
// citation splicing and label bookkeeping.
package postprocess

import "github.com/open-cli-collective/texml/pkg/symbol"

// Names holds every element and attribute name the passes match on.
type Names struct {
	P            symbol.Symbol
	Table        symbol.Symbol
	Figure       symbol.Symbol
	Subfigure    symbol.Symbol
	Pre          symbol.Symbol
	Formula      symbol.Symbol
	Caption      symbol.Symbol
	SCaption     symbol.Symbol
	AltCaption   symbol.Symbol
	Unexpected   symbol.Symbol
	Temporary    symbol.Symbol
	HFill        symbol.Symbol
	HFil         symbol.Symbol
	Row          symbol.Symbol
	Cell         symbol.Symbol
	Leg          symbol.Symbol
	Texte        symbol.Symbol
	Head         symbol.Symbol
	Module       symbol.Symbol
	Ref          symbol.Symbol
	Cit          symbol.Symbol
	Env          symbol.Symbol
	Bibitem      symbol.Symbol
	Rend         symbol.Symbol
	ID           symbol.Symbol
	Target       symbol.Symbol
	ParID        symbol.Symbol
	Name         symbol.Symbol
	Line         symbol.Symbol
	CiteType     symbol.Symbol
	PreNote      symbol.Symbol
	BibKey       symbol.Symbol
	BibSource    symbol.Symbol
	Bibliography symbol.Symbol
	BibMarker    symbol.Symbol
	Cite         symbol.Symbol
	Key          symbol.Symbol
	Type         symbol.Symbol
}

// NewNames interns the names in tbl.
func NewNames(tbl *symbol.Table) *Names {
	return &Names{
		P:            tbl.Intern("p"),
		Table:        tbl.Intern("table"),
		Figure:       tbl.Intern("figure"),
		Subfigure:    tbl.Intern("subfigure"),
		Pre:          tbl.Intern("pre"),
		Formula:      tbl.Intern("formula"),
		Caption:      tbl.Intern("caption"),
		SCaption:     tbl.Intern("scaption"),
		AltCaption:   tbl.Intern("alt_caption"),
		Unexpected:   tbl.Intern("unexpected"),
		Temporary:    tbl.Intern("temporary"),
		HFill:        tbl.Intern("hfill"),
		HFil:         tbl.Intern("hfil"),
		Row:          tbl.Intern("row"),
		Cell:         tbl.Intern("cell"),
		Leg:          tbl.Intern("leg"),
		Texte:        tbl.Intern("texte"),
		Head:         tbl.Intern("head"),
		Module:       tbl.Intern("module"),
		Ref:          tbl.Intern("ref"),
		Cit:          tbl.Intern("cit"),
		Env:          tbl.Intern("env"),
		Bibitem:      tbl.Intern("bibitem"),
		Rend:         tbl.Intern("rend"),
		ID:           tbl.Intern("id"),
		Target:       tbl.Intern("target"),
		ParID:        tbl.Intern("parid"),
		Name:         tbl.Intern("name"),
		Line:         tbl.Intern("line"),
		CiteType:     tbl.Intern("citetype"),
		PreNote:      tbl.Intern("prenote"),
		BibKey:       tbl.Intern("bibkey"),
		BibSource:    tbl.Intern("from"),
		Bibliography: tbl.Intern("thebibliography"),
		BibMarker:    tbl.Intern("biblio"),
		Cite:         tbl.Intern("cite"),
		Key:          tbl.Intern("key"),
		Type:         tbl.Intern("type"),
	}
}

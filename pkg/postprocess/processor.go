package postprocess

import (
	"github.com/open-cli-collective/texml/pkg/bib"
	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// Options selects layout variants.
type Options struct {
	// RawSubfigures keeps subfigures as elements instead of building a
	// table of images and captions.
	RawSubfigures bool
	// SubfiguresPerRow bounds the width of the table layout. Zero means 2.
	SubfiguresPerRow int
}

// Processor runs the postprocessing passes over one document. It is not safe
// for concurrent use.
type Processor struct {
	symbols *symbol.Table
	names   *Names
	opts    Options
	sink    *diag.Sink
	labels  *Labels
	bib     *bib.Table
	heads   []*xmltree.Node
}

// New creates a processor reporting to sink. A nil sink is replaced by a
// silent one.
func New(tbl *symbol.Table, sink *diag.Sink, opts Options) *Processor {
	if sink == nil {
		sink = diag.New(nil)
	}
	if opts.SubfiguresPerRow <= 0 {
		opts.SubfiguresPerRow = 2
	}
	return &Processor{
		symbols: tbl,
		names:   NewNames(tbl),
		opts:    opts,
		sink:    sink,
		labels:  NewLabels(sink),
		bib:     bib.NewTable(),
	}
}

// Names returns the interned names.
func (p *Processor) Names() *Names { return p.names }

// Labels returns the label registry.
func (p *Processor) Labels() *Labels { return p.labels }

// Bibliography returns the citation table.
func (p *Processor) Bibliography() *bib.Table { return p.bib }

// Heads returns the module heads set aside by composition expansion.
func (p *Processor) Heads() []*xmltree.Node { return p.heads }

func (p *Processor) el(name symbol.Symbol, children ...*xmltree.Node) *xmltree.Node {
	return xmltree.NewElement(name, children...)
}

func newline() *xmltree.Node { return xmltree.NewText("\n") }

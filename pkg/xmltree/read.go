package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/open-cli-collective/texml/pkg/symbol"
)

// Parse reads XML text into a tree, interning names in tbl. Namespace
// prefixes are dropped. The returned node is the document element.
func Parse(r io.Reader, tbl *symbol.Table) (*Node, error) {
	dec := xml.NewDecoder(r)
	var root *Node
	var open []*Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}
		var parent *Node
		if len(open) > 0 {
			parent = open[len(open)-1]
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(tbl.Intern(t.Name.Local))
			for _, a := range t.Attr {
				el.SetAttr(tbl.Intern(a.Name.Local), a.Value)
			}
			if parent != nil {
				parent.Append(el)
			} else if root == nil {
				root = el
			} else {
				return nil, fmt.Errorf("failed to parse XML: more than one document element")
			}
			open = append(open, el)
		case xml.EndElement:
			open = open[:len(open)-1]
		case xml.CharData:
			if parent != nil {
				parent.AppendText(string(t))
			}
		case xml.Comment:
			if parent != nil {
				parent.Append(NewComment(string(t)))
			}
		case xml.ProcInst:
			if parent != nil {
				pi := t.Target
				if len(t.Inst) > 0 {
					pi += " " + string(t.Inst)
				}
				parent.Append(NewPI(pi))
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("failed to parse XML: no document element")
	}
	return root, nil
}

// Package xmltree holds the working document tree, the rewrite engine that
// normalizes it, and the reader and writer that move it in and out of XML
// text.
package xmltree

import (
	"github.com/open-cli-collective/texml/pkg/symbol"
)

// Kind tags a Node.
type Kind uint8

const (
	ElementNode Kind = iota
	TextNode
	CommentNode
	PINode
)

// Node is an element, a text leaf, a comment or a processing instruction.
// Children are owned by their parent: moving a node detaches it first, it is
// never shared between two parents. An element whose name is symbol.Null is
// anonymous; the writer prints its children only.
type Node struct {
	Kind     Kind
	Name     symbol.Symbol
	Data     string
	Attrs    Attrs
	Children []*Node
}

// NewElement creates an element with optional children.
func NewElement(name symbol.Symbol, children ...*Node) *Node {
	n := &Node{Kind: ElementNode, Name: name}
	n.Append(children...)
	return n
}

// NewText creates a text leaf.
func NewText(s string) *Node {
	return &Node{Kind: TextNode, Data: s}
}

// NewComment creates a comment leaf.
func NewComment(s string) *Node {
	return &Node{Kind: CommentNode, Data: s}
}

// NewPI creates a processing instruction leaf.
func NewPI(s string) *Node {
	return &Node{Kind: PINode, Data: s}
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.Kind == ElementNode }

// Is reports whether n is an element named name.
func (n *Node) Is(name symbol.Symbol) bool {
	return n.IsElement() && n.Name == name
}

// Len returns the number of children.
func (n *Node) Len() int { return len(n.Children) }

// Append adds children at the end, skipping nils.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

// AppendText adds text, merging with a trailing text leaf.
func (n *Node) AppendText(s string) {
	if s == "" {
		return
	}
	if k := len(n.Children); k > 0 && n.Children[k-1].Kind == TextNode {
		n.Children[k-1].Data += s
		return
	}
	n.Children = append(n.Children, NewText(s))
}

// AppendFlatten appends c, or c's children when c is an element named
// wrapper.
func (n *Node) AppendFlatten(c *Node, wrapper symbol.Symbol) {
	if c.Is(wrapper) {
		n.Append(c.Children...)
		c.Children = nil
		return
	}
	n.Append(c)
}

// Prepend inserts c as the first child.
func (n *Node) Prepend(c *Node) {
	n.InsertAt(0, c)
}

// InsertAt inserts children before position i.
func (n *Node) InsertAt(i int, children ...*Node) {
	if len(children) == 0 {
		return
	}
	tail := append([]*Node(nil), n.Children[i:]...)
	n.Children = append(append(n.Children[:i], children...), tail...)
}

// RemoveAt detaches and returns the child at position i.
func (n *Node) RemoveAt(i int) *Node {
	c := n.Children[i]
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	return c
}

// IndexOf returns the position of child c, or -1.
func (n *Node) IndexOf(c *Node) int {
	for i, x := range n.Children {
		if x == c {
			return i
		}
	}
	return -1
}

// Attr returns the value of an attribute.
func (n *Node) Attr(name symbol.Symbol) (string, bool) {
	return n.Attrs.Get(name)
}

// SetAttr sets an attribute.
func (n *Node) SetAttr(name symbol.Symbol, value string) {
	n.Attrs.Set(name, value)
}

// CopyAttrsExcept copies every attribute of src except skip onto n.
func (n *Node) CopyAttrsExcept(src *Node, skip symbol.Symbol) {
	n.Attrs.CopyFrom(src.Attrs, skip)
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// IsBlankText reports whether n is a text leaf holding only spaces.
func (n *Node) IsBlankText() bool {
	return n.Kind == TextNode && isBlank(n.Data)
}

// IsWhitespace reports whether every child is a blank text leaf. An element
// with no children is whitespace.
func (n *Node) IsWhitespace() bool {
	for _, c := range n.Children {
		if !c.IsBlankText() {
			return false
		}
	}
	return true
}

// SingleNonEmpty returns the only element child when every other child is
// blank text, or nil.
func (n *Node) SingleNonEmpty() *Node {
	var res *Node
	for _, c := range n.Children {
		if c.IsBlankText() {
			continue
		}
		if c.Kind != ElementNode || res != nil {
			return nil
		}
		res = c
	}
	return res
}

// TakeNonEmptyInto moves every child that is not blank text to dst, in
// order. n keeps no children afterwards.
func (n *Node) TakeNonEmptyInto(dst *Node) {
	for _, c := range n.Children {
		if !c.IsBlankText() {
			dst.Append(c)
		}
	}
	n.Children = nil
}

// SwapChildren exchanges the children of n and other.
func (n *Node) SwapChildren(other *Node) {
	n.Children, other.Children = other.Children, n.Children
}

// UnwrapSingleParagraph replaces the content of n by the children of its
// only element child when that child is named par and the rest is blank.
func (n *Node) UnwrapSingleParagraph(par symbol.Symbol) {
	p := n.SingleNonEmpty()
	if p == nil || !p.Is(par) {
		return
	}
	n.Children = p.Children
	p.Children = nil
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	type pair struct{ src, dst *Node }
	root := &Node{Kind: n.Kind, Name: n.Name, Data: n.Data, Attrs: n.Attrs.clone()}
	work := []pair{{n, root}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		if len(p.src.Children) == 0 {
			continue
		}
		p.dst.Children = make([]*Node, len(p.src.Children))
		for i, c := range p.src.Children {
			d := &Node{Kind: c.Kind, Name: c.Name, Data: c.Data, Attrs: c.Attrs.clone()}
			p.dst.Children[i] = d
			work = append(work, pair{c, d})
		}
	}
	return root
}

// TextContent concatenates every text leaf below n in document order.
func (n *Node) TextContent() string {
	var out []byte
	work := []*Node{n}
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		if x.Kind == TextNode {
			out = append(out, x.Data...)
			continue
		}
		for i := len(x.Children) - 1; i >= 0; i-- {
			work = append(work, x.Children[i])
		}
	}
	return string(out)
}

package xmltree

import (
	"fmt"
	"io"
	"strings"
)

// WriteOptions controls serialization.
type WriteOptions struct {
	// DoubleQuote switches attribute quoting from ' to ".
	DoubleQuote bool
}

// Write serializes n. Empty elements print as <foo/>, anonymous elements
// print only their children, attributes keep insertion order. The output
// for a given tree is always the same.
func Write(w io.Writer, n *Node, opts WriteOptions) error {
	var sb strings.Builder
	writeTo(&sb, n, opts)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

// String serializes n with default options.
func String(n *Node) string {
	var sb strings.Builder
	writeTo(&sb, n, WriteOptions{})
	return sb.String()
}

type writeStep struct {
	n     *Node
	close bool
}

func writeTo(sb *strings.Builder, root *Node, opts WriteOptions) {
	if root == nil {
		return
	}
	quote := byte('\'')
	if opts.DoubleQuote {
		quote = '"'
	}
	work := []writeStep{{n: root}}
	for len(work) > 0 {
		st := work[len(work)-1]
		work = work[:len(work)-1]
		n := st.n
		if st.close {
			sb.WriteString("</")
			sb.WriteString(n.Name.String())
			sb.WriteByte('>')
			continue
		}
		switch n.Kind {
		case TextNode:
			escapeText(sb, n.Data)
			continue
		case CommentNode:
			sb.WriteString("<!--")
			sb.WriteString(n.Data)
			sb.WriteString("-->")
			continue
		case PINode:
			sb.WriteString("<?")
			sb.WriteString(n.Data)
			sb.WriteString("?>")
			continue
		}
		named := !n.Name.IsNull()
		if named {
			sb.WriteByte('<')
			sb.WriteString(n.Name.String())
			for _, a := range n.Attrs {
				sb.WriteByte(' ')
				sb.WriteString(a.Name.String())
				sb.WriteByte('=')
				sb.WriteByte(quote)
				escapeAttr(sb, a.Value, quote)
				sb.WriteByte(quote)
			}
			if len(n.Children) == 0 {
				sb.WriteString("/>")
				continue
			}
			sb.WriteByte('>')
			work = append(work, writeStep{n: n, close: true})
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			work = append(work, writeStep{n: n.Children[i]})
		}
	}
}

func escapeText(sb *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '\u00a0':
			sb.WriteString("&#xA0;")
		default:
			sb.WriteRune(r)
		}
	}
}

func escapeAttr(sb *strings.Builder, s string, quote byte) {
	for _, r := range s {
		switch {
		case r == '&':
			sb.WriteString("&amp;")
		case r == '<':
			sb.WriteString("&lt;")
		case r == rune(quote) && quote == '\'':
			sb.WriteString("&apos;")
		case r == rune(quote):
			sb.WriteString("&quot;")
		default:
			sb.WriteRune(r)
		}
	}
}

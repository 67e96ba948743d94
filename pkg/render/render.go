// Package render previews a postprocessed document as markdown.
//
// The tree is first mapped to plain HTML, which html-to-markdown then turns
// into markdown. The preview is lossy: attributes the HTML mapping has no
// place for are dropped.
package render

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

// blockTags maps skeleton element names to the HTML tag standing in for
// them. Names missing here are rendered as their content.
var blockTags = map[string]string{
	"p":               "p",
	"head":            "h2",
	"pre":             "pre",
	"quote":           "blockquote",
	"item":            "li",
	"table":           "table",
	"row":             "tr",
	"cell":            "td",
	"figure":          "div",
	"subfigure":       "div",
	"caption":         "p",
	"alt_caption":     "p",
	"leg":             "p",
	"thebibliography": "div",
	"bibitem":         "p",
	"unexpected":      "div",
}

var hiTags = map[string]string{
	"it":   "em",
	"bold": "strong",
	"tt":   "code",
}

// Markdown renders n as markdown.
func Markdown(n *xmltree.Node, tbl *symbol.Table) (string, error) {
	md, err := htmltomarkdown.ConvertString(HTML(n, tbl))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// HTML returns the intermediate HTML for n.
func HTML(n *xmltree.Node, tbl *symbol.Table) string {
	h := &htmlWriter{
		file:   tbl.Intern("file"),
		url:    tbl.Intern("url"),
		target: tbl.Intern("target"),
		rend:   tbl.Intern("rend"),
		typ:    tbl.Intern("type"),
		bibkey: tbl.Intern("bibkey"),
	}
	h.node(n)
	return h.sb.String()
}

type htmlWriter struct {
	sb strings.Builder

	file, url, target, rend, typ, bibkey symbol.Symbol
}

func (h *htmlWriter) open(tag string, attrs ...string) {
	h.sb.WriteByte('<')
	h.sb.WriteString(tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		h.sb.WriteByte(' ')
		h.sb.WriteString(attrs[i])
		h.sb.WriteString(`="`)
		h.sb.WriteString(html.EscapeString(attrs[i+1]))
		h.sb.WriteByte('"')
	}
	h.sb.WriteByte('>')
}

func (h *htmlWriter) close(tag string) {
	h.sb.WriteString("</")
	h.sb.WriteString(tag)
	h.sb.WriteByte('>')
}

func (h *htmlWriter) children(n *xmltree.Node) {
	for _, c := range n.Children {
		h.node(c)
	}
}

func (h *htmlWriter) node(n *xmltree.Node) {
	switch n.Kind {
	case xmltree.TextNode:
		h.sb.WriteString(html.EscapeString(n.Data))
		return
	case xmltree.CommentNode, xmltree.PINode:
		return
	}
	name := n.Name.String()
	switch name {
	case "hi":
		rend, _ := n.Attr(h.rend)
		tag, ok := hiTags[rend]
		if !ok {
			h.children(n)
			return
		}
		h.open(tag)
		h.children(n)
		h.close(tag)
		return
	case "xref":
		u, _ := n.Attr(h.url)
		h.open("a", "href", u)
		h.children(n)
		h.close("a")
		return
	case "ref":
		t, _ := n.Attr(h.target)
		h.open("a", "href", "#"+t)
		if n.Len() > 0 {
			h.children(n)
		} else {
			h.sb.WriteString(html.EscapeString(t))
		}
		h.close("a")
		return
	case "list":
		tag := "ul"
		if t, _ := n.Attr(h.typ); t == "ordered" {
			tag = "ol"
		}
		h.open(tag)
		h.children(n)
		h.close(tag)
		return
	case "bibitem":
		h.open("p")
		if k, ok := n.Attr(h.bibkey); ok {
			h.sb.WriteString("[" + html.EscapeString(k) + "] ")
		}
		h.children(n)
		h.close("p")
		return
	case "figure":
		if f, ok := n.Attr(h.file); ok {
			h.open("div")
			h.open("img", "src", f, "alt", "")
			h.children(n)
			h.close("div")
			return
		}
	case "caption", "leg", "alt_caption":
		h.open("p")
		h.open("em")
		h.children(n)
		h.close("em")
		h.close("p")
		return
	}
	tag, ok := blockTags[name]
	if !ok {
		h.children(n)
		return
	}
	h.open(tag)
	h.children(n)
	h.close(tag)
}

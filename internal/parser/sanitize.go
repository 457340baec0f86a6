package parser

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedTags is the fixed allow-list of elements that survive sanitization.
// Everything else is flattened to its text content.
var allowedTags = map[atom.Atom]bool{
	atom.A: true, atom.P: true, atom.Br: true, atom.Div: true, atom.Span: true,
	atom.Strong: true, atom.Em: true, atom.B: true, atom.I: true,
	atom.Section: true, atom.Article: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Thead: true, atom.Tbody: true, atom.Tfoot: true,
	atom.Tr: true, atom.Td: true, atom.Th: true,
}

// Attributes written on every surviving anchor.
const (
	linkTarget = "_blank"
	linkRel    = "noopener noreferrer"
)

// SanitizeHTML strips every construct capable of script execution or unsafe
// navigation from input and returns the safe markup. Empty input, or input
// that cannot be parsed, yields "".
func SanitizeHTML(input string) string {
	if input == "" {
		return ""
	}
	nodes, err := sanitizeFragment(input)
	if err != nil {
		return ""
	}
	out, err := render(nodes)
	if err != nil {
		return ""
	}
	return out
}

// sanitizeFragment parses input the way innerHTML on a div does and returns
// a freshly built, safe copy of the resulting nodes.
func sanitizeFragment(input string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	parsed, err := html.ParseFragment(strings.NewReader(input), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var out []*html.Node
	for _, n := range parsed {
		if clean := sanitizeNode(n); clean != nil {
			out = append(out, clean)
		}
	}
	return out, nil
}

// sanitizeNode returns a new node for n, or nil when n is dropped.
func sanitizeNode(n *html.Node) *html.Node {
	switch n.Type {
	case html.TextNode:
		return textNode(n.Data)
	case html.ElementNode:
	default:
		// Comments, doctypes and the like carry nothing visible.
		return nil
	}

	if n.Namespace != "" || !allowedTags[n.DataAtom] {
		return textNode(textContent(n))
	}

	el := &html.Node{Type: html.ElementNode, Data: n.DataAtom.String(), DataAtom: n.DataAtom}
	if n.DataAtom == atom.A {
		href, ok := attr(n, "href")
		if !ok || !ValidateURL(href) {
			return textNode(textContent(n))
		}
		el.Attr = []html.Attribute{
			{Key: "href", Val: href},
			{Key: "target", Val: linkTarget},
			{Key: "rel", Val: linkRel},
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if clean := sanitizeNode(c); clean != nil {
			el.AppendChild(clean)
		}
	}
	return el
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// textContent concatenates every descendant text node of n in document order.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// blockTags end a line in the text rendering of a tree, so URLs in adjacent
// cells or paragraphs are not glued together.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Thead: true, atom.Tbody: true, atom.Tfoot: true,
	atom.Tr: true, atom.Td: true, atom.Th: true,
}

// plainText renders sanitized nodes as text, with a line break after every
// block element.
func plainText(nodes []*html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.DataAtom] {
			sb.WriteByte('\n')
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return sb.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func render(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

package extract

import (
	"strings"

	"golang.org/x/net/html"
)

func parseHTMLTree(data string) (*html.Node, error) {
	return html.Parse(strings.NewReader(data))
}

func htmlAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// walkHTML visits every node depth-first until the visitor returns false.
func walkHTML(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkHTML(c, visit) {
			return false
		}
	}
	return true
}

// findHTMLNodes collects every element matching the predicate.
func findHTMLNodes(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walkHTML(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func findHTMLNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walkHTML(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// htmlText concatenates the text content of a subtree with collapsed
// whitespace.
func htmlText(n *html.Node) string {
	var b strings.Builder
	walkHTML(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteString(" ")
		}
		return true
	})
	return strings.TrimSpace(collapseWhitespace(b.String()))
}

// renderHTML serializes a subtree back to markup.
func renderHTML(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// elementChildren returns the direct element children of a node.
func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

package extract

import (
	"encoding/xml"
	"strings"
)

// xmlNode is a generic element tree used to walk Akoma Ntoso documents
// without committing to a schema. Lookups go by local name only, so
// namespace prefixes never matter.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
}

func parseXMLTree(data string) (*xmlNode, error) {
	var root xmlNode
	if err := xml.Unmarshal([]byte(data), &root); err != nil {
		return nil, err
	}
	return &root, nil
}

func (n *xmlNode) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first direct child with the given local name.
func (n *xmlNode) child(local string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

// descend follows a chain of first-child lookups.
func (n *xmlNode) descend(locals ...string) *xmlNode {
	current := n
	for _, local := range locals {
		current = current.child(local)
		if current == nil {
			return nil
		}
	}
	return current
}

// findAll collects every element with the given local name, depth-first.
func (n *xmlNode) findAll(local string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == local {
			out = append(out, c)
		}
		out = append(out, c.findAll(local)...)
	}
	return out
}

// findFirst returns the first element with the given local name,
// depth-first.
func (n *xmlNode) findFirst(local string) *xmlNode {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == local {
			return c
		}
		if found := c.findFirst(local); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates all character data in the subtree.
func (n *xmlNode) textContent() string {
	var b strings.Builder
	n.writeText(&b)
	return strings.TrimSpace(collapseWhitespace(b.String()))
}

func (n *xmlNode) writeText(b *strings.Builder) {
	b.WriteString(n.Text)
	for i := range n.Children {
		b.WriteString(" ")
		n.Children[i].writeText(b)
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

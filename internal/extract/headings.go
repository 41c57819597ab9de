package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/mkoskenniemi/lakihaku/internal/apperr"
	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

// XMLHeadings builds the heading tree of an Akoma Ntoso body. Structural
// containers (parts, chapters, sections) nest; a container's heading text
// is prefixed with its num designation when present.
func XMLHeadings(xmlData string) ([]domain.Heading, error) {
	root, err := parseXMLTree(xmlData)
	if err != nil {
		return nil, apperr.NewExtractWrap("unparsable statute document", err)
	}
	body := root.findFirst("body")
	if body == nil {
		return nil, nil
	}
	return xmlHeadingTree(body), nil
}

func xmlHeadingTree(n *xmlNode) []domain.Heading {
	var out []domain.Heading
	for i := range n.Children {
		c := &n.Children[i]
		heading := c.child("heading")
		if heading == nil {
			out = append(out, xmlHeadingTree(c)...)
			continue
		}

		name := heading.textContent()
		if num := c.child("num"); num != nil {
			if designation := num.textContent(); designation != "" {
				name = strings.TrimSpace(designation + " " + name)
			}
		}
		out = append(out, domain.Heading{
			Name:     name,
			Children: xmlHeadingTree(c),
		})
	}
	return out
}

// XMLParagraphs extracts the flat non-blank paragraph texts of an Akoma
// Ntoso document.
func XMLParagraphs(xmlData string) ([]string, error) {
	root, err := parseXMLTree(xmlData)
	if err != nil {
		return nil, apperr.NewExtractWrap("unparsable statute document", err)
	}

	var paragraphs []string
	for _, p := range root.findAll("p") {
		if text := p.textContent(); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, nil
}

var htmlHeadingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// HTMLHeadings builds a heading tree from h1–h6 elements, nesting each
// heading under the nearest preceding heading of a lower level.
func HTMLHeadings(fragment string) ([]domain.Heading, error) {
	root, err := parseHTMLTree(fragment)
	if err != nil {
		return nil, apperr.NewExtractWrap("unparsable judgment markup", err)
	}

	type stackEntry struct {
		level   int
		heading *domain.Heading
	}

	var top []domain.Heading
	var stack []stackEntry

	headings := findHTMLNodes(root, func(n *html.Node) bool {
		_, ok := htmlHeadingLevels[n.Data]
		return ok
	})

	for _, node := range headings {
		text := htmlText(node)
		if text == "" {
			continue
		}
		level := htmlHeadingLevels[node.Data]

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}

		h := domain.Heading{Name: text}
		if len(stack) == 0 {
			top = append(top, h)
			stack = append(stack, stackEntry{level, &top[len(top)-1]})
			continue
		}

		parent := stack[len(stack)-1].heading
		parent.Children = append(parent.Children, h)
		stack = append(stack, stackEntry{level, &parent.Children[len(parent.Children)-1]})
	}

	return top, nil
}

// HTMLParagraphs extracts the flat non-blank paragraph texts of a
// rendered fragment.
func HTMLParagraphs(fragment string) ([]string, error) {
	root, err := parseHTMLTree(fragment)
	if err != nil {
		return nil, apperr.NewExtractWrap("unparsable judgment markup", err)
	}

	var paragraphs []string
	for _, p := range findHTMLNodes(root, func(n *html.Node) bool { return n.Data == "p" }) {
		if text := htmlText(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, nil
}

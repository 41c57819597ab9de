package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/mkoskenniemi/lakihaku/internal/apperr"
	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

// legacySectionClass marks the document section on older rendered
// judgment pages.
const legacySectionClass = "akomaNtoso"

// JudgmentContent is everything the judgment pipeline extracts from one
// rendered page.
type JudgmentContent struct {
	Content  string
	Keywords []string
	IsEmpty  bool
}

// ParseJudgmentHTML extracts judgment content from a rendered page.
// Three strategies run in order and the first one that finds anything
// wins: a content section tagged with the target language, the
// script-embedded state payload, and finally any legacy document
// section. Keywords come from the sidebar independently of which
// strategy produced the content.
func ParseJudgmentHTML(pageHTML string, target domain.Language, filterLanguage bool) (*JudgmentContent, error) {
	root, err := parseHTMLTree(pageHTML)
	if err != nil {
		return nil, apperr.NewExtractWrap("unparsable judgment page", err)
	}

	keywords := sidebarKeywords(root, target)

	if section := languageSection(root, target); section != nil {
		return &JudgmentContent{
			Content:  renderHTML(section),
			Keywords: keywords,
			IsEmpty:  htmlText(section) == "",
		}, nil
	}

	if content, empty, found := payloadContent(root, target, filterLanguage); found {
		return &JudgmentContent{
			Content:  content,
			Keywords: keywords,
			IsEmpty:  empty,
		}, nil
	}

	content, empty := legacySectionContent(root)
	return &JudgmentContent{
		Content:  content,
		Keywords: keywords,
		IsEmpty:  empty,
	}, nil
}

// languageSection finds a section explicitly tagged with the target
// language's two-letter code.
func languageSection(root *html.Node, target domain.Language) *html.Node {
	code := target.Short()
	return findHTMLNode(root, func(n *html.Node) bool {
		if n.Data != "section" {
			return false
		}
		langAttr, ok := htmlAttr(n, "lang")
		return ok && strings.EqualFold(langAttr, code)
	})
}

// legacySectionContent falls back to the old page shape. The content
// counts as empty unless at least one paragraph in the section has
// text.
func legacySectionContent(root *html.Node) (string, bool) {
	section := findHTMLNode(root, func(n *html.Node) bool {
		if n.Data != "section" {
			return false
		}
		class, ok := htmlAttr(n, "class")
		return ok && strings.Contains(class, legacySectionClass)
	})
	if section == nil {
		return "", true
	}

	empty := true
	for _, p := range findHTMLNodes(section, func(n *html.Node) bool { return n.Data == "p" }) {
		if htmlText(p) != "" {
			empty = false
			break
		}
	}
	return renderHTML(section), empty
}

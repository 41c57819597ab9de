package extract

import (
	"golang.org/x/net/html"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

// keywordLabels are the sidebar definition-term labels under which the
// keyword list appears, per page language.
var keywordLabels = map[domain.Language]string{
	domain.LanguageFinnish: "Asiasanat",
	domain.LanguageSwedish: "Ämnesord",
}

// sidebarKeywords reads the keyword list next to the judgment content.
// The list lives in the dd paired with the labelled dt, wrapped in a
// div whose children are either divs (one keyword per div) or spans
// (keyword in the first nested span).
func sidebarKeywords(root *html.Node, language domain.Language) []string {
	label := keywordLabels[language]

	dt := findHTMLNode(root, func(n *html.Node) bool {
		return n.Data == "dt" && htmlText(n) == label
	})
	if dt == nil {
		return nil
	}

	dd := nextElementSibling(dt)
	if dd == nil || dd.Data != "dd" {
		return nil
	}

	var wrapper *html.Node
	for _, c := range elementChildren(dd) {
		if c.Data == "div" {
			wrapper = c
			break
		}
	}
	if wrapper == nil {
		return nil
	}

	children := elementChildren(wrapper)

	var keywords []string
	for _, c := range children {
		if c.Data != "div" {
			continue
		}
		if text := htmlText(c); text != "" {
			keywords = append(keywords, text)
		}
	}
	if len(keywords) > 0 {
		return keywords
	}

	for _, c := range children {
		if c.Data != "span" {
			continue
		}
		inner := findHTMLNode(c, func(n *html.Node) bool { return n.Data == "span" && n != c })
		if inner == nil {
			continue
		}
		if text := htmlText(inner); text != "" {
			keywords = append(keywords, text)
		}
	}
	return keywords
}

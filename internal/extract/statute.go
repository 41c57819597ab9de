// Package extract turns fetched raw content into document fields. It
// carries two independent pipelines: structured-document (Akoma Ntoso
// XML) parsing for statutes and rendered-page extraction for judgments.
package extract

import (
	"github.com/mkoskenniemi/lakihaku/internal/apperr"
)

// keywordIDWidth is the trailing fixed-width portion of a classification
// code that becomes the keyword id. Not globally unique; scoped by the
// owning statute.
const keywordIDWidth = 4

// contentAbsentMarker flags a statute body container whose text was
// never published in this language/consolidation.
const contentAbsentMarker = "contentAbsent"

// Keyword is one classification keyword from the statute metadata.
type Keyword struct {
	ID   string
	Name string
}

// StatuteContent is everything the statute pipeline extracts from one
// Akoma Ntoso document.
type StatuteContent struct {
	Title       string
	Images      []string
	Keywords    []Keyword
	CommonNames []string
	IsEmpty     bool
}

// ParseStatuteXML runs the whole statute pipeline over raw XML.
func ParseStatuteXML(xmlData string) (*StatuteContent, error) {
	root, err := parseXMLTree(xmlData)
	if err != nil {
		return nil, apperr.NewExtractWrap("unparsable statute document", err)
	}

	title, err := statuteTitle(root)
	if err != nil {
		return nil, err
	}

	return &StatuteContent{
		Title:       title,
		Images:      imageSources(root),
		Keywords:    classificationKeywords(root),
		CommonNames: commonNames(root),
		IsEmpty:     contentAbsent(root),
	}, nil
}

// statuteTitle reads the docTitle from the act or decree preface.
func statuteTitle(root *xmlNode) (string, error) {
	for _, docType := range []string{"act", "decree"} {
		doc := root.child(docType)
		if doc == nil {
			continue
		}
		preface := doc.child("preface")
		if preface == nil {
			continue
		}
		if docTitle := preface.findFirst("docTitle"); docTitle != nil {
			if title := docTitle.textContent(); title != "" {
				return title, nil
			}
		}
	}
	return "", apperr.NewExtract("docTitle not found")
}

// imageSources collects every image-reference src attribute,
// namespace-agnostic.
func imageSources(root *xmlNode) []string {
	var sources []string
	for _, img := range root.findAll("img") {
		if src, ok := img.attr("src"); ok && src != "" {
			sources = append(sources, src)
		}
	}
	return sources
}

// classificationKeywords reads the classification block's keyword
// element(s). The element may appear singly or as a list; both shapes
// yield the same pairs.
func classificationKeywords(root *xmlNode) []Keyword {
	classification := root.findFirst("classification")
	if classification == nil {
		return nil
	}

	var keywords []Keyword
	for i := range classification.Children {
		node := &classification.Children[i]
		if node.XMLName.Local != "keyword" {
			continue
		}
		value, okValue := node.attr("value")
		showAs, okShow := node.attr("showAs")
		if !okValue || !okShow {
			continue
		}
		keywords = append(keywords, Keyword{
			ID:   trailingID(value),
			Name: showAs,
		})
	}
	return keywords
}

func trailingID(value string) string {
	runes := []rune(value)
	if len(runes) <= keywordIDWidth {
		return value
	}
	return string(runes[len(runes)-keywordIDWidth:])
}

// commonNames collects the text content of every commonName element.
func commonNames(root *xmlNode) []string {
	var names []string
	for _, node := range root.findAll("commonName") {
		if text := node.textContent(); text != "" {
			names = append(names, text)
		}
	}
	return names
}

// contentAbsent reports whether any body container carries the explicit
// content-absent marker. The container may appear singly or as a list;
// one marked container is enough.
func contentAbsent(root *xmlNode) bool {
	body := root.findFirst("body")
	if body == nil {
		return false
	}
	for i := range body.Children {
		node := &body.Children[i]
		if node.XMLName.Local != "hcontainer" {
			continue
		}
		if name, ok := node.attr("name"); ok && name == contentAbsentMarker {
			return true
		}
	}
	return false
}

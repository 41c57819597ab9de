package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/lang"
)

// minFragmentRunes is the shortest fragment worth keeping. Anything
// below this is framework noise or a stray token.
const minFragmentRunes = 4

// highlightableMarker precedes each content fragment inside the
// JSON-escaped state payload embedded in the page's script elements.
const highlightableMarker = `\"highlightableText\":\"`

// frameworkTokens are payload values that belong to the rendering
// framework's element tree rather than the document text.
var frameworkTokens = map[string]struct{}{
	"children":  {},
	"className": {},
	"style":     {},
	"href":      {},
	"target":    {},
	"rel":       {},
	"key":       {},
	"ref":       {},
	"props":     {},
	"div":       {},
	"span":      {},
	"section":   {},
	"p":         {},
}

// identifierPattern matches a single machine-readable token with no
// natural-language content.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_$.:/#-]+$`)

// scriptPayload concatenates the text of every script element on the
// page.
func scriptPayload(root *html.Node) string {
	var b strings.Builder
	for _, s := range findHTMLNodes(root, func(n *html.Node) bool { return n.Data == "script" }) {
		for c := s.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

// highlightableFragments scans the concatenated payload for every
// highlightable-text value and unescapes it. The payload is a JSON
// document embedded as a JSON string, so values end at the first quote
// escape that is not itself escaped.
func highlightableFragments(payload string) []string {
	var fragments []string
	rest := payload
	for {
		start := strings.Index(rest, highlightableMarker)
		if start < 0 {
			return fragments
		}
		rest = rest[start+len(highlightableMarker):]

		end := payloadValueEnd(rest)
		if end < 0 {
			return fragments
		}
		if fragment, ok := unescapeFragment(rest[:end]); ok {
			fragments = append(fragments, fragment)
		}
		rest = rest[end:]
	}
}

// payloadValueEnd returns the offset of the closing quote escape, or -1
// when the value never terminates.
func payloadValueEnd(s string) int {
	for i := 0; i < len(s)-1; {
		if s[i] != '\\' {
			i++
			continue
		}
		switch s[i+1] {
		case '"':
			return i
		case '\\':
			i += 2
		default:
			i++
		}
	}
	return -1
}

func unescapeFragment(raw string) (string, bool) {
	var fragment string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &fragment); err != nil {
		return "", false
	}
	return strings.TrimSpace(fragment), true
}

// keepFragment filters out fragments that are not document prose.
func keepFragment(fragment string) bool {
	if fragment == "" || utf8.RuneCountInString(fragment) < minFragmentRunes {
		return false
	}
	if strings.HasPrefix(fragment, "$") {
		return false
	}
	if _, framework := frameworkTokens[fragment]; framework {
		return false
	}
	if identifierPattern.MatchString(fragment) {
		return false
	}
	return true
}

// payloadContent runs the embedded-payload strategy. It reports found
// when the page carried highlightable fragments at all, even if none
// survived filtering. With filterLanguage set, fragments whose detected
// language differs from the target are dropped, including fragments the
// classifier cannot place.
func payloadContent(root *html.Node, target domain.Language, filterLanguage bool) (content string, empty, found bool) {
	fragments := highlightableFragments(scriptPayload(root))
	if len(fragments) == 0 {
		return "", true, false
	}

	var kept []string
	for _, fragment := range fragments {
		if !keepFragment(fragment) {
			continue
		}
		if filterLanguage && lang.Classify(fragment) != classifierTarget(target) {
			continue
		}
		kept = append(kept, fragment)
	}
	if len(kept) == 0 {
		return "", true, true
	}

	var b strings.Builder
	for _, fragment := range kept {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(fragment))
		b.WriteString("</p>")
	}
	return b.String(), false, true
}

func classifierTarget(target domain.Language) lang.Result {
	if target == domain.LanguageSwedish {
		return lang.Swedish
	}
	return lang.Finnish
}

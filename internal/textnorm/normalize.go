// Package textnorm prepares extracted legal text for indexing. The index
// service does its own tokenization; this pass only strips noise the
// per-locale analyzers keep (punctuation runs, very short tokens,
// high-frequency function words).
package textnorm

import (
	"strings"
	"unicode"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

const minTokenLength = 4

// Normalize lower-cases the input, replaces punctuation with spaces,
// drops tokens shorter than four characters and removes the language's
// stop words. Returns the surviving tokens joined by single spaces.
func Normalize(input string, lang domain.Language) string {
	stopwords := stopwordsFor(lang)

	mapped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, input)

	var kept []string
	for _, word := range strings.Fields(mapped) {
		if len([]rune(word)) < minTokenLength {
			continue
		}
		if _, drop := stopwords[word]; drop {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " ")
}

// NormalizeAll applies Normalize to every string and discards entries
// that normalize to nothing.
func NormalizeAll(input []string, lang domain.Language) []string {
	out := make([]string, 0, len(input))
	for _, s := range input {
		if n := Normalize(s, lang); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func stopwordsFor(lang domain.Language) map[string]struct{} {
	if lang == domain.LanguageSwedish {
		return stopwordsSwedish
	}
	return stopwordsFinnish
}

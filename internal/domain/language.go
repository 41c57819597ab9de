package domain

import "fmt"

// Language is the three-letter content language used across the corpus.
type Language string

const (
	LanguageFinnish Language = "fin"
	LanguageSwedish Language = "swe"
)

var ValidLanguages = []Language{LanguageFinnish, LanguageSwedish}

// Short returns the two-letter code Finlex uses in URL paths and the
// index service expects as a locale hint.
func (l Language) Short() string {
	switch l {
	case LanguageFinnish:
		return "fi"
	case LanguageSwedish:
		return "sv"
	}
	return ""
}

func (l Language) Valid() bool {
	return l == LanguageFinnish || l == LanguageSwedish
}

func ParseLanguage(s string) (Language, error) {
	switch s {
	case "fin", "fi":
		return LanguageFinnish, nil
	case "swe", "sv":
		return LanguageSwedish, nil
	}
	return "", fmt.Errorf("unknown language %q", s)
}

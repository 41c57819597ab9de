package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// CourtLevel distinguishes the two top courts whose judgments are ingested.
type CourtLevel string

const (
	// LevelKHO is the supreme administrative court (KHO / HFD).
	LevelKHO CourtLevel = "kho"
	// LevelKKO is the supreme court (KKO / HD).
	LevelKKO CourtLevel = "kko"
)

var ValidLevels = []CourtLevel{LevelKHO, LevelKKO}

func (l CourtLevel) Valid() bool {
	return l == LevelKHO || l == LevelKKO
}

// Display returns the court abbreviation as it appears in published
// judgment identifiers for the given language.
func (l CourtLevel) Display(lang Language) (string, error) {
	switch {
	case l == LevelKHO && lang == LanguageFinnish:
		return "KHO", nil
	case l == LevelKKO && lang == LanguageFinnish:
		return "KKO", nil
	case l == LevelKHO && lang == LanguageSwedish:
		return "HFD", nil
	case l == LevelKKO && lang == LanguageSwedish:
		return "HD", nil
	}
	return "", fmt.Errorf("unsupported level %q for language %q", l, lang)
}

// ParseCourtDisplay is the inverse of Display.
func ParseCourtDisplay(display string) (CourtLevel, error) {
	switch display {
	case "KHO", "HFD":
		return LevelKHO, nil
	case "KKO", "HD":
		return LevelKKO, nil
	}
	return "", fmt.Errorf("unsupported court abbreviation %q", display)
}

// JudgmentKey identifies one published judgment.
type JudgmentKey struct {
	Year     int
	Number   string
	Language Language
	Level    CourtLevel
}

func (k JudgmentKey) String() string {
	return fmt.Sprintf("%s:%d:%s (%s)", k.Level, k.Year, k.Number, k.Language)
}

// Judgment is a stored court decision. Content is the extracted HTML
// fragment, not the full page.
type Judgment struct {
	UUID     uuid.UUID  `json:"uuid"`
	Level    CourtLevel `json:"level"`
	Number   string     `json:"number"`
	Year     int        `json:"year"`
	Language Language   `json:"language"`
	Content  string     `json:"content,omitempty"`
	IsEmpty  bool       `json:"isEmpty"`
}

// JudgmentKeyword is a sidebar subject keyword. IDs carry a per-ingestion
// sequence number ({level}:{year}:{number}-{seq}) and are not stable
// across ingestion runs; re-ingesting a judgment replaces its keyword
// rows wholesale.
type JudgmentKeyword struct {
	ID           string    `json:"id"`
	Keyword      string    `json:"keyword"`
	JudgmentUUID uuid.UUID `json:"judgmentUuid"`
	Language     Language  `json:"language"`
}

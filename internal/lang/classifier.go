// Package lang holds a deterministic heuristic that labels short text
// fragments as Finnish, Swedish or unknown. It exists to split the mixed
// bilingual content Finlex renders into a single page; it is not a
// general language detector.
package lang

import (
	"regexp"
	"strings"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

// Result of a classification. Unknown means the score was too low or tied.
type Result string

const (
	Finnish Result = "fin"
	Swedish Result = "swe"
	Unknown Result = "unknown"
)

// Language converts a non-unknown result to the domain language.
func (r Result) Language() (domain.Language, bool) {
	switch r {
	case Finnish:
		return domain.LanguageFinnish, true
	case Swedish:
		return domain.LanguageSwedish, true
	}
	return "", false
}

// Curated marker lists: function words, common inflection endings and
// legal vocabulary. Matching is by substring, so entries double as
// suffix/stem markers.
var finnishMarkers = []string{
	"tämä", "joka", "sekä", "että", "laki", "laissa", "koskee",
	"mukaisesti", "pykälä", "momentti", "tuomioistuin", "oikeudenkäynti",
	"viranomai", "säädetään", "asetus", "taikka", "jollei", "kuitenkin",
	"vuoksi", "nojalla",
}

var swedishMarkers = []string{
	"detta", "denna", "och", "som", "för", "att", "med", "eller",
	"gäller", "enligt", "skall", "stadgas", "lagen", "domstol",
	"bestämmelse", "genom", "vilket", "samt", "även", "också",
}

var doubleVowel = regexp.MustCompile(`aa|ee|ii|oo|uu|yy|ää|öö`)

const minTotalScore = 2

// Classify labels text as Finnish, Swedish or unknown. Each marker-list
// hit scores 1 for its language; every 'å' scores 3 for Swedish (the
// letter does not occur in native Finnish words); more than one doubled
// vowel cluster scores 2 for Finnish. Below a combined score of 2, or on
// a tie, the fragment stays unknown.
func Classify(text string) Result {
	lower := strings.ToLower(text)

	var fin, swe int
	for _, marker := range finnishMarkers {
		if strings.Contains(lower, marker) {
			fin++
		}
	}
	for _, marker := range swedishMarkers {
		if strings.Contains(lower, marker) {
			swe++
		}
	}

	swe += 3 * strings.Count(lower, "å")

	if len(doubleVowel.FindAllString(lower, -1)) > 1 {
		fin += 2
	}

	if fin+swe < minTotalScore || fin == swe {
		return Unknown
	}
	if fin > swe {
		return Finnish
	}
	return Swedish
}

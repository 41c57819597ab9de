// Package finlex maps between the open-data source's addressing scheme
// and internal document keys, and lists candidate documents per year.
package finlex

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mkoskenniemi/lakihaku/internal/apperr"
	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

const (
	DefaultAPIBaseURL = "https://opendata.finlex.fi/finlex/avoindata/v1"
	DefaultWebBaseURL = "https://finlex.fi"

	statutePath             = "/akn/fi/act/statute"
	statuteConsolidatedPath = "/akn/fi/act/statute-consolidated"

	// Positions inside an akn statute path:
	// finlex/avoindata/v1/akn/fi/act/statute/{year}/{number}/{language}
	statuteYearSegment     = 7
	statuteNumberSegment   = 8
	statuteLanguageSegment = 9
	minStatuteSegments     = 10
)

// Court path segments per language. The newer API dropped the
// -consolidated path component, so statute callers get both shapes.
var courtSegments = map[string]domain.CourtLevel{
	"korkein-hallinto-oikeus":      domain.LevelKHO,
	"hogsta-forvaltningsdomstolen": domain.LevelKHO,
	"korkein-oikeus":               domain.LevelKKO,
	"hogsta-domstolen":             domain.LevelKKO,
}

// StatuteURIs returns the two URL shapes for one statute edition.
// Callers try primary first and fall back to the second on fetch failure.
func StatuteURIs(base string, key domain.StatuteKey) (primary, fallback string) {
	suffix := fmt.Sprintf("/%d/%s/%s@%s", key.Year, key.Number, key.Language, key.Version)
	return base + statutePath + suffix, base + statuteConsolidatedPath + suffix
}

// ParseStatuteURL decomposes an akn statute URI into its key. The
// consolidation version, if any, is the suffix after '@' on the final
// path segment.
func ParseStatuteURL(raw string) (domain.StatuteKey, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.StatuteKey{}, &apperr.MalformedURLError{URL: raw, Reason: err.Error()}
	}

	basePath, version, _ := strings.Cut(u.Path, "@")
	segments := splitPath(basePath)
	if len(segments) < minStatuteSegments {
		return domain.StatuteKey{}, &apperr.MalformedURLError{URL: raw, Reason: "not enough path segments"}
	}

	year, err := strconv.Atoi(segments[statuteYearSegment])
	if err != nil {
		return domain.StatuteKey{}, &apperr.MalformedURLError{URL: raw, Reason: "year segment is not a number"}
	}

	language, err := domain.ParseLanguage(segments[statuteLanguageSegment])
	if err != nil {
		return domain.StatuteKey{}, &apperr.MalformedURLError{URL: raw, Reason: err.Error()}
	}

	return domain.StatuteKey{
		Year:     year,
		Number:   segments[statuteNumberSegment],
		Language: language,
		Version:  version,
	}, nil
}

// ParseJudgmentURL decomposes a published judgment URL into its key.
// Path shape: /{fi|sv}/{casestatute}/{court}/{prefix}/{year}/{number}.
func ParseJudgmentURL(raw string) (domain.JudgmentKey, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.JudgmentKey{}, &apperr.MalformedURLError{URL: raw, Reason: err.Error()}
	}

	segments := splitPath(u.Path)
	if len(segments) < 6 {
		return domain.JudgmentKey{}, &apperr.MalformedURLError{URL: raw, Reason: "not enough path segments"}
	}

	language, err := domain.ParseLanguage(segments[0])
	if err != nil {
		return domain.JudgmentKey{}, &apperr.MalformedURLError{URL: raw, Reason: fmt.Sprintf("unknown language segment %q", segments[0])}
	}

	level, ok := courtSegments[segments[2]]
	if !ok {
		return domain.JudgmentKey{}, &apperr.MalformedURLError{URL: raw, Reason: fmt.Sprintf("unknown court segment %q", segments[2])}
	}

	year, err := strconv.Atoi(segments[4])
	if err != nil {
		return domain.JudgmentKey{}, &apperr.MalformedURLError{URL: raw, Reason: "year segment is not a number"}
	}

	return domain.JudgmentKey{
		Year:     year,
		Number:   segments[5],
		Language: language,
		Level:    level,
	}, nil
}

// BuildJudgmentURL is the inverse of ParseJudgmentURL.
func BuildJudgmentURL(base string, key domain.JudgmentKey) (string, error) {
	prefix, err := judgmentPathPrefix(key.Language, key.Level)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s/%d/%s", base, prefix, key.Year, key.Number), nil
}

func judgmentPathPrefix(language domain.Language, level domain.CourtLevel) (string, error) {
	switch {
	case language == domain.LanguageFinnish && level == domain.LevelKHO:
		return "/fi/oikeuskaytanto/korkein-hallinto-oikeus/ennakkopaatokset", nil
	case language == domain.LanguageFinnish && level == domain.LevelKKO:
		return "/fi/oikeuskaytanto/korkein-oikeus/ennakkopaatokset", nil
	case language == domain.LanguageSwedish && level == domain.LevelKHO:
		return "/sv/rattspraxis/hogsta-forvaltningsdomstolen/prejudikat", nil
	case language == domain.LanguageSwedish && level == domain.LevelKKO:
		return "/sv/rattspraxis/hogsta-domstolen/prejudikat", nil
	}
	return "", fmt.Errorf("unsupported language %q / level %q", language, level)
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

package finlex

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mkoskenniemi/lakihaku/internal/apperr"
	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/fetch"
)

const listPageSize = 10

// Getter is the fetching capability the locator needs; satisfied by
// *fetch.Fetcher.
type Getter interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (*fetch.Response, error)
}

// Locator lists candidate documents for a year through the rate-limited
// fetcher and maps listing entries to canonical URLs.
type Locator struct {
	fetcher Getter
	apiBase string
	webBase string
}

type LocatorOption func(*Locator)

// WithBaseURLs overrides the production endpoints, mainly for tests.
func WithBaseURLs(apiBase, webBase string) LocatorOption {
	return func(l *Locator) {
		l.apiBase = apiBase
		l.webBase = webBase
	}
}

func NewLocator(fetcher Getter, opts ...LocatorOption) *Locator {
	l := &Locator{
		fetcher: fetcher,
		apiBase: DefaultAPIBaseURL,
		webBase: DefaultWebBaseURL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// StatuteURIs returns primary and fallback URL shapes for one statute.
func (l *Locator) StatuteURIs(key domain.StatuteKey) (primary, fallback string) {
	return StatuteURIs(l.apiBase, key)
}

// JudgmentURL builds the canonical page URL for one judgment.
func (l *Locator) JudgmentURL(key domain.JudgmentKey) (string, error) {
	return BuildJudgmentURL(l.webBase, key)
}

type statuteListItem struct {
	AknURI string `json:"akn_uri"`
}

// ListStatuteURIs pages through the statute listing endpoint for both
// statute subtypes, reduces the result to the latest version of each
// document, and filters it to the requested language. A failing subtype
// listing is logged and skipped; it never aborts the other subtype.
func (l *Locator) ListStatuteURIs(ctx context.Context, year int, language domain.Language) ([]string, error) {
	var uris []string

	for _, subtype := range []string{"act", "decree"} {
		subtypeURIs, err := l.listStatuteSubtype(ctx, year, subtype)
		if err != nil {
			slog.Error("statute listing failed",
				"year", year,
				"subtype", subtype,
				"error", err,
			)
			continue
		}
		uris = append(uris, subtypeURIs...)
	}

	latest := latestStatuteVersions(uris)
	marker := fmt.Sprintf("/%s@", language)

	var filtered []string
	for _, uri := range latest {
		if strings.Contains(uri, marker) {
			filtered = append(filtered, uri)
		}
	}

	slog.Info("statute listing reduced",
		"year", year,
		"language", language,
		"candidates", len(uris),
		"latest", len(filtered),
	)
	return filtered, nil
}

func (l *Locator) listStatuteSubtype(ctx context.Context, year int, subtype string) ([]string, error) {
	var uris []string

	for page := 1; ; page++ {
		query := url.Values{
			"format":      {"json"},
			"page":        {strconv.Itoa(page)},
			"limit":       {strconv.Itoa(listPageSize)},
			"startYear":   {strconv.Itoa(year)},
			"endYear":     {strconv.Itoa(year)},
			"typeStatute": {subtype},
		}
		listURL := l.apiBase + statuteConsolidatedPath + "/list?" + query.Encode()

		resp, err := l.fetcher.Fetch(ctx, listURL, map[string]string{
			"Accept":          "application/json",
			"Accept-Encoding": "gzip",
		})
		if err != nil {
			return nil, err
		}

		var items []statuteListItem
		if err := json.Unmarshal(resp.Body, &items); err != nil {
			return nil, fmt.Errorf("invalid listing response: %w", err)
		}

		for _, item := range items {
			uris = append(uris, item.AknURI)
		}

		if len(items) < listPageSize {
			return uris, nil
		}
	}
}

// latestStatuteVersions keeps, for every document base URI, only the
// entry with the highest version suffix. Version suffixes are date
// stamps, so plain string comparison orders them; a versionless entry
// loses to any versioned one.
func latestStatuteVersions(uris []string) []string {
	best := make(map[string]string)
	var order []string

	for _, uri := range uris {
		base, version, _ := strings.Cut(uri, "@")
		current, seen := best[base]
		if !seen {
			best[base] = version
			order = append(order, base)
			continue
		}
		if version > current {
			best[base] = version
		}
	}

	out := make([]string, 0, len(order))
	for _, base := range order {
		out = append(out, base+"@"+best[base])
	}
	return out
}

// judgmentIDPattern matches published judgment identifiers for one court
// abbreviation: KKO:2020:1 and the transfer-case shape KKO:2020-T-5.
func judgmentIDPattern(courtID string) *regexp.Regexp {
	return regexp.MustCompile(courtID + `:\d{4}(:\d+|-[A-Za-z]+-\d+)`)
}

// ListJudgmentURLs fetches the HTML index page for one year/court
// combination and maps every identifier on it to a canonical judgment
// URL. A 404 on the index page means "no judgments that year".
func (l *Locator) ListJudgmentURLs(ctx context.Context, year int, language domain.Language, level domain.CourtLevel) ([]string, error) {
	courtID, err := level.Display(language)
	if err != nil {
		return nil, err
	}

	prefix, err := judgmentPathPrefix(language, level)
	if err != nil {
		return nil, err
	}
	indexURL := fmt.Sprintf("%s%s/%d", l.webBase, prefix, year)

	resp, err := l.fetcher.Fetch(ctx, indexURL, map[string]string{
		"Accept":          "text/html",
		"Accept-Encoding": "gzip",
	})
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	ids := judgmentIDPattern(courtID).FindAllString(string(resp.Body), -1)

	seen := make(map[string]struct{})
	var urls []string
	for _, id := range ids {
		u, err := l.judgmentURLFromID(id)
		if err != nil {
			slog.Warn("skipping unrecognized judgment id", "id", id, "error", err)
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	return urls, nil
}

// judgmentURLFromID maps one published identifier (KKO:2020:1 or
// KKO:2020-T-5) to its canonical page URL.
func (l *Locator) judgmentURLFromID(id string) (string, error) {
	court, rest, ok := strings.Cut(id, ":")
	if !ok {
		return "", &apperr.MalformedURLError{URL: id, Reason: "missing court separator"}
	}

	var yearStr, number string
	if year, n, dashed := strings.Cut(rest, "-"); dashed {
		yearStr, number = year, n
	} else {
		yearStr, number, ok = strings.Cut(rest, ":")
		if !ok {
			return "", &apperr.MalformedURLError{URL: id, Reason: "missing number separator"}
		}
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", &apperr.MalformedURLError{URL: id, Reason: "year is not a number"}
	}

	level, err := domain.ParseCourtDisplay(court)
	if err != nil {
		return "", &apperr.MalformedURLError{URL: id, Reason: err.Error()}
	}
	language := domain.LanguageFinnish
	if court == "HFD" || court == "HD" {
		language = domain.LanguageSwedish
	}

	return BuildJudgmentURL(l.webBase, domain.JudgmentKey{
		Year:     year,
		Number:   number,
		Language: language,
		Level:    level,
	})
}

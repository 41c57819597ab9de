package finlex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/fetch"
)

func testFetcher() *fetch.Fetcher {
	return fetch.NewFetcher(fetch.NewLimiter(fetch.LimiterConfig{
		MinInterval: time.Millisecond,
		Window:      time.Second,
		WindowLimit: 1000,
	}))
}

func testLocator(srvURL string) *Locator {
	return NewLocator(testFetcher(), WithBaseURLs(srvURL, srvURL))
}

func TestListStatuteURIs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/finlex/avoindata/v1/akn/fi/act/statute-consolidated/list", r.URL.Path)

		switch r.URL.Query().Get("typeStatute") {
		case "act":
			json.NewEncoder(w).Encode([]statuteListItem{
				{AknURI: "/akn/fi/act/statute-consolidated/2020/1/fin@"},
				{AknURI: "/akn/fi/act/statute-consolidated/2020/1/fin@20210101"},
				{AknURI: "/akn/fi/act/statute-consolidated/2020/1/swe@"},
			})
		case "decree":
			json.NewEncoder(w).Encode([]statuteListItem{
				{AknURI: "/akn/fi/act/statute-consolidated/2020/55/fin@"},
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	l := NewLocator(testFetcher(), WithBaseURLs(srv.URL+"/finlex/avoindata/v1", srv.URL))

	uris, err := l.ListStatuteURIs(context.Background(), 2020, domain.LanguageFinnish)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"/akn/fi/act/statute-consolidated/2020/1/fin@20210101",
		"/akn/fi/act/statute-consolidated/2020/55/fin@",
	}, uris)
}

func TestListStatuteURIsPagination(t *testing.T) {
	pagesServed := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subtype := r.URL.Query().Get("typeStatute")
		if subtype == "decree" {
			json.NewEncoder(w).Encode([]statuteListItem{})
			return
		}

		page := r.URL.Query().Get("page")
		pagesServed[page]++
		var items []statuteListItem
		if page == "1" {
			for i := 0; i < listPageSize; i++ {
				items = append(items, statuteListItem{
					AknURI: fmt.Sprintf("/akn/fi/act/statute-consolidated/2020/%d/fin@", i+1),
				})
			}
		} else {
			items = []statuteListItem{
				{AknURI: "/akn/fi/act/statute-consolidated/2020/11/fin@"},
			}
		}
		json.NewEncoder(w).Encode(items)
	}))
	defer srv.Close()

	l := testLocator(srv.URL)
	uris, err := l.ListStatuteURIs(context.Background(), 2020, domain.LanguageFinnish)

	require.NoError(t, err)
	assert.Len(t, uris, 11)
	assert.Equal(t, 1, pagesServed["1"])
	assert.Equal(t, 1, pagesServed["2"])
}

func TestListStatuteURIsSubtypeFailureIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("typeStatute") == "act" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode([]statuteListItem{
			{AknURI: "/akn/fi/act/statute-consolidated/2020/55/fin@"},
		})
	}))
	defer srv.Close()

	l := testLocator(srv.URL)
	uris, err := l.ListStatuteURIs(context.Background(), 2020, domain.LanguageFinnish)

	require.NoError(t, err)
	assert.Equal(t, []string{"/akn/fi/act/statute-consolidated/2020/55/fin@"}, uris)
}

func TestListJudgmentURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fi/oikeuskaytanto/korkein-oikeus/ennakkopaatokset/2020", r.URL.Path)
		fmt.Fprint(w, `<html><body>
			<a>KKO:2020:1</a>
			<a>KKO:2020:2</a>
			<a>KKO:2020:1</a>
			<a>KKO:2020-T-5</a>
		</body></html>`)
	}))
	defer srv.Close()

	l := testLocator(srv.URL)
	urls, err := l.ListJudgmentURLs(context.Background(), 2020, domain.LanguageFinnish, domain.LevelKKO)

	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/fi/oikeuskaytanto/korkein-oikeus/ennakkopaatokset/2020/1",
		srv.URL + "/fi/oikeuskaytanto/korkein-oikeus/ennakkopaatokset/2020/2",
		srv.URL + "/fi/oikeuskaytanto/korkein-oikeus/ennakkopaatokset/2020/T-5",
	}, urls)
}

func TestListJudgmentURLsNotFoundMeansEmptyYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	l := testLocator(srv.URL)
	urls, err := l.ListJudgmentURLs(context.Background(), 1923, domain.LanguageFinnish, domain.LevelKHO)

	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestJudgmentURLFromIDUnknownCourt(t *testing.T) {
	l := testLocator("https://finlex.fi")

	_, err := l.judgmentURLFromID("XYZ:2020:1")
	assert.Error(t, err)
}

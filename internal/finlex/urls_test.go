package finlex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoskenniemi/lakihaku/internal/apperr"
	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

func TestStatuteURIs(t *testing.T) {
	key := domain.StatuteKey{Year: 2020, Number: "123", Language: domain.LanguageFinnish}
	primary, fallback := StatuteURIs(DefaultAPIBaseURL, key)

	assert.Equal(t,
		"https://opendata.finlex.fi/finlex/avoindata/v1/akn/fi/act/statute/2020/123/fin@",
		primary)
	assert.Equal(t,
		"https://opendata.finlex.fi/finlex/avoindata/v1/akn/fi/act/statute-consolidated/2020/123/fin@",
		fallback)
}

func TestParseStatuteURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    domain.StatuteKey
		wantErr bool
	}{
		{
			name: "versionless",
			url:  "https://opendata.finlex.fi/finlex/avoindata/v1/akn/fi/act/statute/2020/123/fin@",
			want: domain.StatuteKey{Year: 2020, Number: "123", Language: domain.LanguageFinnish},
		},
		{
			name: "with version suffix",
			url:  "https://opendata.finlex.fi/finlex/avoindata/v1/akn/fi/act/statute-consolidated/1889/39/swe@20230101",
			want: domain.StatuteKey{Year: 1889, Number: "39", Language: domain.LanguageSwedish, Version: "20230101"},
		},
		{
			name:    "too few segments",
			url:     "https://opendata.finlex.fi/finlex/avoindata/v1/akn/fi",
			wantErr: true,
		},
		{
			name:    "year not numeric",
			url:     "https://opendata.finlex.fi/finlex/avoindata/v1/akn/fi/act/statute/abcd/123/fin@",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatuteURL(tt.url)
			if tt.wantErr {
				var me *apperr.MalformedURLError
				require.True(t, errors.As(err, &me), "expected MalformedURLError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJudgmentURLRoundTrip(t *testing.T) {
	keys := []domain.JudgmentKey{
		{Year: 2020, Number: "1", Language: domain.LanguageFinnish, Level: domain.LevelKKO},
		{Year: 2020, Number: "1", Language: domain.LanguageFinnish, Level: domain.LevelKHO},
		{Year: 1999, Number: "T-5", Language: domain.LanguageSwedish, Level: domain.LevelKKO},
		{Year: 2015, Number: "42", Language: domain.LanguageSwedish, Level: domain.LevelKHO},
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			built, err := BuildJudgmentURL(DefaultWebBaseURL, key)
			require.NoError(t, err)

			parsed, err := ParseJudgmentURL(built)
			require.NoError(t, err)
			assert.Equal(t, key, parsed)
		})
	}
}

func TestParseJudgmentURLErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{
			name: "unknown court segment",
			url:  "https://finlex.fi/fi/oikeuskaytanto/hovioikeus/ennakkopaatokset/2020/1",
		},
		{
			name: "unknown language segment",
			url:  "https://finlex.fi/en/oikeuskaytanto/korkein-oikeus/ennakkopaatokset/2020/1",
		},
		{
			name: "too few segments",
			url:  "https://finlex.fi/fi/oikeuskaytanto",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJudgmentURL(tt.url)
			var me *apperr.MalformedURLError
			assert.True(t, errors.As(err, &me), "expected MalformedURLError, got %v", err)
		})
	}
}

func TestLatestStatuteVersions(t *testing.T) {
	uris := []string{
		"/akn/fi/act/statute-consolidated/2020/1/fin@",
		"/akn/fi/act/statute-consolidated/2020/1/fin@20200301",
		"/akn/fi/act/statute-consolidated/2020/1/fin@20210101",
		"/akn/fi/act/statute-consolidated/2020/2/fin@",
	}

	got := latestStatuteVersions(uris)

	assert.Equal(t, []string{
		"/akn/fi/act/statute-consolidated/2020/1/fin@20210101",
		"/akn/fi/act/statute-consolidated/2020/2/fin@",
	}, got)
}

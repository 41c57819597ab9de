package es

import (
	"fmt"
	"testing"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/stretchr/testify/assert"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

func TestIndexName(t *testing.T) {
	assert.Equal(t, "statutes_fin", IndexName(domain.EntityStatutes, domain.LanguageFinnish))
	assert.Equal(t, "judgments_swe", IndexName(domain.EntityJudgments, domain.LanguageSwedish))
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "service unavailable",
			err:  &types.ElasticsearchError{Status: 503},
			want: true,
		},
		{
			name: "too many requests",
			err:  &types.ElasticsearchError{Status: 429},
			want: true,
		},
		{
			name: "wrapped busy error",
			err:  fmt.Errorf("upsert: %w", &types.ElasticsearchError{Status: 503}),
			want: true,
		},
		{
			name: "not found is terminal",
			err:  &types.ElasticsearchError{Status: 404},
			want: false,
		},
		{
			name: "plain error is terminal",
			err:  fmt.Errorf("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnavailable(tt.err))
		})
	}
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

func TestSummarize(t *testing.T) {
	results := []*domain.SyncResult{
		{
			Type: domain.EntityStatutes, Language: domain.LanguageFinnish,
			TotalProcessed: 3, SuccessCount: 2, FailureCount: 1,
			Failures: []domain.SyncFailure{
				{ID: "abc", Year: 2020, Number: "7", Title: "Esimerkkilaki", Error: "mapping conflict"},
			},
		},
		{
			Type: domain.EntityJudgments, Language: domain.LanguageSwedish,
			TotalProcessed: 1, SuccessCount: 1,
		},
	}

	out := Summarize(results)

	assert.Contains(t, out, "statutes_fin: 3 processed, 2 indexed, 1 failed")
	assert.Contains(t, out, "failed abc 2020/7 (Esimerkkilaki): mapping conflict")
	assert.Contains(t, out, "judgments_swe: 1 processed, 1 indexed, 0 failed")
	assert.Contains(t, out, "total: 4 processed, 3 indexed, 1 failed")
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Contains(t, Summarize(nil), "total: 0 processed, 0 indexed, 0 failed")
}

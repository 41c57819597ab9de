package search

import (
	"fmt"
	"strings"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
)

// Summarize renders a batch of sync results as a printable report, one
// line per (entity, language) pair plus failure details and totals.
func Summarize(results []*domain.SyncResult) string {
	var sb strings.Builder
	var total, succeeded, failed int

	sb.WriteString("index sync summary\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "  %s_%s: %d processed, %d indexed, %d failed\n",
			r.Type, r.Language, r.TotalProcessed, r.SuccessCount, r.FailureCount)
		for _, f := range r.Failures {
			label := f.Title
			if label == "" {
				label = f.Level
			}
			fmt.Fprintf(&sb, "    failed %s %d/%s (%s): %s\n",
				f.ID, f.Year, f.Number, label, f.Error)
		}
		total += r.TotalProcessed
		succeeded += r.SuccessCount
		failed += r.FailureCount
	}
	fmt.Fprintf(&sb, "  total: %d processed, %d indexed, %d failed", total, succeeded, failed)
	return sb.String()
}

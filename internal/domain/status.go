package domain

import "time"

// StatusEntry is one persisted status record. Crawl and sync runs are
// long-running background tasks; their progress is observable only
// through these rows. Updating is a best-effort "run in progress" signal,
// not an atomic lock.
type StatusEntry struct {
	ID       int64          `json:"id"`
	Date     time.Time      `json:"date"`
	Data     map[string]any `json:"data"`
	Updating bool           `json:"updating"`
}

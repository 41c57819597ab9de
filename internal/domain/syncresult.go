package domain

// EntityType names one indexed corpus.
type EntityType string

const (
	EntityStatutes  EntityType = "statutes"
	EntityJudgments EntityType = "judgments"
)

// SyncFailure records one document that could not be indexed during a
// sync run.
type SyncFailure struct {
	ID     string `json:"id"`
	Year   int    `json:"year"`
	Number string `json:"number"`
	// Title is set for statutes, Level for judgments.
	Title string `json:"title,omitempty"`
	Level string `json:"level,omitempty"`
	Error string `json:"error"`
}

// SyncResult accumulates the outcome of one index-sync run.
// TotalProcessed == SuccessCount + FailureCount always holds, including
// for runs that saw zero rows.
type SyncResult struct {
	Type           EntityType    `json:"type"`
	Language       Language      `json:"language"`
	TotalProcessed int           `json:"totalProcessed"`
	SuccessCount   int           `json:"successCount"`
	FailureCount   int           `json:"failureCount"`
	Failures       []SyncFailure `json:"failures"`
}

// RecordFailure books one failed document into the result.
func (r *SyncResult) RecordFailure(f SyncFailure) {
	r.TotalProcessed++
	r.FailureCount++
	r.Failures = append(r.Failures, f)
}

// RecordSuccess books one indexed document into the result.
func (r *SyncResult) RecordSuccess() {
	r.TotalProcessed++
	r.SuccessCount++
}

package history

import "time"

// Outcome classifies how a dispatched activity ended up.
type Outcome string

const (
	OutcomeConverted Outcome = "converted"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Entry is one ledger row.
type Entry struct {
	ID           int64
	RunID        string
	ActivityID   string
	ActivityType string
	ActivityDate time.Time
	SourceFile   string
	OutputFile   string
	Outcome      Outcome
	Detail       string
	CreatedAt    time.Time
}

package message

import "time"

// Pagination bounds shared by the HTTP layer and the repositories.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// InsertOutcome tags the result of an idempotent insert attempt.
type InsertOutcome int

const (
	// OutcomeCreated means a new record was stored.
	OutcomeCreated InsertOutcome = iota
	// OutcomeDuplicate means a record with the same MessageID already
	// existed and nothing was written. This is a normal outcome, not an error.
	OutcomeDuplicate
)

// String returns the wire name of the outcome, as used in logs and metrics.
func (o InsertOutcome) String() string {
	if o == OutcomeDuplicate {
		return "duplicate"
	}
	return "created"
}

// Filter narrows a message listing. Zero values mean "not set"; set fields
// combine with logical AND.
type Filter struct {
	// From requires an exact sender match.
	From string
	// Since is an inclusive lower bound on TS.
	Since *time.Time
	// Contains requires a case-sensitive substring match on Text.
	Contains string
}

// Page selects a window of the filtered, ordered result set.
type Page struct {
	Limit  int
	Offset int
}

// SenderCount is one entry of the per-sender leaderboard.
type SenderCount struct {
	From  string
	Count int64
}

// Stats is an aggregate snapshot over all stored messages. All fields are
// computed from the same snapshot, so they are mutually consistent.
type Stats struct {
	TotalMessages int64
	SendersCount  int64
	// PerSender holds the top senders by message count descending, ties
	// broken by sender ascending, at most ten entries.
	PerSender []SenderCount
	// FirstTS and LastTS are nil when the store is empty.
	FirstTS *time.Time
	LastTS  *time.Time
}

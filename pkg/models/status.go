package models

// Status is the internal state of a transfer as shown to partners.
type Status string

const (
	StatusPlanned            Status = "planned"
	StatusPending            Status = "pending"
	StatusCompleted          Status = "completed"
	StatusCancelled          Status = "cancelled"
	StatusCancelledWithCosts Status = "cancelled-with-costs"
)

// sourceStatuses maps CRM journey statuses onto internal ones. Matching is
// exact and case-sensitive; anything not listed falls back to pending.
var sourceStatuses = map[string]Status{
	"Planned":              StatusPlanned,
	"Driver Underway":      StatusPending,
	"Driver Arrived":       StatusPending,
	"Journey In Progress":  StatusPending,
	"Completed":            StatusCompleted,
	"No Show":              StatusCancelled,
	"Cancelled with Costs": StatusCancelledWithCosts,
}

// TranslateStatus converts a CRM journey status into the internal status.
// The second return reports whether the source value was recognized; unknown
// values translate to StatusPending so a single bad status never blocks the
// rest of the record.
func TranslateStatus(source string) (Status, bool) {
	if status, ok := sourceStatuses[source]; ok {
		return status, true
	}
	return StatusPending, false
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPlanned, StatusPending, StatusCompleted, StatusCancelled, StatusCancelledWithCosts:
		return true
	default:
		return false
	}
}

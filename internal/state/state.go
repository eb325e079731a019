// Package state persists per-category lifecycle state: the last date an
// issue was created for a category and the last date its deadline was
// processed. This file is the sole source of idempotency truth; both
// the creation and deadline paths consult it before touching the
// tracker, which is what makes catch-up after downtime safe.
package state

import (
	"time"
)

// DateFormat is the date-only layout used for all persisted dates.
// Lifecycle decisions compare calendar dates, never instants.
const DateFormat = "2006-01-02"

// Date renders an instant as a persisted date string.
func Date(t time.Time) string {
	return t.Format(DateFormat)
}

// CategoryState is the persisted record for one task category. The
// deadline is copied from the schedule for display; the two date
// fields are empty until the corresponding transition first happens.
type CategoryState struct {
	Category              string `json:"category"`
	Deadline              string `json:"deadline"`
	LastCreatedDate       string `json:"lastCreatedDate,omitempty"`
	DeadlineProcessedDate string `json:"deadlineProcessedDate,omitempty"`
}

// Store is the persistence capability for category state. Save
// replaces the whole collection atomically; partial-record updates are
// never externally observable.
type Store interface {
	Load() ([]CategoryState, error)
	Save(states []CategoryState) error
}

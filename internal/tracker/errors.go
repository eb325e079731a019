package tracker

import "errors"

// Sentinel errors for issue tracker operations.
var (
	// ErrIssueNotFound indicates that the requested issue does not exist.
	ErrIssueNotFound = errors.New("issue not found")

	// ErrAuthRequired indicates that authentication is required.
	ErrAuthRequired = errors.New("authentication required")

	// ErrTrackerUnavailable indicates that the tracker tool/API is not
	// available.
	ErrTrackerUnavailable = errors.New("tracker unavailable")
)

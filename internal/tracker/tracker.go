// Package tracker provides an abstraction over the external issue
// tracker that holds the tracked work items. The Client interface is
// what the orchestration layer programs against; the GitHub
// implementation shells out to the gh CLI.
package tracker

// Issue states accepted by ListIssues.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Issue is a fully-typed snapshot of a tracked item as returned by the
// tracker. The core never caches these; every read is a fresh fetch.
type Issue struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
	State  string   `json:"state"`
}

// IssueOptions contains the parameters for creating an issue.
type IssueOptions struct {
	// Title is the issue title (required).
	Title string

	// Body is the issue description in markdown.
	Body string

	// Labels are applied at creation time.
	Labels []string

	// Assignees are the usernames to assign.
	Assignees []string
}

// Client defines the issue tracker operations the lifecycle engine
// needs. Implementations handle the provider-specific calls.
type Client interface {
	// CreateIssue creates a new issue and returns its number.
	CreateIssue(opts IssueOptions) (int, error)

	// CloseIssue closes the issue with the given number.
	CloseIssue(number int) error

	// AddLabels applies labels to an existing issue.
	AddLabels(number int, labels []string) error

	// RemoveLabel removes a single label from an issue.
	RemoveLabel(number int, label string) error

	// ListIssues returns issues carrying every given label, filtered
	// by state (StateOpen or StateClosed).
	ListIssues(labels []string, issueState string) ([]Issue, error)

	// LabelExists reports whether a label is defined in the repository.
	LabelExists(name string) (bool, error)

	// CreateLabel defines a new repository label.
	CreateLabel(name, color string) error

	// AuthenticatedUser returns the login of the authenticated user.
	AuthenticatedUser() (string, error)

	// ProjectExists reports whether a project board with the given
	// title exists.
	ProjectExists(title string) (bool, error)

	// CreateProject creates a project board with the given title.
	CreateProject(title string) error
}

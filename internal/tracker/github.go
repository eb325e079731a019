package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// CommandExecutor is a function type that executes a command and returns
// its output. This allows for dependency injection in tests.
type CommandExecutor func(name string, args ...string) ([]byte, error)

// defaultExecutor runs commands using os/exec.
var defaultExecutor CommandExecutor = func(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// GitHubClient implements Client for GitHub using the gh CLI.
type GitHubClient struct {
	executor CommandExecutor
}

// NewGitHubClient creates a GitHubClient using the default command
// executor.
func NewGitHubClient() *GitHubClient {
	return &GitHubClient{executor: defaultExecutor}
}

// NewGitHubClientWithExecutor creates a GitHubClient with a custom
// command executor for testing.
func NewGitHubClientWithExecutor(executor CommandExecutor) *GitHubClient {
	return &GitHubClient{executor: executor}
}

// CreateIssue creates a GitHub issue using the gh CLI.
func (g *GitHubClient) CreateIssue(opts IssueOptions) (int, error) {
	if opts.Title == "" {
		return 0, fmt.Errorf("issue title is required")
	}

	args := []string{"issue", "create",
		"--title", opts.Title,
		"--body", opts.Body,
	}
	for _, label := range opts.Labels {
		args = append(args, "--label", label)
	}
	for _, assignee := range opts.Assignees {
		args = append(args, "--assignee", assignee)
	}

	output, err := g.executor("gh", args...)
	if err != nil {
		return 0, g.classifyError(err, output)
	}

	num, err := parseIssueNumber(strings.TrimSpace(string(output)))
	if err != nil {
		return 0, err
	}
	return num, nil
}

// CloseIssue closes a GitHub issue.
func (g *GitHubClient) CloseIssue(number int) error {
	output, err := g.executor("gh", "issue", "close", strconv.Itoa(number))
	if err != nil {
		return g.classifyError(err, output)
	}
	return nil
}

// AddLabels applies labels to an existing issue.
func (g *GitHubClient) AddLabels(number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	args := []string{"issue", "edit", strconv.Itoa(number)}
	for _, label := range labels {
		args = append(args, "--add-label", label)
	}

	output, err := g.executor("gh", args...)
	if err != nil {
		return g.classifyError(err, output)
	}
	return nil
}

// RemoveLabel removes a single label from an issue.
func (g *GitHubClient) RemoveLabel(number int, label string) error {
	output, err := g.executor("gh", "issue", "edit", strconv.Itoa(number),
		"--remove-label", label)
	if err != nil {
		return g.classifyError(err, output)
	}
	return nil
}

// issueJSON mirrors the gh issue list --json output shape, with labels
// as objects.
type issueJSON struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	State string `json:"state"`
}

// issueListLimit overrides gh's default of 30 results. The lifecycle
// passes must see every matching issue or closes and carry-forwards
// get silently dropped.
const issueListLimit = "500"

// ListIssues returns issues carrying every given label in the given
// state, decoded into fully-typed records at this boundary.
func (g *GitHubClient) ListIssues(labels []string, issueState string) ([]Issue, error) {
	args := []string{"issue", "list",
		"--state", issueState,
		"--json", "number,title,body,labels,state",
		"--limit", issueListLimit,
	}
	for _, label := range labels {
		args = append(args, "--label", label)
	}

	output, err := g.executor("gh", args...)
	if err != nil {
		return nil, g.classifyError(err, output)
	}

	var raw []issueJSON
	if err := json.Unmarshal(output, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse issue list: %w", err)
	}

	issues := make([]Issue, 0, len(raw))
	for _, r := range raw {
		issue := Issue{
			Number: r.Number,
			Title:  r.Title,
			Body:   r.Body,
			State:  strings.ToLower(r.State),
		}
		for _, l := range r.Labels {
			issue.Labels = append(issue.Labels, l.Name)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// LabelExists reports whether a repository label with the given name
// exists.
func (g *GitHubClient) LabelExists(name string) (bool, error) {
	output, err := g.executor("gh", "label", "list", "--json", "name", "--limit", "200")
	if err != nil {
		return false, g.classifyError(err, output)
	}

	var labels []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(output, &labels); err != nil {
		return false, fmt.Errorf("failed to parse label list: %w", err)
	}

	for _, l := range labels {
		if strings.EqualFold(l.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// CreateLabel defines a new repository label.
func (g *GitHubClient) CreateLabel(name, color string) error {
	output, err := g.executor("gh", "label", "create", name, "--color", color)
	if err != nil {
		return g.classifyError(err, output)
	}
	return nil
}

// AuthenticatedUser returns the login of the authenticated gh user.
func (g *GitHubClient) AuthenticatedUser() (string, error) {
	output, err := g.executor("gh", "api", "user")
	if err != nil {
		return "", g.classifyError(err, output)
	}

	var response struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(output, &response); err != nil {
		return "", fmt.Errorf("failed to parse user response: %w", err)
	}
	if response.Login == "" {
		return "", fmt.Errorf("no login in user response")
	}
	return response.Login, nil
}

// ProjectExists reports whether a project board with the given title
// exists for the authenticated user.
func (g *GitHubClient) ProjectExists(title string) (bool, error) {
	output, err := g.executor("gh", "project", "list", "--owner", "@me", "--format", "json")
	if err != nil {
		return false, g.classifyError(err, output)
	}

	var response struct {
		Projects []struct {
			Title string `json:"title"`
		} `json:"projects"`
	}
	if err := json.Unmarshal(output, &response); err != nil {
		return false, fmt.Errorf("failed to parse project list: %w", err)
	}

	for _, p := range response.Projects {
		if p.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// CreateProject creates a project board with the given title.
func (g *GitHubClient) CreateProject(title string) error {
	output, err := g.executor("gh", "project", "create", "--owner", "@me", "--title", title)
	if err != nil {
		return g.classifyError(err, output)
	}
	return nil
}

// classifyError analyzes the error and output from a gh command and
// returns a more specific error type when possible. Errors are wrapped
// to preserve context while enabling errors.Is() checks.
func (g *GitHubClient) classifyError(err error, output []byte) error {
	outStr := strings.ToLower(string(output))

	// Check for "executable file not found" which indicates gh is not installed
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return fmt.Errorf("%w: %v", ErrTrackerUnavailable, execErr)
	}

	switch {
	case strings.Contains(outStr, "not logged in") ||
		strings.Contains(outStr, "authentication required") ||
		strings.Contains(outStr, "gh auth login"):
		return fmt.Errorf("%w: %s", ErrAuthRequired, strings.TrimSpace(string(output)))

	case strings.Contains(outStr, "could not find issue") ||
		strings.Contains(outStr, "issue not found"):
		return fmt.Errorf("%w: %s", ErrIssueNotFound, strings.TrimSpace(string(output)))

	case strings.Contains(outStr, "could not resolve to a repository"):
		return fmt.Errorf("repository not found or not accessible: %s", strings.TrimSpace(string(output)))
	}

	return fmt.Errorf("gh command failed: %w\n%s", err, string(output))
}

// parseIssueNumber extracts the issue number from gh output URL
// e.g., https://github.com/owner/repo/issues/123
func parseIssueNumber(output string) (int, error) {
	re := regexp.MustCompile(`/issues/(\d+)`)
	matches := re.FindStringSubmatch(output)
	if len(matches) < 2 {
		return 0, fmt.Errorf("could not parse issue number from: %s", output)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid issue number: %w", err)
	}
	return num, nil
}

// Ensure GitHubClient implements Client
var _ Client = (*GitHubClient)(nil)

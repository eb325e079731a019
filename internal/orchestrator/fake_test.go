package orchestrator

import (
	"fmt"
	"slices"

	"github.com/kwalsh-dev/rota/internal/tracker"
)

// fakeTracker is an in-memory tracker.Client recording every mutation.
type fakeTracker struct {
	issues     map[int]*tracker.Issue
	nextNumber int

	createCalls []tracker.IssueOptions
	closeCalls  []int
	addedLabels map[int][]string
	removed     map[int][]string

	createErr func(opts tracker.IssueOptions) error
	listErr   func(labels []string) error
	closeErr  error
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		issues:      make(map[int]*tracker.Issue),
		nextNumber:  1,
		addedLabels: make(map[int][]string),
		removed:     make(map[int][]string),
	}
}

// seed adds an existing issue and returns its number.
func (f *fakeTracker) seed(body, issueState string, labels ...string) int {
	num := f.nextNumber
	f.nextNumber++
	f.issues[num] = &tracker.Issue{
		Number: num,
		Title:  fmt.Sprintf("seeded #%d", num),
		Body:   body,
		Labels: labels,
		State:  issueState,
	}
	return num
}

func (f *fakeTracker) CreateIssue(opts tracker.IssueOptions) (int, error) {
	if f.createErr != nil {
		if err := f.createErr(opts); err != nil {
			return 0, err
		}
	}
	f.createCalls = append(f.createCalls, opts)
	num := f.nextNumber
	f.nextNumber++
	f.issues[num] = &tracker.Issue{
		Number: num,
		Title:  opts.Title,
		Body:   opts.Body,
		Labels: slices.Clone(opts.Labels),
		State:  tracker.StateOpen,
	}
	return num, nil
}

func (f *fakeTracker) CloseIssue(number int) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	issue, ok := f.issues[number]
	if !ok {
		return tracker.ErrIssueNotFound
	}
	issue.State = tracker.StateClosed
	f.closeCalls = append(f.closeCalls, number)
	return nil
}

func (f *fakeTracker) AddLabels(number int, labels []string) error {
	issue, ok := f.issues[number]
	if !ok {
		return tracker.ErrIssueNotFound
	}
	issue.Labels = append(issue.Labels, labels...)
	f.addedLabels[number] = append(f.addedLabels[number], labels...)
	return nil
}

func (f *fakeTracker) RemoveLabel(number int, label string) error {
	issue, ok := f.issues[number]
	if !ok {
		return tracker.ErrIssueNotFound
	}
	issue.Labels = slices.DeleteFunc(slices.Clone(issue.Labels), func(l string) bool {
		return l == label
	})
	f.removed[number] = append(f.removed[number], label)
	return nil
}

func (f *fakeTracker) ListIssues(labels []string, issueState string) ([]tracker.Issue, error) {
	if f.listErr != nil {
		if err := f.listErr(labels); err != nil {
			return nil, err
		}
	}
	var out []tracker.Issue
	for num := 1; num < f.nextNumber; num++ {
		issue, ok := f.issues[num]
		if !ok || issue.State != issueState {
			continue
		}
		matches := true
		for _, want := range labels {
			if !slices.Contains(issue.Labels, want) {
				matches = false
				break
			}
		}
		if matches {
			out = append(out, *issue)
		}
	}
	return out, nil
}

func (f *fakeTracker) LabelExists(name string) (bool, error) { return true, nil }

func (f *fakeTracker) CreateLabel(name, color string) error { return nil }

func (f *fakeTracker) AuthenticatedUser() (string, error) { return "kwalsh", nil }

func (f *fakeTracker) ProjectExists(title string) (bool, error) { return true, nil }

func (f *fakeTracker) CreateProject(title string) error { return nil }

var _ tracker.Client = (*fakeTracker)(nil)

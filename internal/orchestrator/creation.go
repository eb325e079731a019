package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/kwalsh-dev/rota/internal/logging"
	"github.com/kwalsh-dev/rota/internal/schedule"
	"github.com/kwalsh-dev/rota/internal/state"
	"github.com/kwalsh-dev/rota/internal/todo"
	"github.com/kwalsh-dev/rota/internal/tracker"
)

// CreationResult summarizes one daily creation pass.
type CreationResult struct {
	// Created is the number of issues created.
	Created int
	// Skipped counts categories that were not due or already created
	// today.
	Skipped int
	// Failed counts categories whose creation failed and will be
	// retried on the next cycle.
	Failed int
}

// RunDailyCreation creates today's issue for every due category that
// does not have one yet. Categories are processed in schedule order
// and independently: one category's failure is logged, counted and
// never blocks the rest. Re-running on the same day is a no-op for
// categories already created (they count as skipped).
func (o *Orchestrator) RunDailyCreation(ctx context.Context, sched *schedule.Schedule, assignee string) (CreationResult, error) {
	loc := sched.Location()
	now := o.now().In(loc)
	today := state.Date(now)

	log := o.logger.WithOperation("creation")
	log.Info("starting daily creation pass", "date", today, "tasks", len(sched.Tasks))

	var result CreationResult
	for _, task := range sched.Tasks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		clog := log.WithCategory(task.Category)

		if !task.Recurrence.IsDue(now) {
			clog.Debug("not due today", "recurrence", task.Recurrence.String())
			result.Skipped++
			continue
		}

		needed, err := o.states.NeedsIssueCreation(task.Category, today)
		if err != nil {
			clog.Error("failed to read creation state", "error", err)
			result.Failed++
			continue
		}
		if !needed {
			clog.Debug("issue already created today")
			result.Skipped++
			continue
		}

		if err := o.createIssue(task, today, assignee, clog); err != nil {
			// LastCreatedDate stays unset, so the next cycle retries
			// this category.
			clog.Error("issue creation failed", "error", err)
			result.Failed++
			continue
		}
		result.Created++
	}

	log.Info("daily creation pass finished",
		"created", result.Created, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// createIssue performs the per-category creation flow: gather
// carry-forward todos, create the issue, record success, then clear
// the carry-forward markers on the source issues.
func (o *Orchestrator) createIssue(task schedule.TaskSpec, today, assignee string, log *logging.Logger) error {
	carried, sources, err := o.carryForward(task.Category)
	if err != nil {
		return fmt.Errorf("failed to collect carry-forward todos: %w", err)
	}

	opts := tracker.IssueOptions{
		Title:  fmt.Sprintf("%s - %s", task.Name, today),
		Body:   buildBody(task, carried),
		Labels: []string{task.Category, o.labels.Managed},
	}
	if assignee != "" {
		opts.Assignees = []string{assignee}
	}

	number, err := o.tracker.CreateIssue(opts)
	if err != nil {
		return err
	}
	log.Info("created issue", "number", number, "migrated", len(carried))

	if err := o.states.MarkIssueCreated(task.Category, today); err != nil {
		// The issue exists but the record of it does not. Propagate so
		// the failure is visible; the next run will create a duplicate,
		// which is the recoverable outcome, unlike a silently lost write.
		return fmt.Errorf("issue #%d created but state not recorded: %w", number, err)
	}

	// Only after a successful creation do the source issues stop being
	// migration sources.
	for _, source := range sources {
		if err := o.tracker.RemoveLabel(source, o.labels.Unresolved); err != nil {
			log.Warn("failed to clear carry-forward marker",
				"source", source, "error", err)
		}
	}

	return nil
}

// carryForward returns the unchecked todos from every closed,
// still-unresolved issue of the category, in issue order, along with
// the source issue numbers.
func (o *Orchestrator) carryForward(category string) ([]string, []int, error) {
	issues, err := o.tracker.ListIssues(
		[]string{category, o.labels.Unresolved, o.labels.Managed},
		tracker.StateClosed,
	)
	if err != nil {
		return nil, nil, err
	}

	var todos []string
	var sources []int
	for _, issue := range issues {
		todos = append(todos, todo.ExtractUnchecked(issue.Body)...)
		sources = append(sources, issue.Number)
	}
	return todos, sources, nil
}

// buildBody assembles the issue body: the task description, a deadline
// banner, and the carried-forward todos re-rendered as unchecked lines.
func buildBody(task schedule.TaskSpec, carried []string) string {
	var sb strings.Builder

	if desc := strings.TrimRight(task.Description, "\n"); desc != "" {
		sb.WriteString(desc)
		sb.WriteString("\n\n")
	}

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("**Deadline:** %s\n", task.Deadline))

	if len(carried) > 0 {
		sb.WriteString("\n## Migrated from previous day\n\n")
		for _, item := range carried {
			sb.WriteString(todo.RenderUnchecked(item))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

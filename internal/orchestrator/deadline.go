package orchestrator

import (
	"context"
	"fmt"

	"github.com/kwalsh-dev/rota/internal/schedule"
	"github.com/kwalsh-dev/rota/internal/state"
	"github.com/kwalsh-dev/rota/internal/todo"
	"github.com/kwalsh-dev/rota/internal/tracker"
)

// ProcessCategory runs the deadline transition for one category: once
// the category's deadline time has passed today, every open managed
// issue of the category is closed, issues with unfinished todos are
// marked unresolved, and the category is recorded as processed for
// today. Calling it again the same day is a no-op, as is calling it
// before the deadline. Zero open issues is a valid terminal outcome.
func (o *Orchestrator) ProcessCategory(ctx context.Context, task schedule.TaskSpec, sched *schedule.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	loc := sched.Location()
	now := o.now().In(loc)
	today := state.Date(now)
	log := o.logger.WithOperation("deadline").WithCategory(task.Category)

	needed, err := o.states.NeedsDeadlineProcessing(task.Category, today)
	if err != nil {
		return fmt.Errorf("failed to read deadline state for %s: %w", task.Category, err)
	}
	if !needed {
		log.Debug("deadline already processed today")
		return nil
	}

	// The pending-to-due transition is purely time-driven and
	// re-evaluated on every call; only due-to-processed is persisted.
	if now.Before(task.Deadline.On(now, loc)) {
		log.Debug("deadline not reached yet", "deadline", task.Deadline.String())
		return nil
	}

	issues, err := o.tracker.ListIssues(
		[]string{task.Category, o.labels.Managed},
		tracker.StateOpen,
	)
	if err != nil {
		return fmt.Errorf("failed to list open issues for %s: %w", task.Category, err)
	}

	for _, issue := range issues {
		if err := o.tracker.CloseIssue(issue.Number); err != nil {
			return fmt.Errorf("failed to close issue #%d for %s: %w", issue.Number, task.Category, err)
		}
		if todo.HasUnchecked(issue.Body) {
			if err := o.tracker.AddLabels(issue.Number, []string{o.labels.Unresolved}); err != nil {
				return fmt.Errorf("failed to mark issue #%d unresolved: %w", issue.Number, err)
			}
			log.Info("closed issue with unfinished todos", "number", issue.Number)
		} else {
			log.Info("closed completed issue", "number", issue.Number)
		}
	}

	if err := o.states.MarkDeadlineProcessed(task.Category, today); err != nil {
		return fmt.Errorf("failed to record deadline processing for %s: %w", task.Category, err)
	}

	log.Info("deadline processed", "closed", len(issues))
	return nil
}

// ProcessAll runs ProcessCategory for every task in schedule order.
// The first failure aborts the remaining batch; unprocessed categories
// are picked up by the next trigger or the next catch-up pass.
func (o *Orchestrator) ProcessAll(ctx context.Context, sched *schedule.Schedule) error {
	for _, task := range sched.Tasks {
		if err := o.ProcessCategory(ctx, task, sched); err != nil {
			o.logger.WithOperation("deadline").Error("aborting deadline batch",
				"category", task.Category, "error", err)
			return err
		}
	}
	return nil
}

package orchestrator

import (
	"context"
	"errors"

	"github.com/kwalsh-dev/rota/internal/schedule"
)

// CatchUp runs one synchronous deadline pass followed by one creation
// pass. It is called on startup, before any triggers are registered, so
// a restart after downtime never loses a missed deadline or a missed
// midnight creation. Both passes are idempotent, so catching up when
// nothing was missed is harmless.
//
// Deadlines are processed first: that is what stamps the unresolved
// markers the creation pass migrates from.
func (o *Orchestrator) CatchUp(ctx context.Context, sched *schedule.Schedule, assignee string) error {
	log := o.logger.WithOperation("catchup")
	log.Info("running startup catch-up")

	var errs []error
	if err := o.ProcessAll(ctx, sched); err != nil {
		errs = append(errs, err)
	}
	if _, err := o.RunDailyCreation(ctx, sched, assignee); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Package orchestrator implements the task lifecycle engine: creating
// one tracked issue per due category per day, retiring open issues when
// their deadline passes, and carrying unfinished todos forward into the
// next day's issue. All decisions go through the state manager first,
// so every operation is idempotent and safe to re-run after restarts
// or missed trigger windows.
package orchestrator

import (
	"time"

	"github.com/kwalsh-dev/rota/internal/logging"
	"github.com/kwalsh-dev/rota/internal/state"
	"github.com/kwalsh-dev/rota/internal/tracker"
)

// Labels holds the label names the engine stamps on tracked issues.
type Labels struct {
	// Managed marks every issue this daemon owns. Listing always
	// filters on it so foreign issues are never touched.
	Managed string
	// Unresolved marks a closed issue that still has unchecked todos
	// waiting to be carried forward.
	Unresolved string
}

// Orchestrator coordinates the tracker client and the state manager.
// It holds no per-run state itself; schedules are always passed in.
type Orchestrator struct {
	tracker tracker.Client
	states  *state.Manager
	labels  Labels
	logger  *logging.Logger

	// now is injected in tests to pin the clock.
	now func() time.Time
}

// New creates an Orchestrator.
func New(client tracker.Client, states *state.Manager, labels Labels, logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Orchestrator{
		tracker: client,
		states:  states,
		labels:  labels,
		logger:  logger,
		now:     time.Now,
	}
}

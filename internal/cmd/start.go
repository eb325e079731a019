package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kwalsh-dev/rota/internal/config"
	"github.com/kwalsh-dev/rota/internal/schedule"
	"github.com/kwalsh-dev/rota/internal/scheduler"
	"github.com/kwalsh-dev/rota/internal/watch"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the rota daemon",
	Long: `Start the daemon: run a catch-up pass for anything missed while it
was down, then keep issues in sync with the schedule until interrupted.
Schedule file edits are picked up without a restart.`,
	RunE: runStartCmd,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStartCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()

	sched, err := schedule.Load(cfg.Schedule.Path)
	if err != nil {
		return fmt.Errorf("failed to load schedule: %w", err)
	}

	orch, states, client := buildOrchestrator(cfg, logger)

	assignee, err := resolveAssignee(cfg, client)
	if err != nil {
		return err
	}

	if err := ensureLabels(client, cfg, sched, logger); err != nil {
		return err
	}
	if err := states.EnsureCategories(sched.Tasks); err != nil {
		return fmt.Errorf("failed to initialize state records: %w", err)
	}

	logger.Info("daemon starting",
		"schedule", cfg.Schedule.Path,
		"tasks", len(sched.Tasks),
		"timezone", sched.Timezone,
		"assignee", assignee)

	// Catch up on anything missed while the daemon was down. A failure
	// here is logged, not fatal: the next trigger retries the same work.
	if err := orch.CatchUp(context.Background(), sched, assignee); err != nil {
		logger.Error("catch-up pass failed", "error", err)
	}

	// A scheduler is one-shot, so a schedule reload swaps in a fresh one.
	var mu sync.Mutex
	current := scheduler.New(orch, logger)
	if err := current.Start(sched, assignee); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	if cfg.Schedule.Watch {
		watcher, err := watch.NewScheduleWatcher(cfg.Schedule.Path, logger, func(next *schedule.Schedule) {
			mu.Lock()
			defer mu.Unlock()

			current.Stop()
			if err := states.EnsureCategories(next.Tasks); err != nil {
				logger.Error("failed to initialize records for reloaded schedule", "error", err)
			}
			if err := ensureLabels(client, cfg, next, logger); err != nil {
				logger.Error("failed to ensure labels for reloaded schedule", "error", err)
			}
			if err := orch.CatchUp(context.Background(), next, assignee); err != nil {
				logger.Error("catch-up after schedule reload failed", "error", err)
			}

			replacement := scheduler.New(orch, logger)
			if err := replacement.Start(next, assignee); err != nil {
				logger.Error("failed to restart scheduler after reload", "error", err)
				return
			}
			current = replacement
		})
		if err != nil {
			current.Stop()
			return fmt.Errorf("failed to watch schedule file: %w", err)
		}
		defer watcher.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("daemon shutting down", "signal", sig.String())
	mu.Lock()
	current.Stop()
	mu.Unlock()

	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/kwalsh-dev/rota/internal/config"
	"github.com/kwalsh-dev/rota/internal/schedule"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single lifecycle pass and exit",
	Long: `Process every deadline that has passed and create today's issues for
all due categories, then exit. This is the same pass the daemon runs on
startup and is safe to repeat; useful from cron or for a dry start.`,
	RunE: runRunCmd,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRunCmd(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()

	// Deadlines first, same order as the daemon's catch-up: the
	// unresolved markers stamped here feed the creation pass.
	if err := orch.ProcessAll(ctx, sched); err != nil {
		return fmt.Errorf("deadline pass failed: %w", err)
	}

	result, err := orch.RunDailyCreation(ctx, sched, assignee)
	if err != nil {
		return fmt.Errorf("creation pass failed: %w", err)
	}

	fmt.Printf("Created %d issue(s), skipped %d, failed %d\n",
		result.Created, result.Skipped, result.Failed)
	if result.Failed > 0 {
		return fmt.Errorf("%d categor(ies) failed; see the log for details", result.Failed)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/kwalsh-dev/rota/internal/config"
	"github.com/kwalsh-dev/rota/internal/logging"
	"github.com/kwalsh-dev/rota/internal/schedule"
	"github.com/kwalsh-dev/rota/internal/tracker"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare the tracker for the current schedule",
	Long: `Create the labels and the project board the daemon expects: the
managed and unresolved marker labels plus one label per scheduled
category. Existing labels and boards are left untouched.`,
	RunE: runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sched, err := schedule.Load(cfg.Schedule.Path)
	if err != nil {
		return fmt.Errorf("failed to load schedule: %w", err)
	}

	client := tracker.NewGitHubClient()

	if err := ensureLabels(client, cfg, sched, logging.NopLogger()); err != nil {
		return err
	}
	fmt.Printf("labels ready: %s, %s and %d categor(ies)\n",
		cfg.Tracker.ManagedLabel, cfg.Tracker.UnresolvedLabel, len(sched.Tasks))

	exists, err := client.ProjectExists(cfg.Tracker.Project)
	if err != nil {
		return fmt.Errorf("failed to check project board: %w", err)
	}
	if !exists {
		if err := client.CreateProject(cfg.Tracker.Project); err != nil {
			return fmt.Errorf("failed to create project board: %w", err)
		}
		fmt.Printf("created project board %q\n", cfg.Tracker.Project)
	} else {
		fmt.Printf("project board %q already exists\n", cfg.Tracker.Project)
	}

	return nil
}

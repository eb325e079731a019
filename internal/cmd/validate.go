package cmd

import (
	"fmt"

	"github.com/kwalsh-dev/rota/internal/config"
	"github.com/kwalsh-dev/rota/internal/schedule"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the schedule file",
	Long: `Parse and validate the schedule file without touching the tracker or
the state store. Exits non-zero if the schedule is invalid.`,
	RunE: runValidateCmd,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sched, err := schedule.Load(cfg.Schedule.Path)
	if err != nil {
		return fmt.Errorf("schedule %s is invalid: %w", cfg.Schedule.Path, err)
	}

	fmt.Printf("%s %s: %d task(s), timezone %s\n",
		okStyle.Render("valid"), cfg.Schedule.Path, len(sched.Tasks), sched.Timezone)
	for _, task := range sched.Tasks {
		fmt.Printf("  %s  %s at %s, %s\n",
			headerStyle.Render(task.Category), task.Name,
			task.Deadline.String(), task.Recurrence.String())
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/kwalsh-dev/rota/internal/config"
	"github.com/kwalsh-dev/rota/internal/schedule"
	"github.com/kwalsh-dev/rota/internal/state"
	"github.com/spf13/cobra"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-category lifecycle state",
	Long: `Display every scheduled category with its deadline, recurrence and
what the daemon has already done for it today.`,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sched, err := schedule.Load(cfg.Schedule.Path)
	if err != nil {
		return fmt.Errorf("failed to load schedule: %w", err)
	}

	states := state.NewManager(state.NewFileStore(cfg.State.Path, nil), nil)
	records, err := states.All()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	byCategory := make(map[string]state.CategoryState, len(records))
	for _, rec := range records {
		byCategory[rec.Category] = rec
	}

	fmt.Println(headerStyle.Render("Schedule"))
	fmt.Printf("  %s %s\n", labelStyle.Render("File:"), cfg.Schedule.Path)
	fmt.Printf("  %s %s\n", labelStyle.Render("Timezone:"), sched.Timezone)
	fmt.Printf("  %s %d\n\n", labelStyle.Render("Tasks:"), len(sched.Tasks))

	for _, task := range sched.Tasks {
		fmt.Printf("%s (%s)\n", headerStyle.Render(task.Category), task.Name)
		fmt.Printf("  %s %s\n", labelStyle.Render("Deadline:"), task.Deadline.String())
		fmt.Printf("  %s %s\n", labelStyle.Render("Recurs:"), task.Recurrence.String())
		fmt.Printf("  %s %s\n", labelStyle.Render("Last issue created:"), renderDate(byCategory[task.Category].LastCreatedDate))
		fmt.Printf("  %s %s\n\n", labelStyle.Render("Deadline processed:"), renderDate(byCategory[task.Category].DeadlineProcessedDate))
	}

	// Records for categories that left the schedule are kept on disk;
	// point them out so they can be cleaned up deliberately.
	for _, rec := range records {
		if sched.Task(rec.Category) == nil {
			fmt.Printf("%s %s\n", pendingStyle.Render("stale record:"), rec.Category)
		}
	}

	return nil
}

func renderDate(date string) string {
	if date == "" {
		return pendingStyle.Render("never")
	}
	return okStyle.Render(date)
}

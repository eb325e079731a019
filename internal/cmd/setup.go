package cmd

import (
	"fmt"

	"github.com/kwalsh-dev/rota/internal/config"
	"github.com/kwalsh-dev/rota/internal/logging"
	"github.com/kwalsh-dev/rota/internal/orchestrator"
	"github.com/kwalsh-dev/rota/internal/schedule"
	"github.com/kwalsh-dev/rota/internal/state"
	"github.com/kwalsh-dev/rota/internal/tracker"
)

// newLogger builds the logger described by the logging config.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewLogger(cfg.Logging.File, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// buildOrchestrator wires the tracker client, state manager and
// lifecycle engine from the config.
func buildOrchestrator(cfg *config.Config, logger *logging.Logger) (*orchestrator.Orchestrator, *state.Manager, tracker.Client) {
	client := tracker.NewGitHubClient()
	states := state.NewManager(state.NewFileStore(cfg.State.Path, logger), logger)
	orch := orchestrator.New(client, states, orchestrator.Labels{
		Managed:    cfg.Tracker.ManagedLabel,
		Unresolved: cfg.Tracker.UnresolvedLabel,
	}, logger)
	return orch, states, client
}

// resolveAssignee returns the configured assignee, falling back to the
// authenticated tracker user.
func resolveAssignee(cfg *config.Config, client tracker.Client) (string, error) {
	if cfg.Tracker.Assignee != "" {
		return cfg.Tracker.Assignee, nil
	}
	user, err := client.AuthenticatedUser()
	if err != nil {
		return "", fmt.Errorf("failed to resolve issue assignee: %w", err)
	}
	return user, nil
}

// ensureLabel creates the label if the repository does not have it yet.
// Returns true if the label was created.
func ensureLabel(client tracker.Client, name, color string) (bool, error) {
	exists, err := client.LabelExists(name)
	if err != nil {
		return false, fmt.Errorf("failed to check label %s: %w", name, err)
	}
	if exists {
		return false, nil
	}
	if err := client.CreateLabel(name, color); err != nil {
		return false, fmt.Errorf("failed to create label %s: %w", name, err)
	}
	return true, nil
}

// ensureLabels makes sure every label issue creation will stamp exists:
// the managed and unresolved markers plus one label per category.
func ensureLabels(client tracker.Client, cfg *config.Config, sched *schedule.Schedule, logger *logging.Logger) error {
	labels := []struct {
		name  string
		color string
	}{
		{cfg.Tracker.ManagedLabel, cfg.Tracker.ManagedLabelColor},
		{cfg.Tracker.UnresolvedLabel, cfg.Tracker.UnresolvedLabelColor},
	}
	for _, task := range sched.Tasks {
		labels = append(labels, struct {
			name  string
			color string
		}{task.Category, cfg.Tracker.CategoryLabelColor})
	}

	for _, l := range labels {
		created, err := ensureLabel(client, l.name, l.color)
		if err != nil {
			return err
		}
		if created {
			logger.Info("created tracker label", "label", l.name, "color", l.color)
		}
	}
	return nil
}

package state

import (
	"fmt"

	"github.com/kwalsh-dev/rota/internal/logging"
	"github.com/kwalsh-dev/rota/internal/schedule"
)

// Manager answers the lifecycle questions the orchestrator and the
// deadline processor ask of persisted state, on top of any Store
// implementation. Every mutation is a load-merge-save over the whole
// collection, scoped to a single category record.
type Manager struct {
	store  Store
	logger *logging.Logger
}

// NewManager creates a Manager over the given store.
func NewManager(store Store, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Manager{store: store, logger: logger}
}

// Get returns the record for the given category, and whether it exists.
func (m *Manager) Get(category string) (CategoryState, bool, error) {
	states, err := m.store.Load()
	if err != nil {
		return CategoryState{}, false, err
	}
	for _, st := range states {
		if st.Category == category {
			return st, true, nil
		}
	}
	return CategoryState{}, false, nil
}

// All returns every persisted record.
func (m *Manager) All() ([]CategoryState, error) {
	return m.store.Load()
}

// EnsureCategories appends a fresh record for every schedule category
// that does not have one yet. Existing records keep their dates, and
// their deadline is refreshed from the schedule. Records for
// categories no longer in the schedule are left alone; removing them
// is an external cleanup decision, not the daemon's.
func (m *Manager) EnsureCategories(tasks []schedule.TaskSpec) error {
	states, err := m.store.Load()
	if err != nil {
		return err
	}

	byCategory := make(map[string]int, len(states))
	for i, st := range states {
		byCategory[st.Category] = i
	}

	changed := false
	for _, task := range tasks {
		if i, ok := byCategory[task.Category]; ok {
			if states[i].Deadline != task.Deadline.String() {
				states[i].Deadline = task.Deadline.String()
				changed = true
			}
			continue
		}
		states = append(states, CategoryState{
			Category: task.Category,
			Deadline: task.Deadline.String(),
		})
		changed = true
	}

	if !changed {
		return nil
	}
	if err := m.store.Save(states); err != nil {
		return fmt.Errorf("failed to persist category records: %w", err)
	}
	return nil
}

// UpdateCategory loads the collection, applies update to the matching
// record and saves. An unknown category is logged and ignored, never
// an error: it means the schedule and the state file disagree, which
// the next EnsureCategories pass repairs.
func (m *Manager) UpdateCategory(category string, update func(*CategoryState)) error {
	states, err := m.store.Load()
	if err != nil {
		return err
	}

	for i := range states {
		if states[i].Category == category {
			update(&states[i])
			if err := m.store.Save(states); err != nil {
				return fmt.Errorf("failed to persist state for category %s: %w", category, err)
			}
			return nil
		}
	}

	m.logger.Warn("update for unknown category ignored", "category", category)
	return nil
}

// NeedsIssueCreation reports whether an issue still has to be created
// for the category on the given date: true when no record exists or
// the last creation happened on a different date.
func (m *Manager) NeedsIssueCreation(category, date string) (bool, error) {
	st, ok, err := m.Get(category)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return st.LastCreatedDate != date, nil
}

// NeedsDeadlineProcessing reports whether the category's deadline still
// has to be processed on the given date. No record means nothing was
// ever created, hence nothing to process.
func (m *Manager) NeedsDeadlineProcessing(category, date string) (bool, error) {
	st, ok, err := m.Get(category)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return st.DeadlineProcessedDate != date, nil
}

// MarkIssueCreated records a successful issue creation for the date.
func (m *Manager) MarkIssueCreated(category, date string) error {
	return m.UpdateCategory(category, func(st *CategoryState) {
		st.LastCreatedDate = date
	})
}

// MarkDeadlineProcessed records a completed deadline pass for the date.
func (m *Manager) MarkDeadlineProcessed(category, date string) error {
	return m.UpdateCategory(category, func(st *CategoryState) {
		st.DeadlineProcessedDate = date
	})
}

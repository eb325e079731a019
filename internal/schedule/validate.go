package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ValidationError represents a single schedule validation failure.
type ValidationError struct {
	Field   string // The field path (e.g., "tasks[2].deadline")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// categoryRegex constrains categories to strings usable verbatim as
// tracker labels and state-store keys.
var categoryRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// Validate checks the schedule for invalid values and returns all
// validation errors found. A schedule that fails validation must never
// reach the orchestrator; every downstream component assumes these
// invariants hold.
func (s *Schedule) Validate() []ValidationError {
	var errors []ValidationError

	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			errors = append(errors, ValidationError{
				Field:   "timezone",
				Value:   s.Timezone,
				Message: "unknown timezone name",
			})
		}
	}

	if len(s.Tasks) == 0 {
		errors = append(errors, ValidationError{
			Field:   "tasks",
			Value:   len(s.Tasks),
			Message: "schedule must contain at least one task",
		})
	}

	seen := make(map[string]int)
	for i, task := range s.Tasks {
		field := func(name string) string {
			return fmt.Sprintf("tasks[%d].%s", i, name)
		}

		if task.Category == "" {
			errors = append(errors, ValidationError{
				Field:   field("category"),
				Value:   task.Category,
				Message: "category is required",
			})
		} else if !categoryRegex.MatchString(task.Category) {
			errors = append(errors, ValidationError{
				Field:   field("category"),
				Value:   task.Category,
				Message: "category must start with a letter and contain only letters, digits, hyphens and underscores",
			})
		} else if prev, dup := seen[task.Category]; dup {
			errors = append(errors, ValidationError{
				Field:   field("category"),
				Value:   task.Category,
				Message: fmt.Sprintf("duplicate category (already declared at tasks[%d])", prev),
			})
		} else {
			seen[task.Category] = i
		}

		if task.Name == "" {
			errors = append(errors, ValidationError{
				Field:   field("name"),
				Value:   task.Name,
				Message: "name is required",
			})
		}

		// Midnight is reserved for the daily creation trigger; a 00:00
		// deadline would make the same category's creation and deadline
		// processing race each other.
		if task.Deadline == (ClockTime{}) {
			errors = append(errors, ValidationError{
				Field:   field("deadline"),
				Value:   task.Deadline.String(),
				Message: "deadline is required and must not be 00:00",
			})
		}

		if !task.Recurrence.Daily && len(task.Recurrence.Days) == 0 && len(task.Recurrence.Unknown) == 0 {
			errors = append(errors, ValidationError{
				Field:   field("recurrence.days"),
				Value:   "",
				Message: fmt.Sprintf("recurrence requires %q or a non-empty list of weekdays", EveryDay),
			})
		}
		for _, name := range task.Recurrence.Unknown {
			errors = append(errors, ValidationError{
				Field:   field("recurrence.days"),
				Value:   name,
				Message: "unknown weekday name",
			})
		}
	}

	return errors
}

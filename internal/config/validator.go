package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "tracker.managed_label")
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

// labelRegex constrains label names to what GitHub accepts without
// quoting trouble in gh invocations.
var labelRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9 _:-]*$`)

// colorRegex matches a 6-digit hex color without the leading #.
var colorRegex = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all
// validation errors found.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Schedule.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "schedule.path",
			Value:   c.Schedule.Path,
			Message: "schedule path is required",
		})
	}
	if c.State.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "state.path",
			Value:   c.State.Path,
			Message: "state path is required",
		})
	}

	errors = append(errors, c.validateTracker()...)

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must not be negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must not be negative",
		})
	}

	return errors
}

func (c *Config) validateTracker() []ValidationError {
	var errors []ValidationError

	labels := []struct {
		field string
		value string
	}{
		{"tracker.managed_label", c.Tracker.ManagedLabel},
		{"tracker.unresolved_label", c.Tracker.UnresolvedLabel},
	}
	for _, l := range labels {
		if l.value == "" {
			errors = append(errors, ValidationError{
				Field:   l.field,
				Value:   l.value,
				Message: "label name is required",
			})
		} else if !labelRegex.MatchString(l.value) {
			errors = append(errors, ValidationError{
				Field:   l.field,
				Value:   l.value,
				Message: "label must start with a letter and contain only letters, digits, spaces, colons, hyphens and underscores",
			})
		}
	}

	if c.Tracker.ManagedLabel != "" && c.Tracker.ManagedLabel == c.Tracker.UnresolvedLabel {
		errors = append(errors, ValidationError{
			Field:   "tracker.unresolved_label",
			Value:   c.Tracker.UnresolvedLabel,
			Message: "must differ from tracker.managed_label",
		})
	}

	colors := []struct {
		field string
		value string
	}{
		{"tracker.managed_label_color", c.Tracker.ManagedLabelColor},
		{"tracker.unresolved_label_color", c.Tracker.UnresolvedLabelColor},
		{"tracker.category_label_color", c.Tracker.CategoryLabelColor},
	}
	for _, col := range colors {
		if col.value != "" && !colorRegex.MatchString(col.value) {
			errors = append(errors, ValidationError{
				Field:   col.field,
				Value:   col.value,
				Message: "must be a 6-digit hex color without the leading #",
			})
		}
	}

	return errors
}

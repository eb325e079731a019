// Package schedule defines the recurring-task schedule: the task specs
// loaded from the schedule file, their recurrence rules and deadline
// times, and the validation applied before the daemon runs. The loaded
// Schedule is read-only for the duration of a run and is always passed
// explicitly; nothing in this codebase reads it from ambient state.
package schedule

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ClockTime is a time-of-day deadline in the schedule's timezone,
// parsed from "HH:MM".
type ClockTime struct {
	Hour   int
	Minute int
}

// clockTimeRegex anchors the whole string so trailing garbage like
// "18:00pm" is rejected, not truncated.
var clockTimeRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseClockTime parses "HH:MM" in 24-hour form.
func ParseClockTime(s string) (ClockTime, error) {
	match := clockTimeRegex.FindStringSubmatch(s)
	if match == nil {
		return ClockTime{}, fmt.Errorf("invalid deadline %q: expected HH:MM", s)
	}
	h, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	if h > 23 || m > 59 {
		return ClockTime{}, fmt.Errorf("invalid deadline %q: hour must be 0-23 and minute 0-59", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// String renders the time as zero-padded "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant this clock time falls on the given date in
// the given location.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// UnmarshalYAML decodes a ClockTime from an "HH:MM" scalar.
func (c *ClockTime) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML renders the ClockTime back to its "HH:MM" form.
func (c ClockTime) MarshalYAML() (any, error) {
	return c.String(), nil
}

// TaskSpec is one recurring task line in the schedule. Category is the
// globally unique key tying the spec to its tracker label and its
// state-store record.
type TaskSpec struct {
	Category    string     `yaml:"category"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Deadline    ClockTime  `yaml:"deadline"`
	Recurrence  Recurrence `yaml:"recurrence"`
}

// Schedule is the validated, in-memory schedule definition.
type Schedule struct {
	Timezone string     `yaml:"timezone"`
	Tasks    []TaskSpec `yaml:"tasks"`
}

// Location resolves the schedule's timezone, defaulting to the local
// zone when unset. Validation guarantees the name parses.
func (s *Schedule) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Task returns the spec for the given category, or nil if the schedule
// does not contain it.
func (s *Schedule) Task(category string) *TaskSpec {
	for i := range s.Tasks {
		if s.Tasks[i].Category == category {
			return &s.Tasks[i]
		}
	}
	return nil
}

// DeadlineTimes returns the distinct deadline times across all tasks,
// in first-appearance order. The trigger scheduler registers one daily
// trigger per entry.
func (s *Schedule) DeadlineTimes() []ClockTime {
	seen := make(map[ClockTime]bool)
	var times []ClockTime
	for _, task := range s.Tasks {
		if !seen[task.Deadline] {
			seen[task.Deadline] = true
			times = append(times, task.Deadline)
		}
	}
	return times
}

// TasksAt returns the tasks whose deadline equals the given time, in
// schedule order.
func (s *Schedule) TasksAt(deadline ClockTime) []TaskSpec {
	var tasks []TaskSpec
	for _, task := range s.Tasks {
		if task.Deadline == deadline {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// Load reads, parses and validates the schedule file at path.
func Load(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates schedule YAML.
func Parse(data []byte) (*Schedule, error) {
	var sched Schedule
	if err := yaml.Unmarshal(data, &sched); err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}
	if errs := sched.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &sched, nil
}

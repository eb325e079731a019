package schedule

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EveryDay is the literal accepted in place of a weekday list.
const EveryDay = "every day"

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Recurrence describes which dates a task is due. Either Daily is set,
// or Days holds the configured weekday set. Raw weekday names that did
// not parse are kept in Unknown so validation can report them.
type Recurrence struct {
	Daily   bool
	Days    map[time.Weekday]bool
	Unknown []string
}

// IsDue reports whether the task is due on the given date. Pure and
// total: an empty day set is simply never due (validation rejects that
// configuration before it gets here).
func (r Recurrence) IsDue(date time.Time) bool {
	if r.Daily {
		return true
	}
	return r.Days[date.Weekday()]
}

// String renders the recurrence for logs and the status display.
func (r Recurrence) String() string {
	if r.Daily {
		return EveryDay
	}
	var names []string
	for d := time.Sunday; d <= time.Saturday; d++ {
		if r.Days[d] {
			names = append(names, strings.ToLower(d.String()))
		}
	}
	return strings.Join(names, ", ")
}

// UnmarshalYAML decodes the recurrence "days" field, which is either
// the literal "every day" or a list of weekday names.
func (r *Recurrence) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Days yaml.Node `yaml:"days"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	switch raw.Days.Kind {
	case yaml.ScalarNode:
		var s string
		if err := raw.Days.Decode(&s); err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(s), EveryDay) {
			r.Daily = true
			return nil
		}
		return fmt.Errorf("recurrence days must be %q or a list of weekday names, got %q", EveryDay, s)
	case yaml.SequenceNode:
		var names []string
		if err := raw.Days.Decode(&names); err != nil {
			return err
		}
		r.Days = make(map[time.Weekday]bool)
		for _, name := range names {
			day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				r.Unknown = append(r.Unknown, name)
				continue
			}
			r.Days[day] = true
		}
		return nil
	case 0:
		// Missing days field; caught by validation.
		return nil
	default:
		return fmt.Errorf("recurrence days must be %q or a list of weekday names", EveryDay)
	}
}

// MarshalYAML renders the recurrence back to schedule-file form.
func (r Recurrence) MarshalYAML() (any, error) {
	if r.Daily {
		return map[string]string{"days": EveryDay}, nil
	}
	var names []string
	for d := time.Sunday; d <= time.Saturday; d++ {
		if r.Days[d] {
			names = append(names, strings.ToLower(d.String()))
		}
	}
	return map[string][]string{"days": names}, nil
}

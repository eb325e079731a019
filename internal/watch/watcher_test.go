package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kwalsh-dev/rota/internal/schedule"
)

const scheduleYAML = `
timezone: UTC
tasks:
  - category: study
    name: Daily Study
    deadline: "18:00"
    recurrence:
      days: every day
`

const updatedYAML = `
timezone: UTC
tasks:
  - category: study
    name: Daily Study
    deadline: "18:00"
    recurrence:
      days: every day
  - category: gym
    name: Gym
    deadline: "20:00"
    recurrence:
      days: every day
`

func writeSchedule(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write schedule: %v", err)
	}
}

func TestScheduleWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.yaml")
	writeSchedule(t, path, scheduleYAML)

	reloaded := make(chan *schedule.Schedule, 4)
	sw, err := NewScheduleWatcher(path, nil, func(s *schedule.Schedule) {
		reloaded <- s
	})
	if err != nil {
		t.Fatalf("NewScheduleWatcher failed: %v", err)
	}
	defer sw.Stop()

	writeSchedule(t, path, updatedYAML)

	select {
	case sched := <-reloaded:
		if len(sched.Tasks) != 2 {
			t.Errorf("reloaded schedule has %d tasks, want 2", len(sched.Tasks))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("schedule was not reloaded")
	}
}

func TestScheduleWatcherKeepsOldScheduleOnInvalidEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.yaml")
	writeSchedule(t, path, scheduleYAML)

	reloaded := make(chan *schedule.Schedule, 4)
	sw, err := NewScheduleWatcher(path, nil, func(s *schedule.Schedule) {
		reloaded <- s
	})
	if err != nil {
		t.Fatalf("NewScheduleWatcher failed: %v", err)
	}
	defer sw.Stop()

	writeSchedule(t, path, "tasks: [this is not a valid schedule")

	select {
	case sched := <-reloaded:
		t.Errorf("invalid schedule must not trigger the callback, got %+v", sched)
	case <-time.After(1 * time.Second):
	}
}

func TestScheduleWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.yaml")
	writeSchedule(t, path, scheduleYAML)

	reloaded := make(chan *schedule.Schedule, 4)
	sw, err := NewScheduleWatcher(path, nil, func(s *schedule.Schedule) {
		reloaded <- s
	})
	if err != nil {
		t.Fatalf("NewScheduleWatcher failed: %v", err)
	}
	defer sw.Stop()

	writeSchedule(t, filepath.Join(dir, "other.yaml"), updatedYAML)

	select {
	case <-reloaded:
		t.Error("sibling file changes must not trigger a reload")
	case <-time.After(1 * time.Second):
	}
}

func TestScheduleWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.yaml")
	writeSchedule(t, path, scheduleYAML)

	sw, err := NewScheduleWatcher(path, nil, func(*schedule.Schedule) {})
	if err != nil {
		t.Fatalf("NewScheduleWatcher failed: %v", err)
	}

	sw.Stop()
	sw.Stop()
}

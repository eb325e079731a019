package config

import (
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default config should validate, got: %v", errs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "missing schedule path",
			mutate:    func(c *Config) { c.Schedule.Path = "" },
			wantField: "schedule.path",
		},
		{
			name:      "missing state path",
			mutate:    func(c *Config) { c.State.Path = "" },
			wantField: "state.path",
		},
		{
			name:      "missing managed label",
			mutate:    func(c *Config) { c.Tracker.ManagedLabel = "" },
			wantField: "tracker.managed_label",
		},
		{
			name:      "label with shell metacharacters",
			mutate:    func(c *Config) { c.Tracker.UnresolvedLabel = "bad;label" },
			wantField: "tracker.unresolved_label",
		},
		{
			name: "managed and unresolved labels collide",
			mutate: func(c *Config) {
				c.Tracker.ManagedLabel = "rota"
				c.Tracker.UnresolvedLabel = "rota"
			},
			wantField: "tracker.unresolved_label",
		},
		{
			name:      "bad label color",
			mutate:    func(c *Config) { c.Tracker.ManagedLabelColor = "#ff0000" },
			wantField: "tracker.managed_label_color",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
		{
			name:      "negative rotation size",
			mutate:    func(c *Config) { c.Logging.MaxSizeMB = -1 },
			wantField: "logging.max_size_mb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "first"},
		{Field: "b", Value: 2, Message: "second"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("message should count errors: %q", msg)
	}
	if !strings.Contains(msg, "a: first") || !strings.Contains(msg, "b: second") {
		t.Errorf("message should include each error: %q", msg)
	}

	single := ValidationErrors{{Field: "a", Value: 1, Message: "only"}}
	if single.Error() != "a: only (got: 1)" {
		t.Errorf("single error message = %q", single.Error())
	}
}

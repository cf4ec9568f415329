package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Calendar.Variant != "Iran" {
		t.Errorf("Variant = %q, want Iran", cfg.Calendar.Variant)
	}
	if len(cfg.Calendar.Members) != 3 {
		t.Fatalf("Members = %d, want 3", len(cfg.Calendar.Members))
	}
	if !cfg.Calendar.Members[0].Formal || cfg.Calendar.Members[2].Formal {
		t.Errorf("unexpected formal flags: %+v", cfg.Calendar.Members)
	}
	if cfg.Calendar.WeekStart != -1 {
		t.Errorf("WeekStart = %d, want -1", cfg.Calendar.WeekStart)
	}
	if cfg.State.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.State.Backend)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
calendar:
  variant: ""
  timezone: UTC
  selected: Gregorian
  members:
    - name: Gregorian
    - name: Persian
      variant: "2820"
      formal: true
state:
  backend: sqlite
  dsn: /tmp/cal.db
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Calendar.Members) != 2 || cfg.Calendar.Members[1].Variant != "2820" {
		t.Errorf("Members = %+v", cfg.Calendar.Members)
	}
	if cfg.State.Backend != "sqlite" || cfg.State.DSN != "/tmp/cal.db" {
		t.Errorf("State = %+v", cfg.State)
	}
	loc, err := cfg.Calendar.GetLocation()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("GetLocation() = %v, %v", loc, err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Calendar: CalendarConfig{
				Members:   DefaultMembers(),
				Timezone:  "UTC",
				WeekStart: -1,
			},
			State: StateConfig{Backend: "file", Dir: "/tmp/sessions"},
			Log:   LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"no members", func(c *Config) { c.Calendar.Members = nil }, true},
		{"duplicate member", func(c *Config) {
			c.Calendar.Members = append(c.Calendar.Members, MemberConfig{Name: "persian"})
		}, true},
		{"unknown selected", func(c *Config) { c.Calendar.Selected = "Hebrew" }, true},
		{"selected member", func(c *Config) { c.Calendar.Selected = "islamic" }, false},
		{"week start out of range", func(c *Config) { c.Calendar.WeekStart = 7 }, true},
		{"bad timezone", func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" }, true},
		{"bad backend", func(c *Config) { c.State.Backend = "redis" }, true},
		{"sqlite without dsn", func(c *Config) { c.State.Backend = "sqlite" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

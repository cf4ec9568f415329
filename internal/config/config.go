package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	State    StateConfig    `mapstructure:"state"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig describes the calendar a new session starts with
type CalendarConfig struct {
	Variant      string         `mapstructure:"variant"` // Preferred variation for members without one
	Members      []MemberConfig `mapstructure:"members" validate:"min=1,dive"`
	Selected     string         `mapstructure:"selected"`
	Timezone     string         `mapstructure:"timezone" validate:"required"`
	WeekStart    int            `mapstructure:"week_start" validate:"min=-1,max=6"` // -1 keeps the selected system's
	HolidayFiles []string       `mapstructure:"holiday_files" validate:"dive,required"`
	FitRows      bool           `mapstructure:"fit_rows"`
}

// MemberConfig represents one calendar system of a session
type MemberConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Variant string `mapstructure:"variant"`
	Formal  bool   `mapstructure:"formal"`
}

// StateConfig represents session storage configuration
type StateConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=file sqlite"`
	Dir     string `mapstructure:"dir"`
	DSN     string `mapstructure:"dsn"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultMembers is the Iranian three-calendar setup.
func DefaultMembers() []MemberConfig {
	return []MemberConfig{
		{Name: "Persian", Formal: true},
		{Name: "Islamic", Formal: true},
		{Name: "Gregorian"},
	}
}

// Load loads configuration from file. A missing file leaves the defaults.
func Load(configPath string) (*Config, error) {
	// Values from .env become visible to AutomaticEnv
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.multicalendar")
		v.AddConfigPath("/etc/multicalendar")
	}

	// Read environment variables, e.g. MULTICALENDAR_STATE_BACKEND
	v.SetEnvPrefix("multicalendar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(config.Calendar.Members) == 0 {
		config.Calendar.Members = DefaultMembers()
	}
	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".multicalendar")

	v.SetDefault("calendar.variant", "Iran")
	v.SetDefault("calendar.timezone", "Local")
	v.SetDefault("calendar.week_start", -1)
	v.SetDefault("calendar.fit_rows", true)
	v.SetDefault("state.backend", "file")
	v.SetDefault("state.dir", filepath.Join(base, "sessions"))
	v.SetDefault("state.dsn", filepath.Join(base, "sessions.db"))
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	seen := make(map[string]bool)
	selectedFound := c.Calendar.Selected == ""
	for _, m := range c.Calendar.Members {
		key := strings.ToLower(m.Name)
		if seen[key] {
			return fmt.Errorf("calendar.members: %s listed twice", m.Name)
		}
		seen[key] = true
		if strings.EqualFold(m.Name, c.Calendar.Selected) {
			selectedFound = true
		}
	}
	if !selectedFound {
		return fmt.Errorf("calendar.selected %q is not a member", c.Calendar.Selected)
	}

	if _, err := c.Calendar.GetLocation(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}

	switch c.State.Backend {
	case "file":
		if c.State.Dir == "" {
			return fmt.Errorf("state.dir is required for file backend")
		}
	case "sqlite":
		if c.State.DSN == "" {
			return fmt.Errorf("state.dsn is required for sqlite backend")
		}
	}

	return nil
}

// GetLocation returns the location used to determine today's date
func (c *CalendarConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.State.Dir = os.ExpandEnv(c.State.Dir)
	c.State.DSN = os.ExpandEnv(c.State.DSN)
	c.Log.File = os.ExpandEnv(c.Log.File)
	for i, f := range c.Calendar.HolidayFiles {
		c.Calendar.HolidayFiles[i] = os.ExpandEnv(f)
	}
}

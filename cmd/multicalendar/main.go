package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/multicalendar/internal/calendar"
	"github.com/username/multicalendar/internal/config"
	"github.com/username/multicalendar/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	sessionID  string
	logger     *zap.Logger = zap.NewNop()
	cfg        *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "multicalendar",
		Short:         "Multi-system calendar navigator",
		Long:          "Navigate Gregorian, Persian and Islamic calendars kept in step on one absolute day index",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "default", "Session id")

	rootCmd.AddCommand(
		initCmd(),
		showCmd(),
		moveCmd(),
		gotoCmd(),
		todayCmd(),
		selectCmd(),
		execCmd(),
		rangeCmd(),
		monthCmd(),
		leapCmd(),
		systemsCmd(),
		listCmd(),
		resetCmd(),
	)

	return rootCmd
}

// app holds the collaborators a session command needs.
type app struct {
	registry *calendar.Registry
	store    session.Store
	manager  *session.Manager
	location *time.Location
}

func openApp() (*app, error) {
	registry := calendar.NewRegistry()
	if err := calendar.LoadHolidayFiles(registry, cfg.Calendar.HolidayFiles, logger); err != nil {
		return nil, fmt.Errorf("failed to load holiday files: %w", err)
	}

	loc, err := cfg.Calendar.GetLocation()
	if err != nil {
		return nil, err
	}

	var store session.Store
	switch cfg.State.Backend {
	case "sqlite":
		logger.Debug("Using sqlite session store", zap.String("dsn", cfg.State.DSN))
		store, err = session.NewSQLStore(cfg.State.DSN, logger)
	default:
		logger.Debug("Using file session store", zap.String("dir", cfg.State.Dir))
		store, err = session.NewFileStore(cfg.State.Dir, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	opts := session.BuildOptions{Logger: logger, Clock: time.Now, Location: loc}
	return &app{
		registry: registry,
		store:    store,
		manager:  session.NewManager(store, registry, opts, logger),
		location: loc,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close session store", zap.Error(err))
	}
	_ = logger.Sync()
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err == nil {
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}

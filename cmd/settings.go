package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings holds CLI-level options: flags first, then MDINDEX_* environment
// variables, then defaults.
var settings = viper.New()

func initSettings(root *cobra.Command) {
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	_ = settings.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = settings.BindPFlag("log_format", root.PersistentFlags().Lookup("log-format"))

	// Environment variables with MDINDEX_ prefix
	settings.SetEnvPrefix("MDINDEX")
	settings.AutomaticEnv()
}

// newLogger builds the run's logger. Logs go to w (stderr), never stdout,
// which carries the book back to mdBook. Each run is tagged with an id so
// the lines of one build can be told apart.
func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format := settings.GetString("log_format"); format {
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %q (valid options: text, json)", format)
	}

	return slog.New(handler).With("run", uuid.NewString()), nil
}

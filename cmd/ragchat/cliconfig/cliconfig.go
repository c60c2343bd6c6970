// Package cliconfig resolves the settings shared by every ragchat command:
// the persistent flags on the root command layered over config.Load.
package cliconfig

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/client"
	"github.com/papercomputeco/ragchat/config"
	"github.com/papercomputeco/ragchat/pkg/logger"
)

const (
	FlagConfig  = "config"
	FlagURL     = "url"
	FlagToken   = "token"
	FlagDebug   = "debug"
	FlagLogFile = "log-file"
	FlagNoColor = "no-color"
)

// AddFlags registers the shared flags as persistent flags of cmd.
func AddFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String(FlagConfig, "", "Path to config file (default ~/.ragchat/config.toml)")
	f.String(FlagURL, "", "Backend base URL (default "+config.DefaultBaseURL+")")
	f.String(FlagToken, "", "Bearer token sent to the backend")
	f.Bool(FlagDebug, false, "Enable debug logging")
	f.String(FlagLogFile, "", "Write logs to this file instead of stderr")
	f.Bool(FlagNoColor, false, "Disable colored output")
}

// Resolve loads the configuration and applies any shared flags that were
// set on the command line. Flags missing from cmd are ignored.
func Resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(stringFlag(cmd, FlagConfig))
	if err != nil {
		return nil, err
	}

	if changed(cmd, FlagURL) {
		cfg.BaseURL = stringFlag(cmd, FlagURL)
	}
	if changed(cmd, FlagToken) {
		cfg.Token = stringFlag(cmd, FlagToken)
	}
	if changed(cmd, FlagDebug) {
		cfg.Debug = cmd.Flags().Lookup(FlagDebug).Value.String() == "true"
	}
	if changed(cmd, FlagLogFile) {
		cfg.LogFile = stringFlag(cmd, FlagLogFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// NoColor reports whether --no-color was given.
func NoColor(cmd *cobra.Command) bool {
	return changed(cmd, FlagNoColor) && cmd.Flags().Lookup(FlagNoColor).Value.String() == "true"
}

// ColorProfile is the profile output to w should use.
func ColorProfile(cmd *cobra.Command, w io.Writer) termenv.Profile {
	if NoColor(cmd) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).Profile
}

// NewLogger builds the command logger: the configured log file, or the
// fallback writer when none is set. The returned func flushes and closes.
func NewLogger(cfg *config.Config, fallback io.Writer) (*zap.Logger, func(), error) {
	if cfg.LogFile != "" {
		l, closer, err := logger.NewFileLogger(cfg.Debug, cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		return l, func() { _ = closer() }, nil
	}

	if fallback == nil {
		return zap.NewNop(), func() {}, nil
	}

	l := logger.NewLogger(cfg.Debug, fallback)
	return l, func() { _ = l.Sync() }, nil
}

// NewClient builds a backend client from cfg.
func NewClient(cfg *config.Config, log *zap.Logger) *client.Client {
	return client.New(client.Config{
		BaseURL:        cfg.BaseURL,
		Token:          cfg.Token,
		RequestTimeout: cfg.RequestTimeout,
		ConnectTimeout: cfg.ConnectTimeout,
	}, log)
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func stringFlag(cmd *cobra.Command, name string) string {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

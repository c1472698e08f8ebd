package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/nirmaan/scorer/internal/projectconfig"
	"github.com/nirmaan/scorer/internal/scoreclient"
	"github.com/spf13/cobra"
)

var version = "dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	debug      bool
	baseURL    string
	configPath string
	jsonOut    bool
	output     string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "scorer",
		Short: "Scorer - score spoken self-introductions",
		Long: `Scorer submits a self-introduction to a scoring service and shows the result.

Submit a typed transcript, or an audio recording that the service transcribes
before scoring. The service location and defaults come from .scorer.yaml,
SCORER_* environment variables (a .env file is loaded first) and flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.baseURL, "base-url", "", "Scoring service base URL (overrides config)")
	flags.StringVar(&opts.configPath, "config", "", "Path to a config file (default: nearest "+projectconfig.FileName+")")
	flags.BoolVar(&opts.jsonOut, "json", false, "Print only the result JSON")
	flags.StringVarP(&opts.output, "output", "o", "", "Also write the result JSON to this file")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}

	cmd.AddCommand(newTextCommand(opts))
	cmd.AddCommand(newAudioCommand(opts))
	cmd.AddCommand(newInteractiveCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}

// loadConfig resolves the effective configuration: defaults, then the config
// file, then environment variables, then --base-url.
func (o *rootOptions) loadConfig() (*projectconfig.ProjectConfig, error) {
	var (
		cfg *projectconfig.ProjectConfig
		err error
	)
	if o.configPath != "" {
		cfg, err = projectconfig.LoadFile(o.configPath)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		cfg, err = projectconfig.Load(wd)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		cfg.Server.BaseURL = o.baseURL
	}
	slog.Debug("Config loaded", "path", cfg.Path, "baseURL", cfg.Server.BaseURL, "timeout", cfg.Server.Timeout)
	return cfg, nil
}

func newClient(cfg *projectconfig.ProjectConfig) (*scoreclient.Client, error) {
	opts := []scoreclient.Option{
		scoreclient.WithLogger(slog.Default()),
		scoreclient.WithUserAgent("scorer/" + version),
	}
	if cfg.Server.Timeout > 0 {
		opts = append(opts, scoreclient.WithTimeout(time.Duration(cfg.Server.Timeout)*time.Second))
	}
	return scoreclient.New(cfg.Server.BaseURL, opts...)
}

// durationText is the raw duration used when --duration is not given.
func durationText(cfg *projectconfig.ProjectConfig) string {
	if cfg.Defaults.DurationSec == nil {
		return strconv.FormatFloat(projectconfig.DefaultDurationSec, 'f', -1, 64)
	}
	return strconv.FormatFloat(*cfg.Defaults.DurationSec, 'f', -1, 64)
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

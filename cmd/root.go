// Package cmd contains all CLI command definitions.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tracehq/trace-cli/internal/config"
	"github.com/tracehq/trace-cli/internal/ctxlog"
	"github.com/tracehq/trace-cli/internal/env"
	"github.com/tracehq/trace-cli/internal/keyring"
	"github.com/tracehq/trace-cli/internal/output"
	"github.com/tracehq/trace-cli/internal/ui"
)

// skipEnvAnnotation marks commands that must run without loading the env file.
const skipEnvAnnotation = "trace/skip-env"

// passphraseVar lets scripts unlock a sealed env file without a prompt.
const passphraseVar = "TRACE_ENV_PASSPHRASE"

var (
	cfgFile      string
	envFile      string
	outputFormat string
	debug        bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "trace",
	Short: "Trace data CLI",
	Long: `Trace command-line helpers: date ranges, table/CSV/JSON output,
credential loading and MySQL/Redshift/Stripe connection checks.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits on error. An interrupt cancels
// the command context so indicators are stopped and the line is cleared.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Build the default config path hint from the active build mode so the
	// help text always reflects the real default location.
	defaultCfgHint := "auto"
	if dir, err := config.ConfigDir(); err == nil {
		defaultCfgHint = dir + "/config.yaml"
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: "+defaultCfgHint+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file, searched upwards from the working directory (default: "+env.DefaultFile+")")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, csv, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging on stderr")
}

// initConfig reads the configuration file and environment variables.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.ConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "could not determine config directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup installs the logger in the command context and loads the env file.
func setup(cmd *cobra.Command, _ []string) error {
	logger := ctxlog.New(os.Stderr, debug)
	slog.SetDefault(logger)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))

	if cmd.Annotations[skipEnvAnnotation] != "" {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return loadEnvironment(logger, cfg)
}

// loadEnvironment exports the dotenv file. A sealed "<file>.age" takes
// precedence over the plain file when both exist.
func loadEnvironment(logger *slog.Logger, cfg *config.Config) error {
	name := envFile
	if name == "" {
		name = cfg.Env.File
	}

	if path, ok := env.Find(name + env.SealedSuffix); ok {
		return loadSealed(logger, cfg, path)
	}

	path, loaded, err := env.Load(name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	logger.Debug("env file", "name", name, "path", path, "loaded", loaded)
	return nil
}

func loadSealed(logger *slog.Logger, cfg *config.Config, path string) error {
	pass, cached := os.Getenv(passphraseVar), false
	if pass == "" && cfg.Keyring.Enabled {
		p, err := keyring.Load()
		if err != nil {
			logger.Debug("keyring lookup failed", "err", err)
		}
		pass, cached = p, p != ""
	}
	if pass == "" {
		p, err := ui.ReadSecret("Passphrase for " + path + ": ")
		if err != nil {
			if errors.Is(err, ui.ErrNotTerminal) {
				return fmt.Errorf("%s is sealed: set %s or run interactively", path, passphraseVar)
			}
			return err
		}
		pass = p
	}

	if err := env.LoadEncrypted(path, pass); err != nil {
		if cached {
			if ferr := keyring.Forget(); ferr != nil {
				logger.Debug("keyring forget failed", "err", ferr)
			}
		}
		return err
	}
	logger.Debug("env file", "path", path, "sealed", true, "cached", cached)

	if cfg.Keyring.Enabled && !cached {
		if err := keyring.Store(pass, cfg.Keyring.TTL); err != nil {
			logger.Debug("keyring store failed", "err", err)
		}
	}
	return nil
}

// newSpinner builds an indicator with the configured style and interval.
func newSpinner(cmd *cobra.Command, label string) *ui.Spinner {
	opts := []ui.Option{
		ui.WithOutput(cmd.OutOrStdout()),
		ui.WithLogger(ctxlog.FromContext(cmd.Context())),
	}
	if cfg, err := config.Load(); err == nil {
		opts = append(opts, ui.WithStyle(cfg.UI.Style), ui.WithInterval(cfg.UI.Interval))
	}
	return ui.New(label, opts...)
}

// checkOutputFormat validates the --output flag.
func checkOutputFormat() error {
	for _, f := range output.Formats {
		if f == outputFormat {
			return nil
		}
	}
	return fmt.Errorf("invalid --output %q", outputFormat)
}

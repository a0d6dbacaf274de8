package main

import (
	"log/slog"

	"chunkseq/internal/config"
	"chunkseq/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logFormat string
	logLevel  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chunkseq",
	Short: "Group sequences into fixed-size chunks",
	Long: `chunkseq reads a sequence of elements and emits them in ordered chunks of
at most --size elements. Every chunk but the last is full; concatenating the
chunks reproduces the input.`,
	SilenceUsage: true,
	Version:      version,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig reads the config file, if any, and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Read(cfgFile); err != nil {
			return nil, err
		}
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return logging.New(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level)
}

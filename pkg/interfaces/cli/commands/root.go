package commands

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vsinha/metalerp/pkg/config"
)

var version = "0.1.0-dev"

type rootOptions struct {
	configFile string
	logLevel   string
	cfg        *config.Config
}

// NewRootCommand builds the metalerp command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "metalerp",
		Short: "Workflow tracker for metal fabrication orders",
		Long: `MetalERP follows fabrication orders from the commercial desk through
engineering, PCP, purchasing and the shop floor, and keeps a timesheet
of the labour spent on each order.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			setupLogging(cfg)
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(opts),
		newReportCommand(opts),
		newImportCommand(opts),
		newBackupCommand(opts),
		newProgressCommand(opts),
	)
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setupLogging pretty prints in development and emits JSON in production
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// openApp loads the services for a command; callers close the app
func openApp(cmd *cobra.Command, opts *rootOptions) (*App, error) {
	return NewApp(cmd.Context(), opts.cfg)
}

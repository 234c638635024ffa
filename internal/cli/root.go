// Package cli holds the voicedeck command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikhilbhutani/voicedeck/internal/app"
	"github.com/nikhilbhutani/voicedeck/internal/config"
	"github.com/nikhilbhutani/voicedeck/internal/deck"
)

// ServiceFactory builds the pipeline for one invocation.
type ServiceFactory func(cfg *config.Config) (*deck.Service, error)

func defaultFactory(cfg *config.Config) (*deck.Service, error) {
	a, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	return a.Service, nil
}

type rootOptions struct {
	envFile  string
	logLevel string
}

// NewRootCmd returns the voicedeck command tree. A nil factory builds the
// pipeline from the environment.
func NewRootCmd(factory ServiceFactory) *cobra.Command {
	if factory == nil {
		factory = defaultFactory
	}
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "voicedeck",
		Short:         "Turn voice notes into slide decks",
		Long:          `Transcribes a recording, turns the transcript into a slides.com deck definition and optionally publishes it`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "file with KEY=VALUE settings")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	load := func(cmd *cobra.Command) (*config.Config, *deck.Service, error) {
		if err := config.LoadDotEnv(opts.envFile); err != nil {
			return nil, nil, err
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		if opts.logLevel != "" {
			cfg.Log.Level = opts.logLevel
		}
		app.SetupLogging(cmd.ErrOrStderr(), cfg.Log)
		svc, err := factory(cfg)
		if err != nil {
			return nil, nil, err
		}
		return cfg, svc, nil
	}

	root.AddCommand(newRunCmd(load), newPublishCmd(load))
	return root
}

// Execute runs the command line and exits non-zero on failure. Pipeline
// failures print their user-facing message followed by the cause.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(nil)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		os.Exit(1)
	}
}

type loader func(cmd *cobra.Command) (*config.Config, *deck.Service, error)

// Package cli provides the myworld command line.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"myworld/backend/internal/app"
	"myworld/backend/internal/config"
	"myworld/backend/internal/logging"
)

// Command group IDs.
const (
	groupRun  = "run"
	groupData = "data"
)

// Env is what every subcommand shares: the resolved configuration and a
// way to open the application on top of it.
type Env struct {
	v      *viper.Viper
	Config config.Config
	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// LogOutput receives log lines of commands that do not own the screen.
	LogOutput io.Writer
}

func NewEnv() *Env {
	return &Env{
		v:             config.New(),
		IsInteractive: func() bool { return false },
		LogOutput:     os.Stderr,
	}
}

func (e *Env) logger() *slog.Logger {
	return logging.New(e.LogOutput, logging.ParseLevel(e.Config.LogLevel))
}

func (e *Env) open(ctx context.Context, logger *slog.Logger, opts ...app.Option) (*app.App, error) {
	return app.New(ctx, e.Config, logger, opts...)
}

// NewRootCommand creates the root command for myworld.
func NewRootCommand(env *Env, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "myworld",
		Short: "Local dashboard: Pomodoro timer, notes, habits, goals and quotes",
		Long: `myworld keeps a Pomodoro timer and a handful of personal panels on this
machine. Run "myworld timer" for the terminal panel or "myworld serve" for
the local HTTP API used by the web front end.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(env.v)
			if err != nil {
				return err
			}
			env.Config = cfg
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("data-dir", "", "directory holding the MyWorld data (default ~/.myworld)")
	flags.String("store", "", "storage backend: sqlite, disk or memory")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	// Flags that are set win over the config file and the environment.
	_ = env.v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))
	_ = env.v.BindPFlag(config.KeyStore, flags.Lookup("store"))
	_ = env.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddGroup(
		&cobra.Group{ID: groupRun, Title: "Run:"},
		&cobra.Group{ID: groupData, Title: "Data:"},
	)
	root.AddCommand(
		newServeCommand(env),
		newTimerCommand(env),
		newHistoryCommand(env),
		newThemeCommand(env),
		newDataCommand(env),
		newMigrateCommand(env),
	)
	return root
}

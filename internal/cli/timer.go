package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"myworld/backend/internal/app"
	"myworld/backend/internal/logging"
	"myworld/backend/internal/tui"
)

var errNotInteractive = errors.New("the timer panel needs an interactive terminal")

func newTimerCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "timer",
		Short:   "Open the Pomodoro timer in the terminal",
		GroupID: groupRun,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !env.IsInteractive() {
				return errNotInteractive
			}
			ctx := cmd.Context()

			logger, closer, err := logging.OpenFile(env.Config.DataDir, logging.ParseLevel(env.Config.LogLevel))
			if err != nil {
				return err
			}
			defer closer.Close()

			a, err := env.open(ctx, logger, app.WithThemeDetector(tui.DetectTheme))
			if err != nil {
				return err
			}
			defer a.Close()

			model := tui.New(ctx, a.Pomodoro, a.Settings, a.Timer.Subscribe())
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

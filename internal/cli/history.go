package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"myworld/backend/internal/model"
	"myworld/backend/internal/service"
)

var phaseColors = map[model.Phase]*color.Color{
	model.PhaseWork:       color.New(color.FgRed, color.Bold),
	model.PhaseShortBreak: color.New(color.FgGreen),
	model.PhaseLongBreak:  color.New(color.FgBlue),
}

func newHistoryCommand(env *Env) *cobra.Command {
	var limit int
	var tz string

	list := func(cmd *cobra.Command, _ []string) error {
		loc := time.Local
		if tz != "" {
			parsed, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("unknown time zone %q: %w", tz, err)
			}
			loc = parsed
		}

		a, err := env.open(cmd.Context(), env.logger())
		if err != nil {
			return err
		}
		defer a.Close()

		entries, apiErr := a.Pomodoro.GetHistory(cmd.Context(), limit, loc)
		if apiErr != nil {
			return apiErr
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	}

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "List completed Pomodoro phases, newest first",
		GroupID: groupData,
		Args:    cobra.NoArgs,
		RunE:    list,
	}
	cmd.PersistentFlags().IntVarP(&limit, "limit", "n", 0, "number of entries to show (default 50, at most 100)")
	cmd.PersistentFlags().StringVar(&tz, "tz", "", "time zone for day and clock labels (default local)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List completed Pomodoro phases, newest first",
			Args:  cobra.NoArgs,
			RunE:  list,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the whole history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := env.open(cmd.Context(), env.logger())
				if err != nil {
					return err
				}
				defer a.Close()

				cleared := a.History.Len()
				if apiErr := a.Pomodoro.ClearHistory(cmd.Context()); apiErr != nil {
					return apiErr
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries.\n", cleared)
				return nil
			},
		},
	)
	return cmd
}

func printHistory(w io.Writer, entries []service.HistoryEntryView) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No sessions yet.")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Day"), bold.Sprint("Time"), bold.Sprint("Phase"), bold.Sprint("Minutes"))
	for _, entry := range entries {
		phase := entry.PhaseLabel
		if c, ok := phaseColors[entry.Phase]; ok {
			phase = c.Sprint(phase)
		}
		tbl.AddRow(entry.DayLabel, entry.ClockLabel, phase, entry.DurationMinutes)
	}
	tbl.RightAlign(3)

	_, _ = fmt.Fprintln(w, tbl)
}

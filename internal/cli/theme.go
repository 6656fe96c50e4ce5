package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"myworld/backend/internal/model"
)

func newThemeCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "theme",
		Short:   "Show or change the colour theme",
		GroupID: groupData,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the current theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := env.open(cmd.Context(), env.logger())
				if err != nil {
					return err
				}
				defer a.Close()

				view, apiErr := a.Settings.GetTheme(cmd.Context())
				if apiErr != nil {
					return apiErr
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), view.Theme)
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <dark|light>",
			Short:     "Switch to the given theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(model.ThemeDark), string(model.ThemeLight)},
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := env.open(cmd.Context(), env.logger())
				if err != nil {
					return err
				}
				defer a.Close()

				view, apiErr := a.Settings.SetTheme(cmd.Context(), args[0])
				if apiErr != nil {
					return apiErr
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", view.Theme)
				return nil
			},
		},
	)
	return cmd
}

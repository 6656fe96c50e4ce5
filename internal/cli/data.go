package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"myworld/backend/internal/model"
	"myworld/backend/internal/repository"
)

func newDataCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "data",
		Short:   "Inspect the local key-value store",
		GroupID: groupData,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "keys",
			Short: "List stored keys and their size",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				a, err := env.open(ctx, env.logger())
				if err != nil {
					return err
				}
				defer a.Close()

				keys, err := a.Store.Keys(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(keys) == 0 {
					_, _ = fmt.Fprintln(out, "The store is empty.")
					return nil
				}

				bold := color.New(color.Bold)
				tbl := uitable.New()
				tbl.Separator = "  "
				tbl.AddRow(bold.Sprint("Key"), bold.Sprint("Bytes"))
				for _, key := range keys {
					value, err := a.Store.Get(ctx, key)
					if err != nil {
						return err
					}
					tbl.AddRow(key, len(value))
				}
				tbl.RightAlign(1)
				_, _ = fmt.Fprintln(out, tbl)
				return nil
			},
		},
		&cobra.Command{
			Use:       "forget <key>",
			Short:     "Delete one stored key; the panel starts empty next time",
			Args:      cobra.ExactArgs(1),
			ValidArgs: model.StoreKeys,
			RunE: func(cmd *cobra.Command, args []string) error {
				key := args[0]
				if !model.IsStoreKey(key) {
					return fmt.Errorf("unknown key %q", key)
				}

				ctx := cmd.Context()
				a, err := env.open(ctx, env.logger())
				if err != nil {
					return err
				}
				defer a.Close()

				if _, err := a.Store.Get(ctx, key); errors.Is(err, repository.ErrNotFound) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is not stored.\n", key)
					return nil
				}
				if err := a.Store.Delete(ctx, key); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s.\n", key)
				return nil
			},
		},
	)
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/tinygit/pkg/repo"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <section.key> [value]",
		Short: "Get or set a repository option in .git/config",
		Args:  wrapArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if len(args) == 2 {
				return r.SetConfig(args[0], args[1])
			}

			v, ok, err := r.GetConfig(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("config: key %q is not set", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

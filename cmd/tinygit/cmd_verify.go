package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/tinygit/pkg/object"
	"github.com/odvcencio/tinygit/pkg/repo"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [<object>...]",
		Short: "Verify loose object integrity and connectivity from the given ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := make([]object.Hash, 0, len(args))
			for _, arg := range args {
				h, err := object.ParseHash(arg)
				if err != nil {
					return err
				}
				roots = append(roots, h)
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			report, err := r.Store.Verify()
			if err != nil {
				return err
			}
			reachable, err := r.Store.ReachableSet(roots)
			if err != nil {
				return err
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"ok: verified %d loose object(s), %d reachable from %d root(s)\n",
				report.LooseObjects,
				len(reachable),
				len(roots),
			)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/tinygit/pkg/object"
	"github.com/odvcencio/tinygit/pkg/repo"
)

func newLsTreeCmd() *cobra.Command {
	var nameOnly bool
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] [-r] <tree>",
		Short: "List the entries of a tree object",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if recursive {
				files, err := r.FlattenTree(h)
				if err != nil {
					return err
				}
				for _, f := range files {
					if nameOnly {
						fmt.Fprintln(out, f.Path)
						continue
					}
					e := object.TreeEntry{Mode: f.Mode, Hash: f.Hash}
					fmt.Fprintln(out, formatTreeEntry(e, f.Path))
				}
				return nil
			}

			tr, err := r.Store.ReadTree(h)
			if err != nil {
				return err
			}
			for _, e := range tr.Entries {
				if nameOnly {
					fmt.Fprintln(out, e.Name)
					continue
				}
				fmt.Fprintln(out, formatTreeEntry(e, e.Name))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only entry names")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees, listing only leaf entries")
	return cmd
}

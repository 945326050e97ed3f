package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/tinygit/pkg/object"
	"github.com/odvcencio/tinygit/pkg/repo"
)

func newHashObjectCmd() *cobra.Command {
	var write bool
	var stdin bool

	cmd := &cobra.Command{
		Use:   "hash-object [-w] (--stdin | <file>)",
		Short: "Compute a blob id and optionally store the blob",
		Args: wrapArgs(func(cmd *cobra.Command, args []string) error {
			if stdin && len(args) != 0 {
				return fmt.Errorf("--stdin takes no file argument")
			}
			if !stdin && len(args) != 1 {
				return fmt.Errorf("expected exactly one file, got %d", len(args))
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if stdin {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("hash-object: %w: %w", object.ErrIO, err)
			}

			var h object.Hash
			if write {
				r, err := repo.Open(".")
				if err != nil {
					return err
				}
				h, err = r.Store.WriteBlob(&object.Blob{Data: data})
				if err != nil {
					return err
				}
			} else {
				h, _ = object.Encode(object.TypeBlob, data)
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the blob into the object store")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "read the content from standard input")
	return cmd
}

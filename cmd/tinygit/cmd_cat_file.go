package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/tinygit/pkg/object"
	"github.com/odvcencio/tinygit/pkg/repo"
)

func newCatFileCmd() *cobra.Command {
	var showType, showSize, pretty, exists bool

	cmd := &cobra.Command{
		Use:   "cat-file (-t | -s | -p | -e) <object>",
		Short: "Print the type, size or content of a stored object",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := 0
			for _, set := range []bool{showType, showSize, pretty, exists} {
				if set {
					modes++
				}
			}
			if modes != 1 {
				return fmt.Errorf("cat-file: %w: exactly one of -t, -s, -p, -e is required", object.ErrInvalidArguments)
			}

			h, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if exists {
				if !r.Store.Has(h) {
					return fmt.Errorf("cat-file: %s: %w", h, object.ErrObjectNotFound)
				}
				return nil
			}

			objType, body, err := r.Store.Read(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, objType)
			case showSize:
				fmt.Fprintln(out, len(body))
			default:
				return printObject(out, objType, body)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the body size in bytes")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the object content")
	cmd.Flags().BoolVarP(&exists, "exists", "e", false, "exit with status 0 if the object exists")
	return cmd
}

// printObject writes a blob or commit body verbatim and a tree as one
// "<mode> <type> <id>\t<name>" line per entry.
func printObject(w io.Writer, objType object.ObjectType, body []byte) error {
	if objType != object.TypeTree {
		_, err := w.Write(body)
		return err
	}
	tr, err := object.UnmarshalTree(body)
	if err != nil {
		return err
	}
	for _, e := range tr.Entries {
		fmt.Fprintln(w, formatTreeEntry(e, e.Name))
	}
	return nil
}

func formatTreeEntry(e object.TreeEntry, name string) string {
	mode := string(e.Mode)
	if len(mode) < 6 {
		mode = strings.Repeat("0", 6-len(mode)) + mode
	}
	return fmt.Sprintf("%s %s %s\t%s", mode, e.EntryType(), e.Hash, name)
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/tinygit/pkg/object"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

// run executes the command line in os.Args and returns the process exit
// code: 0 on success, 2 for usage errors, 1 for everything else.
func run() int {
	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	cmd, err := root.ExecuteC()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tinygit: %v\n", err)
		if errors.Is(err, object.ErrInvalidArguments) {
			fmt.Fprintf(os.Stderr, "usage: %s\n", cmd.UseLine())
			return 2
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "tinygit",
		Short:         "Content-addressed blob, tree and commit storage in git's on-disk format",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log object writes to stderr")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", object.ErrInvalidArguments, err)
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newHashObjectCmd())
	root.AddCommand(newCatFileCmd())
	root.AddCommand(newLsTreeCmd())
	root.AddCommand(newWriteTreeCmd())
	root.AddCommand(newCommitTreeCmd())
	root.AddCommand(newVerifyCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  exactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tinygit %s\n", version)
		},
	}
}

// exactArgs is cobra.ExactArgs reporting failures as ErrInvalidArguments.
func exactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", object.ErrInvalidArguments, err)
		}
		return nil
	}
}

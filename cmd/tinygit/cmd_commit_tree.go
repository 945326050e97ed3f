package main

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/odvcencio/tinygit/pkg/object"
	"github.com/odvcencio/tinygit/pkg/repo"
)

func newCommitTreeCmd() *cobra.Command {
	var message string
	var parent string
	var date int64
	var now bool
	var sign bool
	var signingKey string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree> -m <message> [-p <parent>]",
		Short: "Create a commit object for an existing tree",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("commit-tree: %w: commit message is required (-m)", object.ErrInvalidArguments)
			}
			var parentHash object.Hash
			if parent != "" {
				parentHash, err = object.ParseHash(parent)
				if err != nil {
					return err
				}
			}
			if now && cmd.Flags().Changed("date") {
				return fmt.Errorf("commit-tree: %w: --date and --now are mutually exclusive", object.ErrInvalidArguments)
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			cfg, err := r.LoadConfig()
			if err != nil {
				return err
			}

			when, tz := repo.DefaultSignature.When, repo.DefaultSignature.TZ
			switch {
			case now:
				t := time.Now()
				when, tz = t.Unix(), t.Format("-0700")
			case cmd.Flags().Changed("date"):
				when = date
			}
			sig := cfg.Signature(when, tz)

			opts := repo.CommitOptions{
				Tree:      tree,
				Parent:    parentHash,
				Message:   message,
				Author:    sig,
				Committer: sig,
			}

			if sign || signingKey != "" {
				keyPath := signingKey
				if keyPath == "" {
					keyPath = cfg.User.SigningKey
				}
				signer, resolvedPath, err := newSSHCommitSigner(keyPath)
				if err != nil {
					return err
				}
				log.WithField("key", resolvedPath).Debug("signing commit")
				opts.Signer = signer
			}

			h, err := r.CommitTree(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent commit id")
	cmd.Flags().Int64Var(&date, "date", 0, "author and committer time in Unix seconds")
	cmd.Flags().BoolVar(&now, "now", false, "use the current time and local zone instead of the fixed default")
	cmd.Flags().BoolVarP(&sign, "sign", "S", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&signingKey, "signing-key", "", "SSH private key used for signing (implies -S)")
	return cmd
}

package main

import (
	"fmt"
	"time"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/spf13/cobra"
)

func newCommitTreeCmd() *cobra.Command {
	var parentArg, message string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree> [-p <parent>] -m <message>",
		Short: "Create a commit object from a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseHashArg(args[0])
			if err != nil {
				return err
			}
			var parent *object.Hash
			if parentArg != "" {
				p, err := parseHashArg(parentArg)
				if err != nil {
					return err
				}
				parent = &p
			}

			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			id, err := r.Identity()
			if err != nil {
				return err
			}
			sig := id.Signature(time.Now())

			h, err := r.CommitTree(tree, parent, message, sig, sig)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parentArg, "parent", "p", "", "parent commit hash")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object [-w] <file>",
		Short: "Compute the blob hash of a file, optionally storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("hash-object: %w", &object.IOError{Op: "read file", Path: args[0], Err: err})
			}
			blob := &object.Blob{Data: data}

			var h object.Hash
			if write {
				r, err := openRepo(cmd)
				if err != nil {
					return err
				}
				if h, err = r.Store.WriteBlob(blob); err != nil {
					return fmt.Errorf("hash-object: %w", err)
				}
			} else {
				h = object.Sum(blob)
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the blob into the object store")
	return cmd
}

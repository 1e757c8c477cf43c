package main

import (
	"fmt"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var pretty, size, typ bool

	cmd := &cobra.Command{
		Use:   "cat-file (-p | -s | -t) <hash>",
		Short: "Show the content, size or type of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := parseHashArg(args[0])
			if err != nil {
				return err
			}
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch {
			case typ:
				t, err := r.Store.ReadType(h)
				if err != nil {
					return fmt.Errorf("cat-file: %w", err)
				}
				fmt.Fprintln(out, t)
				return nil

			case size:
				_, payload, err := r.Store.ReadRaw(h)
				if err != nil {
					return fmt.Errorf("cat-file: %w", err)
				}
				fmt.Fprintln(out, len(payload))
				return nil

			default:
				obj, err := r.Store.Read(h)
				if err != nil {
					return fmt.Errorf("cat-file: %w", err)
				}
				if tr, ok := obj.(*object.Tree); ok {
					if err := object.ResolveTree(r.Store, tr); err != nil {
						return fmt.Errorf("cat-file: %w", err)
					}
				}
				return object.PrettyPrint(out, obj)
			}
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the object content")
	cmd.Flags().BoolVarP(&size, "size", "s", false, "print the payload size in bytes")
	cmd.Flags().BoolVarP(&typ, "type", "t", false, "print the object type")
	cmd.MarkFlagsMutuallyExclusive("pretty", "size", "type")
	cmd.MarkFlagsOneRequired("pretty", "size", "type")
	return cmd
}

package main

import (
	"fmt"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/odvcencio/plumb/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var nameOnly, recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] [-r] <hash>",
		Short: "List the entries of a tree object",
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
			treeHash, err := resolveTreeish(r, h)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if recursive {
				files, err := r.FlattenTree(treeHash)
				if err != nil {
					return fmt.Errorf("ls-tree: %w", err)
				}
				for _, f := range files {
					if nameOnly {
						fmt.Fprintln(out, f.Path)
						continue
					}
					fmt.Fprintf(out, "%06o %s %s\t%s\n", uint32(f.Mode), f.Mode.ObjectType(), f.Hash, f.Path)
				}
				return nil
			}

			tr, err := r.Store.ReadTree(treeHash)
			if err != nil {
				return fmt.Errorf("ls-tree: %w", err)
			}
			if nameOnly {
				for _, e := range tr.Entries {
					fmt.Fprintln(out, e.Name)
				}
				return nil
			}
			if err := object.ResolveTree(r.Store, tr); err != nil {
				return fmt.Errorf("ls-tree: %w", err)
			}
			return object.PrettyPrint(out, tr)
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only entry names")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees")
	return cmd
}

// resolveTreeish returns h if it names a tree, or the tree of the commit it
// names.
func resolveTreeish(r *repo.Repo, h object.Hash) (object.Hash, error) {
	t, err := r.Store.ReadType(h)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("ls-tree: %w", err)
	}
	switch t {
	case object.TypeTree:
		return h, nil
	case object.TypeCommit:
		c, err := r.Store.ReadCommit(h)
		if err != nil {
			return object.ZeroHash, fmt.Errorf("ls-tree: %w", err)
		}
		return c.TreeHash, nil
	default:
		return object.ZeroHash, fmt.Errorf("ls-tree: %s: not a tree object", h)
	}
}

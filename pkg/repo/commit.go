package repo

import (
	"fmt"

	"github.com/odvcencio/plumb/pkg/object"
	"go.uber.org/zap"
)

// CommitTree writes a commit pointing at tree, with an optional parent, and
// returns its hash. It does not touch HEAD or any ref.
//
// The tree must be a stored tree object and the parent, when given, a
// stored commit.
func (r *Repo) CommitTree(tree object.Hash, parent *object.Hash, message string, author, committer object.Signature) (object.Hash, error) {
	if err := r.expectType(tree, object.TypeTree); err != nil {
		return object.ZeroHash, fmt.Errorf("commit-tree: tree: %w", err)
	}
	if parent != nil {
		if err := r.expectType(*parent, object.TypeCommit); err != nil {
			return object.ZeroHash, fmt.Errorf("commit-tree: parent: %w", err)
		}
	}

	c := object.NewCommit(tree, parent, author, committer, message)
	h, err := r.Store.WriteCommit(c)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("commit-tree: write commit: %w", err)
	}
	r.Logger.Debug("commit written", zap.Stringer("hash", h), zap.Stringer("tree", tree))
	return h, nil
}

func (r *Repo) expectType(h object.Hash, want object.ObjectType) error {
	got, err := r.Store.ReadType(h)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("object %s: %w: got %q, want %q", h, object.ErrTypeMismatch, got, want)
	}
	return nil
}

package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/odvcencio/plumb/pkg/object"
	"go.uber.org/zap"
)

// TreeFileEntry represents a single non-directory entry in a flattened tree.
type TreeFileEntry struct {
	Path string // forward-slash path relative to the tree root
	Mode object.FileMode
	Hash object.Hash
}

// WriteTree snapshots the whole work tree into the store and returns the
// root tree hash.
func (r *Repo) WriteTree() (object.Hash, error) {
	return r.BuildTree(r.RootDir)
}

// BuildTree walks dir, writing a blob for every file and a tree for every
// directory, and returns the hash of the tree for dir. The .git control
// directory is skipped wherever it appears. Symbolic links are not
// followed: the link target is stored as a blob. Sockets, devices and
// fifos are skipped.
//
// Rebuilding an unchanged directory yields the same hash and writes
// nothing new, because every write is deduplicated by the store.
func (r *Repo) BuildTree(dir string) (object.Hash, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return object.ZeroHash, &object.IOError{Op: "read dir", Path: dir, Err: err}
	}

	tr := &object.Tree{Entries: make([]object.TreeEntry, 0, len(dirEntries))}
	for _, de := range dirEntries {
		if de.Name() == controlDirName {
			continue
		}
		entry, ok, err := r.buildEntry(filepath.Join(dir, de.Name()), de)
		if err != nil {
			return object.ZeroHash, err
		}
		if ok {
			tr.Entries = append(tr.Entries, entry)
		}
	}

	h, err := r.Store.WriteTree(tr)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("build tree %s: %w", dir, err)
	}
	r.Logger.Debug("tree built",
		zap.String("dir", dir),
		zap.Stringer("hash", h),
		zap.Int("entries", len(tr.Entries)),
	)
	return h, nil
}

func (r *Repo) buildEntry(p string, de fs.DirEntry) (object.TreeEntry, bool, error) {
	name := de.Name()
	switch t := de.Type(); {
	case t&fs.ModeSymlink != 0:
		target, err := os.Readlink(p)
		if err != nil {
			return object.TreeEntry{}, false, &object.IOError{Op: "readlink", Path: p, Err: err}
		}
		h, err := r.Store.WriteBlob(&object.Blob{Data: []byte(target)})
		if err != nil {
			return object.TreeEntry{}, false, fmt.Errorf("build tree: symlink %s: %w", p, err)
		}
		return object.TreeEntry{Mode: object.ModeSymlink, Type: object.TypeBlob, Hash: h, Name: name}, true, nil

	case t.IsDir():
		h, err := r.BuildTree(p)
		if err != nil {
			return object.TreeEntry{}, false, err
		}
		return object.TreeEntry{Mode: object.ModeDir, Type: object.TypeTree, Hash: h, Name: name}, true, nil

	case t.IsRegular():
		info, err := de.Info()
		if err != nil {
			return object.TreeEntry{}, false, &object.IOError{Op: "stat", Path: p, Err: err}
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return object.TreeEntry{}, false, &object.IOError{Op: "read file", Path: p, Err: err}
		}
		h, err := r.Store.WriteBlob(&object.Blob{Data: data})
		if err != nil {
			return object.TreeEntry{}, false, fmt.Errorf("build tree: file %s: %w", p, err)
		}
		return object.TreeEntry{Mode: modeFromFileInfo(info), Type: object.TypeBlob, Hash: h, Name: name}, true, nil

	default:
		r.Logger.Debug("skipping irregular file", zap.String("path", p), zap.Stringer("mode", t))
		return object.TreeEntry{}, false, nil
	}
}

// FlattenTree walks a tree object recursively, returning all non-directory
// entries with their full paths (using forward slashes) in tree order.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	tr, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: read %s: %w", h, err)
	}

	var result []TreeFileEntry
	for _, entry := range tr.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = path.Join(prefix, entry.Name)
		}

		if entry.Mode.IsDir() {
			sub, err := r.flattenTreeRec(entry.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		} else {
			result = append(result, TreeFileEntry{
				Path: fullPath,
				Mode: entry.Mode,
				Hash: entry.Hash,
			})
		}
	}
	return result, nil
}

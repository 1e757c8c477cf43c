package repo

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultHead is written to HEAD by Init.
const defaultHead = "ref: refs/heads/master\n"

// Init creates a new repository at path. It creates the .git/ directory
// structure: HEAD, objects/, and refs/. Returns an error if a .git/
// directory already exists.
func Init(path string, opts ...Option) (*Repo, error) {
	gitDir := filepath.Join(path, controlDirName)

	// Fail if .git/ already exists.
	if _, err := os.Stat(gitDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gitDir)
	}

	dirs := []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(gitDir, "HEAD")
	if err := os.WriteFile(headPath, []byte(defaultHead), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	r := newRepo(path, gitDir, opts)
	r.Logger.Debug("initialized repository")
	return r, nil
}

// Open searches upward from path for a .git/ directory and opens the
// repository. Returns an error if no .git/ directory is found.
func Open(path string, opts ...Option) (*Repo, error) {
	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, controlDirName)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return newRepo(cur, gitDir, opts), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding .git/.
			return nil, fmt.Errorf("open: not a repository (or any parent up to /)")
		}
		cur = parent
	}
}

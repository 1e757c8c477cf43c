package repo

import (
	"github.com/odvcencio/plumb/pkg/object"
	"go.uber.org/zap"
)

// controlDirName is the repository control directory inside a work tree.
const controlDirName = ".git"

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // .git/ directory
	Store   *object.Store // content-addressed object store
	Logger  *zap.Logger
}

// Option configures a Repo on Init or Open.
type Option func(*Repo)

// WithLogger sets the logger shared by the repository and its store.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Repo) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

func newRepo(rootDir, gitDir string, opts []Option) *Repo {
	r := &Repo{
		RootDir: rootDir,
		GitDir:  gitDir,
		Logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Store = object.NewStore(gitDir, object.WithLogger(r.Logger))
	return r
}

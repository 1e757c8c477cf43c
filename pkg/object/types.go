package object

import (
	"strconv"
	"time"
)

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Object is one of *Blob, *Tree or *Commit.
type Object interface {
	Type() ObjectType
	object()
}

// FileMode is a git tree entry mode. Values are the octal numbers git
// writes into tree payloads.
type FileMode uint32

const (
	ModeDir        FileMode = 0o40000
	ModeFile       FileMode = 0o100644
	ModeExecutable FileMode = 0o100755
	ModeSymlink    FileMode = 0o120000
)

// String returns the canonical tree encoding of m: octal, no padding.
func (m FileMode) String() string {
	return strconv.FormatUint(uint64(m), 8)
}

// IsDir reports whether m marks a subtree.
func (m FileMode) IsDir() bool {
	return m == ModeDir
}

// ObjectType returns the kind of object an entry with mode m points at.
func (m FileMode) ObjectType() ObjectType {
	if m.IsDir() {
		return TypeTree
	}
	return TypeBlob
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

func (*Blob) Type() ObjectType { return TypeBlob }
func (*Blob) object()          {}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode FileMode
	Type ObjectType // node kind, tracked for display
	Hash Hash
	Name string // no path separators
}

// Tree holds a list of entries. Entries are sorted by Name on encode.
type Tree struct {
	Entries []TreeEntry
}

func (*Tree) Type() ObjectType { return TypeTree }
func (*Tree) object()          {}

// Signature identifies who authored or committed a commit, and when.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit points at a root tree with optional parents and metadata.
type Commit struct {
	TreeHash  Hash
	Parents   []Hash
	Author    Signature
	Committer Signature
	Message   string
}

func (*Commit) Type() ObjectType { return TypeCommit }
func (*Commit) object()          {}

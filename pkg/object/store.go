package object

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"
)

// ErrTypeMismatch is returned by the typed read helpers when the stored
// object has a different type than requested.
var ErrTypeMismatch = errors.New("type mismatch")

// maxHeaderSize bounds the "type len\0" prefix read by ReadType.
const maxHeaderSize = 64

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Each file holds the zlib
// compressed canonical encoding of one object.
type Store struct {
	root   string
	logger *zap.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for debug events.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Store rooted at the given directory. Fan-out
// directories under objects/ are created lazily on first write.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory holding objects/.
func (s *Store) Root() string {
	return s.root
}

// ObjectPath returns the filesystem path for a given hash.
func (s *Store) ObjectPath(h Hash) string {
	dir, file := h.PathSegments()
	return filepath.Join(s.root, "objects", dir, file)
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	_, err := os.Stat(s.ObjectPath(h))
	return err == nil
}

// Write stores obj and returns its hash. Writing an object that already
// exists is a no-op that still returns the hash. Trees and commits that
// would not parse back are rejected with a *ParseError before anything is
// written.
func (s *Store) Write(obj Object) (Hash, error) {
	if err := validate(obj); err != nil {
		return ZeroHash, fmt.Errorf("object write: %w", err)
	}
	return s.WriteRaw(obj.Type(), Payload(obj))
}

func validate(obj Object) error {
	switch o := obj.(type) {
	case *Tree:
		return o.Validate()
	case *Commit:
		return o.Validate()
	default:
		return nil
	}
}

// WriteRaw stores a payload of the given type. The file is written to a
// temporary name and renamed into place, so readers never observe a
// partially written object and concurrent writers of the same hash race
// harmlessly.
func (s *Store) WriteRaw(objType ObjectType, payload []byte) (Hash, error) {
	h := HashObject(objType, payload)
	dest := s.ObjectPath(h)

	// Fast path: already exists.
	if s.Has(h) {
		s.logger.Debug("object exists", zap.Stringer("hash", h), zap.String("type", string(objType)))
		return h, nil
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return h, &WriteError{Path: dir, Err: err}
	}

	raw := append(header(objType, len(payload)), payload...)
	compressed, err := Compress(raw)
	if err != nil {
		return h, &WriteError{Path: dest, Err: err}
	}
	if err := renameio.WriteFile(dest, compressed, 0o444); err != nil {
		return h, &WriteError{Path: dest, Err: err}
	}

	s.logger.Debug("object written",
		zap.Stringer("hash", h),
		zap.String("type", string(objType)),
		zap.Int("size", len(payload)),
		zap.Int("compressed", len(compressed)),
	)
	return h, nil
}

// ReadRaw retrieves an object by hash, returning its type and payload.
// Every call re-reads and re-inflates the file.
func (s *Store) ReadRaw(h Hash) (ObjectType, []byte, error) {
	path := s.ObjectPath(h)
	compressed, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, &NotFoundError{Hash: h}
		}
		return "", nil, &IOError{Op: "read object", Path: path, Err: err}
	}

	raw, err := Decompress(compressed)
	if err != nil {
		return "", nil, &CorruptObjectError{Hash: h, Err: err}
	}

	objType, payload, err := splitEnvelope(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, payload, nil
}

// Read retrieves and parses an object by hash.
func (s *Store) Read(h Hash) (Object, error) {
	objType, payload, err := s.ReadRaw(h)
	if err != nil {
		return nil, err
	}
	obj, err := Decode(objType, payload)
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return obj, nil
}

// ReadType returns the type of a stored object, inflating only its header.
func (s *Store) ReadType(h Hash) (ObjectType, error) {
	path := s.ObjectPath(h)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Hash: h}
		}
		return "", &IOError{Op: "open object", Path: path, Err: err}
	}
	defer f.Close()

	zr, err := zlib.NewReader(bufio.NewReader(f))
	if err != nil {
		return "", &CorruptObjectError{Hash: h, Err: err}
	}
	defer zr.Close()

	hdr, err := bufio.NewReaderSize(zr, maxHeaderSize).ReadSlice(0)
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return "", fmt.Errorf("object read %s: %w", h, newParseError(hdr, 0, "header too long"))
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("object read %s: %w", h, newParseError(hdr, 0, "missing header terminator"))
		}
		return "", &CorruptObjectError{Hash: h, Err: err}
	}
	sp := bytes.IndexByte(hdr, ' ')
	if sp <= 0 {
		return "", fmt.Errorf("object read %s: %w", h, newParseError(hdr, 0, "malformed header"))
	}
	return ObjectType(hdr[:sp]), nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(b)
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	obj, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return obj.(*Blob), nil
}

// WriteTree stores a Tree.
func (s *Store) WriteTree(tr *Tree) (Hash, error) {
	return s.Write(tr)
}

// ReadTree reads and deserializes a Tree. Entry types are derived from
// their modes; see ResolveTree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	obj, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return obj.(*Tree), nil
}

// WriteCommit stores a Commit.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	return s.Write(c)
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	obj, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return obj.(*Commit), nil
}

func (s *Store) readTyped(h Hash, want ObjectType) (Object, error) {
	objType, payload, err := s.ReadRaw(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, want)
	}
	obj, err := Decode(objType, payload)
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return obj, nil
}

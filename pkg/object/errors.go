package object

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that no object is stored under a hash.
	ErrNotFound = errors.New("object not found")
	// ErrCorruptObject reports stored bytes that fail to decompress.
	ErrCorruptObject = errors.New("corrupt object")
	// ErrParse reports bytes that do not match the canonical grammar, or a
	// malformed hash string.
	ErrParse = errors.New("parse error")
	// ErrWrite reports a failed object write or fan-out directory creation.
	ErrWrite = errors.New("write error")
	// ErrIO reports any other filesystem failure.
	ErrIO = errors.New("io error")
)

// maxErrorContext bounds the number of offending bytes carried by a ParseError.
const maxErrorContext = 32

// NotFoundError is returned when a hash has no stored object.
type NotFoundError struct {
	Hash Hash
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object %s: %s", e.Hash, ErrNotFound)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CorruptObjectError is returned when stored bytes cannot be decompressed.
type CorruptObjectError struct {
	Hash Hash
	Err  error
}

func (e *CorruptObjectError) Error() string {
	if errors.Is(e.Err, ErrCorruptObject) {
		return fmt.Sprintf("object %s: %v", e.Hash, e.Err)
	}
	return fmt.Sprintf("object %s: %s: %v", e.Hash, ErrCorruptObject, e.Err)
}

func (e *CorruptObjectError) Unwrap() error {
	return e.Err
}

func (e *CorruptObjectError) Is(target error) bool {
	return target == ErrCorruptObject
}

// ParseError describes input that does not match the expected grammar.
// Offset is the position of the failure within the parsed buffer, or -1
// when the input is not a buffer position (a hash string, for example).
type ParseError struct {
	Offset  int
	Context []byte
	Msg     string
	Err     error
}

func newParseError(buf []byte, offset int, format string, args ...any) *ParseError {
	ctx := buf
	if offset >= 0 && offset <= len(buf) {
		ctx = buf[offset:]
	}
	if len(ctx) > maxErrorContext {
		ctx = ctx[:maxErrorContext]
	}
	return &ParseError{
		Offset:  offset,
		Context: append([]byte(nil), ctx...),
		Msg:     fmt.Sprintf(format, args...),
	}
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrParse, e.Msg)
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if len(e.Context) > 0 {
		msg = fmt.Sprintf("%s near %q", msg, e.Context)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// WriteError is returned when an object file or its fan-out directory
// cannot be created.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrWrite, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

// IOError wraps a filesystem failure on read or list.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

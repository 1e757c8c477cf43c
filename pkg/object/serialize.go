package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Envelope
// ---------------------------------------------------------------------------

// Encode returns the canonical encoding of obj: "type len\0payload".
func Encode(obj Object) []byte {
	payload := Payload(obj)
	out := header(obj.Type(), len(payload))
	return append(out, payload...)
}

// Payload returns the canonical payload of obj, without the header.
func Payload(obj Object) []byte {
	switch o := obj.(type) {
	case *Blob:
		return MarshalBlob(o)
	case *Tree:
		return MarshalTree(o)
	case *Commit:
		return MarshalCommit(o)
	default:
		panic(fmt.Sprintf("object: unsupported object %T", obj))
	}
}

// Sum returns the hash of obj's canonical encoding.
func Sum(obj Object) Hash {
	return HashObject(obj.Type(), Payload(obj))
}

// Parse decodes a canonical encoding (already decompressed) into an
// Object. Parse performs no I/O: tree entry types come from their modes.
func Parse(raw []byte) (Object, error) {
	objType, payload, err := splitEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return Decode(objType, payload)
}

// Decode parses a payload of the given type.
func Decode(objType ObjectType, payload []byte) (Object, error) {
	switch objType {
	case TypeBlob:
		return UnmarshalBlob(payload)
	case TypeTree:
		return UnmarshalTree(payload)
	case TypeCommit:
		return UnmarshalCommit(payload)
	default:
		return nil, newParseError([]byte(objType), 0, "unknown object type %q", objType)
	}
}

// splitEnvelope separates "type len\0" from the payload and checks that the
// declared length matches.
func splitEnvelope(raw []byte) (ObjectType, []byte, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, newParseError(raw, 0, "missing header terminator")
	}
	sp := bytes.IndexByte(raw[:nul], ' ')
	if sp <= 0 {
		return "", nil, newParseError(raw, 0, "malformed header")
	}
	objType := ObjectType(raw[:sp])
	lenText := raw[sp+1 : nul]
	if len(lenText) > 1 && lenText[0] == '0' {
		return "", nil, newParseError(raw, sp+1, "length has leading zero")
	}
	length, err := strconv.ParseUint(string(lenText), 10, 63)
	if err != nil {
		return "", nil, newParseError(raw, sp+1, "invalid length")
	}
	payload := raw[nul+1:]
	if uint64(len(payload)) != length {
		return "", nil, newParseError(raw, 0, "length mismatch (header=%d, actual=%d)", length, len(payload))
	}
	return objType, payload, nil
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob returns the blob payload. The result aliases b.Data.
func MarshalBlob(b *Blob) []byte {
	return b.Data
}

// UnmarshalBlob copies data into a new Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes a Tree. Entries are sorted by Name (byte-wise)
// first so that the same set of entries always encodes the same way. Each
// entry is:
//
//	<octal mode> SP <name> NUL <20-byte raw hash>
func MarshalTree(tr *Tree) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(e.Mode.String())
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.Hash[:])
	}
	return buf.Bytes()
}

// Validate reports the first entry whose name cannot be encoded: empty,
// containing a path separator, or containing NUL.
func (tr *Tree) Validate() error {
	for _, e := range tr.Entries {
		switch {
		case e.Name == "":
			return newParseError(nil, -1, "tree entry: empty name")
		case strings.ContainsRune(e.Name, '/'):
			return newParseError([]byte(e.Name), -1, "tree entry: name contains a path separator")
		case strings.IndexByte(e.Name, 0) >= 0:
			return newParseError([]byte(e.Name), -1, "tree entry: name contains NUL")
		}
	}
	return nil
}

// UnmarshalTree parses a tree payload. There is no entry count: the loop
// ends when the offset reaches the end of the payload, and every hash is
// bounds-checked before it is consumed.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	off := 0
	for off < len(data) {
		sp := bytes.IndexByte(data[off:], ' ')
		if sp < 0 {
			return nil, newParseError(data, off, "tree entry: missing space after mode")
		}
		modeText := string(data[off : off+sp])
		mode, err := strconv.ParseUint(modeText, 8, 32)
		if err != nil {
			return nil, newParseError(data, off, "tree entry: invalid mode %q", modeText)
		}

		nameStart := off + sp + 1
		nul := bytes.IndexByte(data[nameStart:], 0)
		if nul < 0 {
			return nil, newParseError(data, nameStart, "tree entry: missing name terminator")
		}
		name := data[nameStart : nameStart+nul]
		if len(name) == 0 {
			return nil, newParseError(data, nameStart, "tree entry: empty name")
		}
		if bytes.IndexByte(name, '/') >= 0 {
			return nil, newParseError(data, nameStart, "tree entry: name %q contains a path separator", name)
		}

		hashStart := nameStart + nul + 1
		if len(data)-hashStart < HashSize {
			return nil, newParseError(data, hashStart, "tree entry %q: truncated hash (%d of %d bytes)", name, len(data)-hashStart, HashSize)
		}
		var h Hash
		copy(h[:], data[hashStart:hashStart+HashSize])

		fm := FileMode(mode)
		tr.Entries = append(tr.Entries, TreeEntry{
			Mode: fm,
			Type: fm.ObjectType(),
			Hash: h,
			Name: string(name),
		})
		off = hashStart + HashSize
	}
	return tr, nil
}

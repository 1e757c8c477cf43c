package object

import (
	"encoding/hex"
	"strconv"

	"github.com/pjbgf/sha1cd"
)

const (
	// HashSize is the length of a raw object hash in bytes.
	HashSize = 20
	// HashHexSize is the length of a hex-encoded object hash.
	HashHexSize = 2 * HashSize
)

// Hash is a raw 20-byte SHA-1 object id.
type Hash [HashSize]byte

// ZeroHash is the all-zero hash. No stored object has it.
var ZeroHash Hash

// String returns the 40-character lowercase hex form of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// PathSegments splits the hex form into the 2-character fan-out directory
// and the 38-character file name used by the loose object layout.
func (h Hash) PathSegments() (dir, file string) {
	s := h.String()
	return s[:2], s[2:]
}

// ParseHash converts a 40-character hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != HashHexSize {
		return h, newParseError([]byte(s), -1, "hash has %d characters, want %d", len(s), HashHexSize)
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		perr := newParseError([]byte(s), -1, "hash is not hex")
		perr.Err = err
		return ZeroHash, perr
	}
	return h, nil
}

// HashFromBytes copies a raw 20-byte id into a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, newParseError(b, -1, "raw hash has %d bytes, want %d", len(b), HashSize)
	}
	copy(h[:], b)
	return h, nil
}

// Digest computes the SHA-1 of data.
func Digest(data []byte) Hash {
	d := sha1cd.New()
	d.Write(data)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

// HashObject computes the SHA-1 of the envelope "type len\0payload"
// without materialising the concatenation.
func HashObject(objType ObjectType, payload []byte) Hash {
	d := sha1cd.New()
	d.Write(header(objType, len(payload)))
	d.Write(payload)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

func header(objType ObjectType, n int) []byte {
	b := make([]byte, 0, len(objType)+1+20+1)
	b = append(b, objType...)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(n), 10)
	return append(b, 0)
}

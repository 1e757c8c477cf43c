package object

import (
	"errors"
	"fmt"
	"io"
)

// TypeReader looks up the stored type of an object. *Store implements it.
type TypeReader interface {
	ReadType(h Hash) (ObjectType, error)
}

// ResolveTree replaces each entry's mode-derived type with the type of the
// object it points at. Entries whose child is not in the store keep the
// mode-derived type; any other read failure is returned.
func ResolveTree(r TypeReader, tr *Tree) error {
	for i := range tr.Entries {
		e := &tr.Entries[i]
		t, err := r.ReadType(e.Hash)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return fmt.Errorf("resolve tree entry %q: %w", e.Name, err)
		}
		e.Type = t
	}
	return nil
}

// PrettyPrint writes a human-readable rendering of obj to w. Blobs are
// written verbatim; trees list one entry per line as
// "<mode> <type> <hash>\t<name>"; commits print their payload.
func PrettyPrint(w io.Writer, obj Object) error {
	switch o := obj.(type) {
	case *Blob:
		_, err := w.Write(o.Data)
		return err
	case *Tree:
		for _, e := range o.Entries {
			if _, err := fmt.Fprintf(w, "%06o %s %s\t%s\n", uint32(e.Mode), e.Type, e.Hash, e.Name); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := w.Write(Payload(obj))
		return err
	}
}

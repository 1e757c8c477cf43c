package object

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestStoreListAndVerify(t *testing.T) {
	s := tempStore(t)
	blob, err := s.WriteBlob(&Blob{Data: []byte("hogehoge\n")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	tree, err := s.WriteTree(&Tree{Entries: []TreeEntry{{Mode: ModeFile, Hash: blob, Name: "hogehoge"}}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	sig := Signature{Name: "A", Email: "a@example.com", When: time.Unix(0, 0).UTC()}
	commit, err := s.WriteCommit(NewCommit(tree, nil, sig, sig, "msg"))
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	// Stray entries that are not objects.
	if err := os.MkdirAll(filepath.Join(s.Root(), "objects", "info"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "objects", blob.String()[:2], ".tmp123"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	hashes, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Hash{blob, tree, commit}
	sort.Slice(want, func(i, j int) bool { return want[i].String() < want[j].String() })
	if diff := cmp.Diff(want, hashes); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}

	got, err := s.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if diff := cmp.Diff(&VerifySummary{Objects: 3, Blobs: 1, Trees: 1, Commits: 1}, got); diff != "" {
		t.Errorf("Verify (-want +got):\n%s", diff)
	}
}

func TestStoreListEmpty(t *testing.T) {
	s := tempStore(t)
	hashes, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(hashes) != 0 {
		t.Errorf("List = %v, want empty", hashes)
	}
}

func TestStoreVerifyDetectsMisplacedObject(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteBlob(&Blob{Data: []byte("hello")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	data, err := os.ReadFile(s.ObjectPath(h))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	plantObject(t, s, testHash(0x42), data)

	_, err = s.Verify()
	if !errors.Is(err, ErrCorruptObject) {
		t.Fatalf("Verify error = %v, want ErrCorruptObject", err)
	}
}

func TestStoreVerifyDetectsCorruptObject(t *testing.T) {
	s := tempStore(t)
	plantObject(t, s, testHash(0x07), []byte("broken"))

	if _, err := s.Verify(); !errors.Is(err, ErrCorruptObject) {
		t.Fatalf("Verify error = %v, want ErrCorruptObject", err)
	}
}

func TestStoreVerifyDetectsUnparseableTree(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteRaw(TypeTree, []byte("100644 name"))
	if err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}

	_, err = s.Verify()
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Verify error = %v, want ErrParse", err)
	}
	if !s.Has(h) {
		t.Fatal("object vanished")
	}
}

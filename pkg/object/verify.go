package object

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// VerifySummary reports the outcome of Store.Verify.
type VerifySummary struct {
	Objects int
	Blobs   int
	Trees   int
	Commits int
}

// List returns the hashes of all stored objects in ascending order.
// Files in objects/ that do not follow the fan-out naming are ignored.
func (s *Store) List() ([]Hash, error) {
	objectsDir := filepath.Join(s.root, "objects")
	fanoutDirs, err := os.ReadDir(objectsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &IOError{Op: "read objects dir", Path: objectsDir, Err: err}
	}

	var hashes []Hash
	for _, fanoutDir := range fanoutDirs {
		prefix := fanoutDir.Name()
		if !fanoutDir.IsDir() || len(prefix) != 2 {
			continue
		}
		objectDir := filepath.Join(objectsDir, prefix)
		objectEntries, err := os.ReadDir(objectDir)
		if err != nil {
			return nil, &IOError{Op: "read objects fanout", Path: objectDir, Err: err}
		}
		for _, objectEntry := range objectEntries {
			if objectEntry.IsDir() {
				continue
			}
			h, err := ParseHash(prefix + objectEntry.Name())
			if err != nil {
				continue
			}
			hashes = append(hashes, h)
		}
	}

	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i][:], hashes[j][:]) < 0
	})
	return hashes, nil
}

// Verify reads every stored object, checks that its content hashes to its
// file name and that it parses. The first failure is returned.
func (s *Store) Verify() (*VerifySummary, error) {
	hashes, err := s.List()
	if err != nil {
		return nil, err
	}

	report := &VerifySummary{}
	for _, h := range hashes {
		objType, payload, err := s.ReadRaw(h)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", h, err)
		}
		if actual := HashObject(objType, payload); actual != h {
			return nil, fmt.Errorf("verify: %w", &CorruptObjectError{
				Hash: h,
				Err:  fmt.Errorf("content hashes to %s", actual),
			})
		}
		if _, err := Decode(objType, payload); err != nil {
			return nil, fmt.Errorf("verify %s: %w", h, err)
		}

		report.Objects++
		switch objType {
		case TypeBlob:
			report.Blobs++
		case TypeTree:
			report.Trees++
		case TypeCommit:
			report.Commits++
		}
	}
	s.logger.Debug("store verified", zap.Int("objects", report.Objects))
	return report, nil
}

// Package levelstore is the on-disk representation of product-tree levels
// (C2 in spec.md). Each level is a directory of one file per element; a
// digest sidecar and a lock file are additive metadata layered on top of
// that spec-mandated layout (see SPEC_FULL.md §4.1).
package levelstore

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"

	"github.com/batchgcd/batchgcd/internal/bgerrors"
	"github.com/batchgcd/batchgcd/internal/bigint"
)

// Ext is the file extension used for a level's per-index files.
const Ext = ".gmp"

// Store persists and retrieves product-tree levels under a root directory.
// It holds no mutable in-memory state: concurrent reads (ReadOne,
// ReadLevel) are safe, but callers must not write a level while another
// call reads or writes that same level.
type Store struct {
	root   string
	unlock func() error
}

// Open creates root if absent, takes an exclusive lock on it for the
// lifetime of the run, and checks (or writes) its format version tag. The
// caller must call Close when done.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &bgerrors.StorageError{Op: "mkdir root", Path: root, Err: err}
	}

	unlock, err := lockRoot(root)
	if err != nil {
		return nil, &bgerrors.StorageError{Op: "lock root", Path: root, Err: err}
	}

	if err := ensureFormatVersion(root); err != nil {
		unlock()
		return nil, &bgerrors.StorageError{Op: "format version", Path: root, Err: err}
	}

	return &Store{root: root, unlock: unlock}, nil
}

// Close releases the root lock. It does not remove any on-disk state: per
// spec.md §6, the tree root is scratch that persists across runs.
func (s *Store) Close() error {
	return s.unlock()
}

func (s *Store) levelDir(level int) string {
	return filepath.Join(s.root, fmt.Sprintf("level%d", level))
}

func (s *Store) elementPath(level, index int) string {
	return filepath.Join(s.levelDir(level), strconv.Itoa(index)+Ext)
}

// WriteLevel persists values as level ℓ, one file per element, overwriting
// any pre-existing files at that level. It also (re)writes the level's
// digest sidecar used to detect truncation on a later read.
func (s *Store) WriteLevel(level int, values []*big.Int) error {
	dir := s.levelDir(level)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &bgerrors.StorageError{Op: "mkdir level", Path: dir, Err: err}
	}

	sidecar := newDigestSidecar()
	for i, v := range values {
		raw := bigint.Encode(v)
		path := s.elementPath(level, i)
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return &bgerrors.StorageError{Op: "write element", Path: path, Err: err}
		}
		sidecar.set(i, contentDigest(raw))
	}

	sidecarPath := digestSidecarPath(dir)
	if err := sidecar.save(sidecarPath); err != nil {
		return &bgerrors.StorageError{Op: "write digest sidecar", Path: sidecarPath, Err: err}
	}
	return nil
}

// ReadLevel returns the ordered sequence of count integers previously
// written for level ℓ, reading files 0..count-1 in order.
func (s *Store) ReadLevel(level, count int) ([]*big.Int, error) {
	digests, err := loadDigestSidecar(digestSidecarPath(s.levelDir(level)))
	if err != nil {
		return nil, &bgerrors.StorageError{Op: "read digest sidecar", Path: s.levelDir(level), Err: err}
	}

	out := make([]*big.Int, count)
	for i := 0; i < count; i++ {
		v, err := s.readElement(level, i, digests)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadOne returns a single integer from level ℓ at position i.
func (s *Store) ReadOne(level, index int) (*big.Int, error) {
	digests, err := loadDigestSidecar(digestSidecarPath(s.levelDir(level)))
	if err != nil {
		return nil, &bgerrors.StorageError{Op: "read digest sidecar", Path: s.levelDir(level), Err: err}
	}
	return s.readElement(level, index, digests)
}

func (s *Store) readElement(level, index int, digests map[int][]byte) (*big.Int, error) {
	path := s.elementPath(level, index)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &bgerrors.StorageError{Op: "read element", Path: path, Err: err}
	}

	if want, ok := digests[index]; ok {
		got := contentDigest(raw)
		if string(got) != string(want) {
			return nil, &bgerrors.StorageError{
				Op:   "digest mismatch",
				Path: path,
				Err:  fmt.Errorf("file is truncated or corrupted: digest does not match what was written"),
			}
		}
	}

	v, err := bigint.Decode(raw)
	if err != nil {
		return nil, &bgerrors.StorageError{Op: "decode element", Path: path, Err: err}
	}
	return v, nil
}

// Root returns the tree root directory.
func (s *Store) Root() string {
	return s.root
}

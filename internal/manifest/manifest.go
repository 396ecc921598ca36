// Package manifest holds the product tree's level manifest — the
// floor_sizes mapping from level index to element count — and its optional
// on-disk persistence so a second process can resume the downward pass
// (C4) without recomputing the upward pass (C3).
//
// The manifest itself is always passed around as an explicit value per
// spec.md §9's redesign note: no package-level global state.
package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Manifest is the process-scoped, ordered floor_sizes mapping: FloorSizes[l]
// is the element count of level l. FloorSizes[0] == k (the input count) and
// FloorSizes[len(FloorSizes)-1] == 1 (the root).
type Manifest struct {
	FloorSizes []int `cbor:"floor_sizes"`
}

// Levels returns the number of levels the manifest describes (L in
// spec.md's notation).
func (m Manifest) Levels() int {
	return len(m.FloorSizes)
}

// envelope is the on-disk form: a version tag plus the manifest payload, so
// a future incompatible change to the encoding can be detected rather than
// silently misparsed.
type envelope struct {
	Version int        `cbor:"version"`
	Data    Manifest   `cbor:"data"`
}

const currentVersion = 1

// Save writes m to path in a compact binary envelope.
func Save(path string, m Manifest) error {
	raw, err := cbor.Marshal(envelope{Version: currentVersion, Data: m})
	if err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

// Load reads a manifest previously written by Save.
func Load(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var env envelope
	dec := cbor.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&env); err != nil {
		return Manifest{}, fmt.Errorf("manifest: decode %s: %w", path, err)
	}
	if env.Version != currentVersion {
		return Manifest{}, fmt.Errorf("manifest: %s has version %d, want %d", path, env.Version, currentVersion)
	}
	return env.Data, nil
}

// Validate checks the floor_sizes invariants from spec.md §3: the manifest
// must be non-empty, halve (ceiling) at every level, and end at exactly 1.
// It does not know the input count, so FloorSizes[0] is not checked
// against it.
func (m Manifest) Validate() error {
	if len(m.FloorSizes) == 0 {
		return fmt.Errorf("manifest: empty floor_sizes")
	}
	for i := 1; i < len(m.FloorSizes); i++ {
		want := (m.FloorSizes[i-1] + 1) / 2
		if m.FloorSizes[i] != want {
			return fmt.Errorf("manifest: floor_sizes[%d] = %d, want ceil(%d/2) = %d", i, m.FloorSizes[i], m.FloorSizes[i-1], want)
		}
	}
	if last := m.FloorSizes[len(m.FloorSizes)-1]; last != 1 {
		return fmt.Errorf("manifest: top level has %d elements, want 1", last)
	}
	return nil
}

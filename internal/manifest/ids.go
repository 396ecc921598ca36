package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// idEnvelope persists the input IDs in level-0 order, alongside (but
// separate from) the floor_sizes manifest, so a resumed downward pass can
// recover CompromisedModulus.ID without re-reading the input CSV.
type idEnvelope struct {
	Version int     `cbor:"version"`
	IDs     []int64 `cbor:"ids"`
}

const idsVersion = 1

// SaveIDs writes ids, in level-0 order, to path.
func SaveIDs(path string, ids []int64) error {
	raw, err := cbor.Marshal(idEnvelope{Version: idsVersion, IDs: ids})
	if err != nil {
		return fmt.Errorf("manifest: encode ids: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

// LoadIDs reads a sequence previously written by SaveIDs.
func LoadIDs(path string) ([]int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var env idEnvelope
	dec := cbor.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", path, err)
	}
	if env.Version != idsVersion {
		return nil, fmt.Errorf("manifest: %s has version %d, want %d", path, env.Version, idsVersion)
	}
	return env.IDs, nil
}

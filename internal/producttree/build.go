// Package producttree implements the product-tree builder (C3 in
// spec.md): a bottom-up fold of the input moduli into a balanced
// pairwise-product tree, persisting each level through the level store
// before reducing memory for the next.
package producttree

import (
	"math/big"

	"github.com/batchgcd/batchgcd/internal/bgerrors"
	"github.com/batchgcd/batchgcd/internal/levelstore"
	"github.com/batchgcd/batchgcd/internal/manifest"
)

// Options configures Build.
type Options struct {
	// Workers bounds how many pairwise multiplications run concurrently
	// within a single level. 0 or 1 means sequential.
	Workers int
	// OnLevel, if set, is called after each level is persisted — the hook
	// the observability layer uses to log per-level progress.
	OnLevel func(level, count int)
}

// Build folds leaves into a product tree, persisting every level (0..L-1)
// via store, and returns the number of levels and the resulting manifest.
//
// Leaves are released (see Leaves.release) as soon as level 0 has been
// persisted, per spec.md §3/§5's memory-discipline rule that at most two
// levels are resident at once during the upward pass.
func Build(store *levelstore.Store, leaves *Leaves, opts Options) (int, manifest.Manifest, error) {
	if err := leaves.validate(); err != nil {
		return 0, manifest.Manifest{}, &bgerrors.InvariantError{Reason: err.Error()}
	}

	var floorSizes []int
	current := leaves.values
	level := 0

	for len(current) > 1 {
		floorSizes = append(floorSizes, len(current))

		if err := store.WriteLevel(level, current); err != nil {
			return 0, manifest.Manifest{}, err
		}
		if opts.OnLevel != nil {
			opts.OnLevel(level, len(current))
		}

		next := foldLevel(current, opts.Workers)

		if level == 0 {
			leaves.release()
		}
		current = next
		level++
	}

	floorSizes = append(floorSizes, 1)
	if err := store.WriteLevel(level, current); err != nil {
		return 0, manifest.Manifest{}, err
	}
	if opts.OnLevel != nil {
		opts.OnLevel(level, 1)
	}

	m := manifest.Manifest{FloorSizes: floorSizes}
	return level + 1, m, nil
}

// Product is a convenience helper for tests and small inputs: it computes
// the full product of values without any disk persistence.
func Product(values []*big.Int) *big.Int {
	z := big.NewInt(1)
	for _, v := range values {
		z.Mul(z, v)
	}
	return z
}

// Package remaindertree implements the remainder-tree descender (C4 in
// spec.md): given a persisted product tree, compute Z mod Nᵢ² for every
// input modulus. Two variants are provided, matching spec.md §4.3 exactly;
// neither is preferred over the other by this package — callers choose.
package remaindertree

import (
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/batchgcd/batchgcd/internal/bgerrors"
	"github.com/batchgcd/batchgcd/internal/bigint"
	"github.com/batchgcd/batchgcd/internal/levelstore"
	"github.com/batchgcd/batchgcd/internal/manifest"
)

// Options configures both variants below.
type Options struct {
	// Workers bounds concurrent per-index reductions. 0 or 1 means
	// sequential.
	Workers int
	// OnLevel, if set (fast variant only), is called after each level's
	// reductions complete.
	OnLevel func(level, count int)
}

// ComputeFrugal is the memory-frugal, single-pass variant: it reads only
// the leaves and the root, then reduces the root modulo each leaf squared
// directly. This is the safe default — minimal memory, O(k) reductions
// against the full product Z.
func ComputeFrugal(store *levelstore.Store, k, levels int, opts Options) ([]*big.Int, error) {
	leaves, err := store.ReadLevel(0, k)
	if err != nil {
		return nil, err
	}
	root, err := store.ReadOne(levels-1, 0)
	if err != nil {
		return nil, err
	}

	r := make([]*big.Int, k)
	reduce := func(i int) {
		square := bigint.Square(leaves[i])
		r[i] = bigint.Mod(root, square)
	}

	if opts.Workers <= 1 {
		for i := 0; i < k; i++ {
			reduce(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i := 0; i < k; i++ {
			i := i
			g.Go(func() error { reduce(i); return nil })
		}
		_ = g.Wait()
	}

	return r, nil
}

// ComputeFast is the true remainder-tree descent: starting from the root,
// it walks down the persisted levels, at each step reducing the parent's
// remainder modulo the square of the corresponding level-ℓ element. The
// parent index relation parent(i) = i/2 holds at every level, including
// where an orphan was promoted unchanged (spec.md §4.2's orphan-carry
// ordering guarantee), so this is correct without any special-casing for
// odd-length levels.
func ComputeFast(store *levelstore.Store, m manifest.Manifest, opts Options) ([]*big.Int, error) {
	if err := m.Validate(); err != nil {
		return nil, &bgerrors.InvariantError{Reason: err.Error()}
	}

	levels := m.Levels()
	root, err := store.ReadOne(levels-1, 0)
	if err != nil {
		return nil, err
	}
	if m.FloorSizes[levels-1] != 1 {
		return nil, &bgerrors.InvariantError{Reason: "incomplete product tree: top level does not contain exactly one element"}
	}

	r := []*big.Int{root}

	for level := levels - 2; level >= 0; level-- {
		count := m.FloorSizes[level]
		next := make([]*big.Int, count)

		reduce := func(i int) error {
			y, err := store.ReadOne(level, i)
			if err != nil {
				return err
			}
			square := bigint.Square(y)
			next[i] = bigint.Mod(r[i/2], square)
			return nil
		}

		if opts.Workers <= 1 {
			for i := 0; i < count; i++ {
				if err := reduce(i); err != nil {
					return nil, err
				}
			}
		} else {
			var g errgroup.Group
			g.SetLimit(opts.Workers)
			for i := 0; i < count; i++ {
				i := i
				g.Go(func() error { return reduce(i) })
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		}

		r = next
		if opts.OnLevel != nil {
			opts.OnLevel(level, count)
		}
	}

	return r, nil
}

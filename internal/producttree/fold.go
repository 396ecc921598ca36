package producttree

import (
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/batchgcd/batchgcd/internal/bigint"
)

// foldLevel builds the next level from current: pairwise products of
// consecutive elements, with an odd tail carried forward unchanged (the
// orphan carry — spec.md §4.2 step 2c). The pair-multiplication loop has no
// inter-iteration data dependency, so spec.md §5 permits running it
// concurrently provided output ordering is preserved; this bounds
// concurrency with an errgroup the same way GenerateSparseMerkleTree in the
// teacher repo bounds its leaf-hashing worker pool.
func foldLevel(current []*big.Int, workers int) []*big.Int {
	pairs := len(current) / 2
	hasOrphan := len(current)%2 == 1
	next := make([]*big.Int, pairs+boolToInt(hasOrphan))

	if pairs > 0 {
		if workers <= 1 {
			for i := 0; i < pairs; i++ {
				next[i] = bigint.Mul(current[2*i], current[2*i+1])
			}
		} else {
			var g errgroup.Group
			g.SetLimit(workers)
			for i := 0; i < pairs; i++ {
				i := i
				g.Go(func() error {
					next[i] = bigint.Mul(current[2*i], current[2*i+1])
					return nil
				})
			}
			_ = g.Wait() // the multiplications cannot fail
		}
	}

	if hasOrphan {
		next[pairs] = current[len(current)-1]
	}

	return next
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package remaindertree

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/batchgcd/batchgcd/internal/bigint"
	"github.com/batchgcd/batchgcd/internal/levelstore"
	"github.com/batchgcd/batchgcd/internal/manifest"
	"github.com/batchgcd/batchgcd/internal/producttree"
)

func ints(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func buildTestTree(t *testing.T, values []*big.Int) (*levelstore.Store, int, manifest.Manifest) {
	t.Helper()
	store, err := levelstore.Open(filepath.Join(t.TempDir(), "tree"))
	if err != nil {
		t.Fatalf("levelstore.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	levels, m, err := producttree.Build(store, producttree.NewLeaves(append([]*big.Int(nil), values...)), producttree.Options{})
	if err != nil {
		t.Fatalf("producttree.Build: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid manifest: %v", err)
	}
	return store, levels, m
}

// naiveRemainder computes Z mod n^2 directly, against which both variants
// are checked.
func naiveRemainder(values []*big.Int, i int) *big.Int {
	z := producttree.Product(values)
	return bigint.Mod(z, bigint.Square(values[i]))
}

func TestComputeFrugalMatchesNaive(t *testing.T) {
	values := ints(7, 13, 11, 91, 17)
	store, levels, _ := buildTestTree(t, values)

	got, err := ComputeFrugal(store, len(values), levels, Options{})
	if err != nil {
		t.Fatalf("ComputeFrugal: %v", err)
	}
	for i := range values {
		want := naiveRemainder(values, i)
		if got[i].Cmp(want) != 0 {
			t.Errorf("remainder[%d] = %s, want %s", i, got[i], want)
		}
	}
}

func TestComputeFastMatchesNaive(t *testing.T) {
	values := ints(7, 13, 11, 91, 17)
	store, _, m := buildTestTree(t, values)

	got, err := ComputeFast(store, m, Options{})
	if err != nil {
		t.Fatalf("ComputeFast: %v", err)
	}
	for i := range values {
		want := naiveRemainder(values, i)
		if got[i].Cmp(want) != 0 {
			t.Errorf("remainder[%d] = %s, want %s", i, got[i], want)
		}
	}
}

func TestComputeFrugalAndFastAgree(t *testing.T) {
	values := ints(3, 5, 7) // odd leaf count: exercises orphan-carry indexing
	store, levels, m := buildTestTree(t, values)

	frugal, err := ComputeFrugal(store, len(values), levels, Options{})
	if err != nil {
		t.Fatalf("ComputeFrugal: %v", err)
	}
	fast, err := ComputeFast(store, m, Options{})
	if err != nil {
		t.Fatalf("ComputeFast: %v", err)
	}

	for i := range values {
		if frugal[i].Cmp(fast[i]) != 0 {
			t.Errorf("frugal[%d] = %s, fast[%d] = %s, want equal", i, frugal[i], i, fast[i])
		}
	}
}

func TestComputeFastRejectsIncompleteManifest(t *testing.T) {
	values := ints(3, 5, 7, 11)
	store, _, _ := buildTestTree(t, values)

	// A floor_sizes sequence that never reaches exactly one element is
	// rejected by Validate before any level is even read.
	bad := manifest.Manifest{FloorSizes: []int{4, 2}}
	if _, err := ComputeFast(store, bad, Options{}); err == nil {
		t.Fatal("expected ComputeFast to reject a manifest that doesn't terminate at the root")
	}
}

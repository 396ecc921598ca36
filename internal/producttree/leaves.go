package producttree

import (
	"fmt"
	"math/big"
)

// Leaves wraps the caller's input moduli as a consuming handle: Build is
// free to release the underlying slice once level 0 has been persisted, to
// reclaim memory for the upward pass (spec.md §3's ownership rule). After
// Build runs, the handle must not be reused.
type Leaves struct {
	values []*big.Int
}

// NewLeaves wraps values for one Build call. Build does not modify the
// integers in values; it drops the handle's reference to the slice once
// level 0 is persisted (when there is more than one leaf), so the memory is
// reclaimed only if the caller keeps no other reference to it.
func NewLeaves(values []*big.Int) *Leaves {
	return &Leaves{values: values}
}

// Len reports the number of leaves still held by the handle. Once Build has
// released the handle this is 0.
func (l *Leaves) Len() int {
	return len(l.values)
}

// release drops the handle's reference to the underlying slice so the
// garbage collector can reclaim it once no other reference remains.
func (l *Leaves) release() {
	l.values = nil
}

// validate rejects an empty input set or a zero-valued modulus (an
// InvariantError per spec.md §7: "input modulus equals zero").
func (l *Leaves) validate() error {
	if len(l.values) == 0 {
		return fmt.Errorf("no input moduli")
	}
	for i, v := range l.values {
		if v.Sign() == 0 {
			return fmt.Errorf("modulus at index %d is zero", i)
		}
	}
	return nil
}

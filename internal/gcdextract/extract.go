// Package gcdextract implements the final gcd-extraction stage (C5 in
// spec.md): given the original moduli and the remainders vector produced by
// C4, it surfaces every modulus that shares a prime factor with another
// modulus in the batch.
package gcdextract

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"

	"github.com/batchgcd/batchgcd/internal/bgerrors"
	"github.com/batchgcd/batchgcd/internal/bigint"
)

// CompromisedModulus names one modulus found to share a prime factor with
// some other modulus in the batch, and the factor itself.
type CompromisedModulus struct {
	ID     int64
	Factor *big.Int
}

// Result is the output of Extract: the compromised moduli, in input order,
// plus a membership bitset for callers that only need "is index i
// compromised" without the factor value (e.g. a progress reporter).
type Result struct {
	Compromised []CompromisedModulus
	Indices     *bitset.BitSet
	TotalCount  int
}

// Extract computes, for every i, R[i]/N[i] then gcd(that, N[i]) — exact
// because N[i] | R[i] by construction (R[i] = Z mod N[i]², and N[i] | Z).
// Any resulting value other than 1 is a non-trivial factor of N[i].
func Extract(ids []int64, moduli, remainders []*big.Int) (Result, error) {
	if len(moduli) != len(remainders) {
		return Result{}, &bgerrors.InvariantError{
			Reason: fmt.Sprintf("moduli count %d does not match remainders count %d", len(moduli), len(remainders)),
		}
	}
	if len(ids) != len(moduli) {
		return Result{}, &bgerrors.InvariantError{
			Reason: fmt.Sprintf("id count %d does not match moduli count %d", len(ids), len(moduli)),
		}
	}

	res := Result{Indices: bitset.New(uint(len(moduli)))}

	for i, n := range moduli {
		if n.Sign() == 0 {
			return Result{}, &bgerrors.InvariantError{Reason: fmt.Sprintf("modulus at index %d is zero", i)}
		}

		quotient, remainder := new(big.Int).QuoRem(remainders[i], n, new(big.Int))
		if remainder.Sign() != 0 {
			return Result{}, &bgerrors.ArithmeticError{
				Op:  "exact division R[i]/N[i]",
				Err: fmt.Errorf("N[i] does not divide R[i] at index %d — upstream remainder-tree corruption", i),
			}
		}

		factor := bigint.GCD(quotient, n)
		if factor.Cmp(big.NewInt(1)) != 0 {
			res.Indices.Set(uint(i))
			res.Compromised = append(res.Compromised, CompromisedModulus{ID: ids[i], Factor: factor})
		}
	}

	res.TotalCount = len(res.Compromised)
	return res, nil
}

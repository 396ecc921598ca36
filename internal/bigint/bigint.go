// Package bigint wraps math/big with the raw, portable serialization the
// level store needs and the handful of arithmetic primitives the product
// and remainder trees call. It is the boundary the rest of the module talks
// to instead of math/big directly, so the on-disk byte layout lives in one
// place.
package bigint

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// signPositive and signNegative tag the raw encoding's sign byte. Zero is
// always encoded as signPositive with an empty magnitude.
const (
	signPositive byte = 0
	signNegative byte = 1
)

// Encode writes n in the raw portable form: a one-byte sign tag, a
// big-endian uint32 byte length, then the big-endian magnitude bytes. The
// format is deliberately simple — it exists purely for round-tripping
// through the level store, not for interoperating with any external tool.
func Encode(n *big.Int) []byte {
	mag := n.Bytes()

	buf := make([]byte, 1+4+len(mag))
	if n.Sign() < 0 {
		buf[0] = signNegative
	} else {
		buf[0] = signPositive
	}
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(mag)))
	copy(buf[5:], mag)
	return buf
}

// WriteTo writes the raw encoding of n to w.
func WriteTo(w io.Writer, n *big.Int) error {
	_, err := w.Write(Encode(n))
	return err
}

// Decode parses the raw portable form produced by Encode. It returns an
// error if the buffer is shorter than the length header declares — the
// level store surfaces that as a StorageError for a truncated file.
func Decode(raw []byte) (*big.Int, error) {
	if len(raw) < 5 {
		return nil, fmt.Errorf("bigint: truncated record: got %d bytes, need at least 5", len(raw))
	}
	sign := raw[0]
	if sign != signPositive && sign != signNegative {
		return nil, fmt.Errorf("bigint: invalid sign byte %d", sign)
	}
	n := binary.BigEndian.Uint32(raw[1:5])
	if uint32(len(raw)-5) < n {
		return nil, fmt.Errorf("bigint: truncated record: declared %d magnitude bytes, got %d", n, len(raw)-5)
	}

	v := new(big.Int).SetBytes(raw[5 : 5+n])
	if sign == signNegative && v.Sign() != 0 {
		v.Neg(v)
	}
	return v, nil
}

// ReadFrom reads one raw-encoded integer from r. Unlike Decode it does not
// know the record length in advance, so it reads the header first and then
// exactly the declared magnitude length.
func ReadFrom(r io.Reader) (*big.Int, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("bigint: read header: %w", err)
	}
	sign := header[0]
	if sign != signPositive && sign != signNegative {
		return nil, fmt.Errorf("bigint: invalid sign byte %d", sign)
	}
	n := binary.BigEndian.Uint32(header[1:5])

	mag := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, mag); err != nil {
			return nil, fmt.Errorf("bigint: read magnitude: %w", err)
		}
	}

	v := new(big.Int).SetBytes(mag)
	if sign == signNegative && v.Sign() != 0 {
		v.Neg(v)
	}
	return v, nil
}

// ParseDecimal parses a base-10 string into an arbitrary-precision integer,
// as required for the modulus_decimal CSV column.
func ParseDecimal(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("bigint: %q is not a valid base-10 integer", s)
	}
	return v, nil
}

// Mul returns a*b as a new integer.
func Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

// Mod returns a mod m as a new integer (m must be positive).
func Mod(a, m *big.Int) *big.Int {
	return new(big.Int).Mod(a, m)
}

// Square returns n*n as a new integer.
func Square(n *big.Int) *big.Int {
	return new(big.Int).Mul(n, n)
}

// DivExact returns a/b as a new integer, assuming b divides a exactly. The
// caller (C5) relies on this precondition holding by construction; DivExact
// does not itself verify it.
func DivExact(a, b *big.Int) *big.Int {
	return new(big.Int).Div(a, b)
}

// GCD returns gcd(a, b) as a new integer.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// Package field holds the bit and byte encodings of BN254 scalar field
// elements shared by the native and the circuit code paths.
package field

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
)

const (
	// SizeInBits is the number of bits of a canonical field element.
	SizeInBits = fr.Bits
	// SizeInDataBits is the number of bits any value can carry without
	// wrapping around the modulus.
	SizeInDataBits = fr.Bits - 1
	// SizeInBytes is the length of the fixed-width byte encoding.
	SizeInBytes = fr.Bytes
)

var ErrNotCanonical = errors.New("value is not a canonical field element")

// Modulus returns a fresh copy of the field order.
func Modulus() *big.Int {
	return fr.Modulus()
}

// BitsLE returns the n least significant bits of x, little-endian.
func BitsLE(x *big.Int, n int) []bool {
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = x.Bit(i) == 1
	}
	return bits
}

// BigFromBitsLE is the inverse of BitsLE.
func BigFromBitsLE(bits []bool) *big.Int {
	x := new(big.Int)
	for i, b := range bits {
		if b {
			x.SetBit(x, i, 1)
		}
	}
	return x
}

// BytesBitsLE expands bytes into bits, least significant bit of each byte first.
func BytesBitsLE(b []byte) []bool {
	bits := make([]bool, 0, 8*len(b))
	for _, x := range b {
		for i := 0; i < 8; i++ {
			bits = append(bits, (x>>i)&1 == 1)
		}
	}
	return bits
}

func ToBig(e fr.Element) *big.Int {
	r := new(big.Int)
	e.BigInt(r)
	return r
}

// FromBig reduces x modulo the field order.
func FromBig(x *big.Int) fr.Element {
	var e fr.Element
	e.SetBigInt(x)
	return e
}

// ToBitsLE returns the SizeInBits bit encoding of e.
func ToBitsLE(e fr.Element) []bool {
	return BitsLE(ToBig(e), SizeInBits)
}

// FromBitsLE decodes at most SizeInBits bits, rejecting non-canonical values.
func FromBitsLE(bits []bool) (fr.Element, error) {
	var e fr.Element
	if len(bits) > SizeInBits {
		return e, fmt.Errorf("%w: %d bits exceed %d", ErrNotCanonical, len(bits), SizeInBits)
	}
	x := BigFromBitsLE(bits)
	if x.Cmp(fr.Modulus()) >= 0 {
		return e, ErrNotCanonical
	}
	e.SetBigInt(x)
	return e, nil
}

// ToBytesLE returns the little-endian fixed-width encoding of e.
func ToBytesLE(e fr.Element) [SizeInBytes]byte {
	be := e.Bytes()
	var le [SizeInBytes]byte
	for i := range be {
		le[i] = be[SizeInBytes-1-i]
	}
	return le
}

// FromBytesLE decodes at most SizeInBytes little-endian bytes.
func FromBytesLE(b []byte) (fr.Element, error) {
	var e fr.Element
	if len(b) > SizeInBytes {
		return e, fmt.Errorf("%w: %d bytes exceed %d", ErrNotCanonical, len(b), SizeInBytes)
	}
	be := make([]byte, len(b))
	for i := range b {
		be[i] = b[len(b)-1-i]
	}
	x := new(big.Int).SetBytes(be)
	if x.Cmp(fr.Modulus()) >= 0 {
		return e, ErrNotCanonical
	}
	e.SetBigInt(x)
	return e, nil
}

// Constants turns native bits into constant boolean wires.
func Constants(bits []bool) []frontend.Variable {
	out := make([]frontend.Variable, len(bits))
	for i, b := range bits {
		if b {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}

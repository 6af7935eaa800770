// Package group wraps the twisted Edwards curve embedded in BN254 (Baby
// Jubjub). Its prime-order subgroup provides the group elements and the
// scalar field used by commitments and signatures.
package group

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/blake2s"
)

const (
	// ScalarSizeInBits is the bit length of the subgroup order.
	ScalarSizeInBits = 251
	// ScalarSizeInDataBits is the number of bits a scalar carries without reduction.
	ScalarSizeInDataBits = ScalarSizeInBits - 1
	// ScalarSizeInBytes is the length of the fixed-width scalar encoding.
	ScalarSizeInBytes = 32
)

var (
	ErrNotOnCurve    = errors.New("point is not on the curve")
	ErrNotInSubgroup = errors.New("point is not in the prime-order subgroup")
)

// Point is an affine point of the curve.
type Point = twistededwards.PointAffine

var params = twistededwards.GetEdwardsCurve()

// Order returns a copy of the prime subgroup order.
func Order() *big.Int {
	return new(big.Int).Set(&params.Order)
}

func Generator() Point {
	return params.Base
}

// Zero returns the neutral element (0, 1).
func Zero() Point {
	var p Point
	p.Y.SetOne()
	return p
}

func IsZero(p Point) bool {
	return p.X.IsZero() && p.Y.IsOne()
}

func Add(a, b Point) Point {
	var r Point
	r.Add(&a, &b)
	return r
}

func Neg(p Point) Point {
	var r Point
	r.Neg(&p)
	return r
}

func ScalarMul(p Point, s *big.Int) Point {
	var r Point
	r.ScalarMultiplication(&p, s)
	return r
}

// GeneratorMul returns s*G.
func GeneratorMul(s *big.Int) Point {
	return ScalarMul(params.Base, s)
}

func IsInSubgroup(p Point) bool {
	if !p.IsOnCurve() {
		return false
	}
	return IsZero(ScalarMul(p, &params.Order))
}

// solveY returns a y such that (x, y) is on the curve.
func solveY(x fr.Element) (fr.Element, bool) {
	var one, x2, num, den, y fr.Element
	one.SetOne()
	x2.Square(&x)
	num.Mul(&params.A, &x2)
	num.Sub(&one, &num)
	den.Mul(&params.D, &x2)
	den.Sub(&one, &den)
	if den.IsZero() {
		return y, false
	}
	den.Inverse(&den)
	num.Mul(&num, &den)
	if y.Sqrt(&num) == nil {
		return y, false
	}
	return y, true
}

// FromXCoordinate recovers the unique subgroup point with the given x.
// Of (x, y) and (x, -y) at most one has odd order.
func FromXCoordinate(x fr.Element) (Point, error) {
	y, ok := solveY(x)
	if !ok {
		return Point{}, ErrNotOnCurve
	}
	p := Point{X: x, Y: y}
	if IsInSubgroup(p) {
		return p, nil
	}
	p.Y.Neg(&p.Y)
	if IsInSubgroup(p) {
		return p, nil
	}
	return Point{}, ErrNotInSubgroup
}

// HashToCurve deterministically maps (domain, index) to a subgroup point with
// unknown discrete logarithm, by try-and-increment over blake2s digests.
func HashToCurve(domain string, index uint32) Point {
	buf := make([]byte, len(domain)+8)
	copy(buf, domain)
	binary.LittleEndian.PutUint32(buf[len(domain):], index)
	cofactor := big.NewInt(8)
	for counter := uint32(0); ; counter++ {
		binary.LittleEndian.PutUint32(buf[len(domain)+4:], counter)
		digest := blake2s.Sum256(buf)
		var x fr.Element
		x.SetBytes(digest[:])
		y, ok := solveY(x)
		if !ok {
			continue
		}
		p := ScalarMul(Point{X: x, Y: y}, cofactor)
		if IsZero(p) {
			continue
		}
		return p
	}
}

// RandomScalar samples a scalar uniformly from [0, order).
func RandomScalar(rng io.Reader) (*big.Int, error) {
	return rand.Int(rng, &params.Order)
}

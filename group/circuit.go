package group

import (
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/PolyhedraZK/ecvm/field"
)

// CircuitPoint is a curve point over wires.
type CircuitPoint = twistededwards.Point

// NewCurve returns the in-circuit gadget for the same curve the native code uses.
func NewCurve(api frontend.API) (twistededwards.Curve, error) {
	return twistededwards.NewEdCurve(api, tedwards.BN254)
}

// Constant lifts a native point into constant wires.
func Constant(p Point) CircuitPoint {
	return CircuitPoint{X: field.ToBig(p.X), Y: field.ToBig(p.Y)}
}

func CircuitZero() CircuitPoint {
	return CircuitPoint{X: 0, Y: 1}
}

// AssertIsInSubgroup constrains p to lie in the prime-order subgroup.
func AssertIsInSubgroup(curve twistededwards.Curve, p CircuitPoint) {
	api := curve.API()
	curve.AssertIsOnCurve(p)
	q := curve.ScalarMul(p, Order())
	api.AssertIsEqual(q.X, 0)
	api.AssertIsEqual(q.Y, 1)
}

// AssertIsScalar constrains s to be a canonical scalar.
func AssertIsScalar(api frontend.API, s frontend.Variable) {
	api.AssertIsLessOrEqual(s, new(big.Int).Sub(Order(), big.NewInt(1)))
}

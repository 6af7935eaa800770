package account

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
)

// CircuitSignature is a signature over wires.
type CircuitSignature struct {
	Challenge frontend.Variable
	Response  frontend.Variable
	PkSig     group.CircuitPoint
	PrSig     group.CircuitPoint
}

// Assign returns the witness of s.
func (s *Signature) Assign() CircuitSignature {
	return CircuitSignature{
		Challenge: s.challenge,
		Response:  s.response,
		PkSig:     group.Constant(s.computeKey.pkSig),
		PrSig:     group.Constant(s.computeKey.prSig),
	}
}

// Verify returns a boolean wire that is 1 iff the signature is valid for
// address and message, following the native Verify.
func (s CircuitSignature) Verify(api frontend.API, address group.CircuitPoint, message []frontend.Variable) (frontend.Variable, error) {
	curve, err := group.NewCurve(api)
	if err != nil {
		return nil, err
	}
	group.AssertIsInSubgroup(curve, s.PkSig)
	group.AssertIsInSubgroup(curve, s.PrSig)
	group.AssertIsScalar(api, s.Challenge)
	group.AssertIsScalar(api, s.Response)

	g := group.Constant(group.Generator())
	skPrf := poseidon4.Circuit(api).HashToScalar([]frontend.Variable{s.PkSig.X, s.PrSig.X})
	derived := curve.Add(curve.Add(s.PkSig, s.PrSig), curve.ScalarMul(g, skPrf))

	gR := curve.DoubleBaseScalarMul(g, s.PkSig, s.Response, s.Challenge)
	preimage := append([]frontend.Variable{gR.X, s.PkSig.X, s.PrSig.X, address.X}, message...)
	challenge := poseidon8.Circuit(api).HashToScalar(preimage)

	valid := api.And(api.IsZero(api.Sub(derived.X, address.X)), api.IsZero(api.Sub(derived.Y, address.Y)))
	return api.And(valid, api.IsZero(api.Sub(challenge, s.Challenge))), nil
}

// CircuitMessage lifts a native message into constant wires.
func CircuitMessage(message []fr.Element) []frontend.Variable {
	out := make([]frontend.Variable, len(message))
	for i := range message {
		out[i] = field.ToBig(message[i])
	}
	return out
}

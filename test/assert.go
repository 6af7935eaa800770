// Package test checks circuits against both the gnark test engine and a
// compiled R1CS.
package test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	gnarktest "github.com/consensys/gnark/test"
)

type Assert struct {
	t     *testing.T
	field *big.Int
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t, field: ecc.BN254.ScalarField()}
}

// ProveSucceeded requires the assignment to satisfy the circuit in the test
// engine and in the compiled constraint system.
func (a *Assert) ProveSucceeded(circuit, assignment frontend.Circuit) {
	a.t.Helper()
	w, err := frontend.NewWitness(assignment, a.field)
	if err != nil {
		a.t.Fatalf("witness: %v", err)
	}
	if err := gnarktest.IsSolved(circuit, assignment, a.field); err != nil {
		a.t.Fatalf("should succeed: %v", err)
	}
	ccs, err := frontend.Compile(a.field, r1cs.NewBuilder, circuit)
	if err != nil {
		a.t.Fatalf("compile: %v", err)
	}
	if err := ccs.IsSolved(w); err != nil {
		a.t.Fatalf("should succeed after compilation: %v", err)
	}
}

// ProveFailed requires the assignment to be rejected.
func (a *Assert) ProveFailed(circuit, assignment frontend.Circuit) {
	a.t.Helper()
	if err := gnarktest.IsSolved(circuit, assignment, a.field); err == nil {
		a.t.Fatal("should fail")
	}
}

package test

import (
	"testing"

	"github.com/consensys/gnark/frontend"
)

type squareCircuit struct {
	X frontend.Variable
	Y frontend.Variable `gnark:",public"`
}

func (c *squareCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Mul(c.X, c.X), c.Y)
	return nil
}

func TestAssert(t *testing.T) {
	a := NewAssert(t)
	a.ProveSucceeded(&squareCircuit{}, &squareCircuit{X: 3, Y: 9})
	a.ProveFailed(&squareCircuit{}, &squareCircuit{X: 3, Y: 10})
}

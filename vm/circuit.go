package vm

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"

	"github.com/PolyhedraZK/ecvm/program"
)

var (
	inputRegister      = program.NewRegister(0)
	randomizerRegister = program.NewRegister(1)
	outputRegister     = program.NewRegister(2)
)

// CommitCircuit proves that Output is the commitment to the private input
// under the private randomizer. The templates fix the shape of the witness.
type CommitCircuit[O CommitOperation] struct {
	Input      []frontend.Variable
	Randomizer []frontend.Variable
	Output     frontend.Variable `gnark:",public"`

	input      program.Value
	randomizer program.Value
}

// NewCommitCircuit evaluates the commitment natively and returns the circuit
// assigned with input, randomizer and the resulting output. The same value
// serves as the circuit definition for compilation.
func NewCommitCircuit[O CommitOperation](input, randomizer program.Value) (*CommitCircuit[O], error) {
	stack := NewStack()
	if err := stack.Store(inputRegister, input); err != nil {
		return nil, err
	}
	if err := stack.Store(randomizerRegister, randomizer); err != nil {
		return nil, err
	}
	instr := NewCommit[O](program.RegisterOperand(inputRegister), program.RegisterOperand(randomizerRegister), outputRegister)
	if err := instr.Evaluate(stack); err != nil {
		return nil, err
	}
	out, err := stack.Load(program.RegisterOperand(outputRegister))
	if err != nil {
		return nil, err
	}
	return newCommitCircuit[O](input, randomizer, out.Wires()[0]), nil
}

func newCommitCircuit[O CommitOperation](input, randomizer program.Value, output *big.Int) *CommitCircuit[O] {
	return &CommitCircuit[O]{
		Input:      variables(input.Wires()),
		Randomizer: variables(randomizer.Wires()),
		Output:     output,
		input:      input,
		randomizer: randomizer,
	}
}

func variables(ws []*big.Int) []frontend.Variable {
	out := make([]frontend.Variable, len(ws))
	for i, w := range ws {
		out[i] = w
	}
	return out
}

func (c *CommitCircuit[O]) Define(api frontend.API) error {
	input, err := program.AllocateCircuitValue(api, c.input, c.Input)
	if err != nil {
		return err
	}
	randomizer, err := program.AllocateCircuitValue(api, c.randomizer, c.Randomizer)
	if err != nil {
		return err
	}

	stack := NewCircuitStack(api)
	if err := stack.Store(inputRegister, input); err != nil {
		return err
	}
	if err := stack.Store(randomizerRegister, randomizer); err != nil {
		return err
	}
	instr := NewCommit[O](program.RegisterOperand(inputRegister), program.RegisterOperand(randomizerRegister), outputRegister)
	if err := instr.Execute(stack); err != nil {
		return err
	}

	out, err := stack.Load(program.RegisterOperand(outputRegister))
	if err != nil {
		return err
	}
	lit, ok := out.(program.CircuitLiteral)
	if !ok || lit.Type != program.Field {
		return fmt.Errorf("commit output is not a field element")
	}
	api.AssertIsEqual(lit.X, c.Output)
	return nil
}

// CompileCommit compiles the commit circuit of opcode for inputs shaped like
// input into an R1CS.
func CompileCommit(opcode Opcode, input, randomizer program.Value) (constraint.ConstraintSystem, error) {
	var (
		circuit frontend.Circuit
		err     error
	)
	switch opcode {
	case OpcodeCommitBHP256:
		circuit, err = NewCommitCircuit[BHP256](input, randomizer)
	case OpcodeCommitBHP512:
		circuit, err = NewCommitCircuit[BHP512](input, randomizer)
	case OpcodeCommitBHP768:
		circuit, err = NewCommitCircuit[BHP768](input, randomizer)
	case OpcodeCommitBHP1024:
		circuit, err = NewCommitCircuit[BHP1024](input, randomizer)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOpcode, string(opcode))
	}
	if err != nil {
		return nil, err
	}

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, err
	}
	log := logger.Logger()
	log.Debug().
		Str("opcode", opcode.String()).
		Int("nbConstraints", ccs.GetNbConstraints()).
		Msg("compiled commit circuit")
	return ccs, nil
}

package vm

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/PolyhedraZK/ecvm/bhp"
	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
	"github.com/PolyhedraZK/ecvm/program"
)

// CommitOperation is a commitment scheme usable by CommitInstruction. The
// native and the circuit implementation of a variant must agree on every
// input.
type CommitOperation interface {
	Opcode() Opcode
	Evaluate(input, randomizer program.Value) (program.Value, error)
	Execute(api frontend.API, input, randomizer program.CircuitValue) (program.CircuitValue, error)
	OutputType() program.RegisterType
}

// BHP256, BHP512, BHP768 and BHP1024 commit with the BHP hash of the
// matching size and output a field element.
type (
	BHP256  struct{}
	BHP512  struct{}
	BHP768  struct{}
	BHP1024 struct{}
)

func (BHP256) Opcode() Opcode  { return OpcodeCommitBHP256 }
func (BHP512) Opcode() Opcode  { return OpcodeCommitBHP512 }
func (BHP768) Opcode() Opcode  { return OpcodeCommitBHP768 }
func (BHP1024) Opcode() Opcode { return OpcodeCommitBHP1024 }

func (BHP256) Evaluate(in, r program.Value) (program.Value, error) {
	return evaluateBHP(bhp.BHP256, in, r)
}

func (BHP512) Evaluate(in, r program.Value) (program.Value, error) {
	return evaluateBHP(bhp.BHP512, in, r)
}

func (BHP768) Evaluate(in, r program.Value) (program.Value, error) {
	return evaluateBHP(bhp.BHP768, in, r)
}

func (BHP1024) Evaluate(in, r program.Value) (program.Value, error) {
	return evaluateBHP(bhp.BHP1024, in, r)
}

func (BHP256) Execute(api frontend.API, in, r program.CircuitValue) (program.CircuitValue, error) {
	return executeBHP(api, bhp.BHP256, in, r)
}

func (BHP512) Execute(api frontend.API, in, r program.CircuitValue) (program.CircuitValue, error) {
	return executeBHP(api, bhp.BHP512, in, r)
}

func (BHP768) Execute(api frontend.API, in, r program.CircuitValue) (program.CircuitValue, error) {
	return executeBHP(api, bhp.BHP768, in, r)
}

func (BHP1024) Execute(api frontend.API, in, r program.CircuitValue) (program.CircuitValue, error) {
	return executeBHP(api, bhp.BHP1024, in, r)
}

var bhpOutputType = program.LiteralRegisterType(program.Field)

func (BHP256) OutputType() program.RegisterType  { return bhpOutputType }
func (BHP512) OutputType() program.RegisterType  { return bhpOutputType }
func (BHP768) OutputType() program.RegisterType  { return bhpOutputType }
func (BHP1024) OutputType() program.RegisterType { return bhpOutputType }

func evaluateBHP(hasher *bhp.BHP, input, randomizer program.Value) (program.Value, error) {
	r, ok := randomizer.(program.Literal)
	if !ok || r.Type() != program.Scalar {
		return nil, ErrInvalidRandomizer
	}
	out, err := hasher.Commit(preimageBits(input), r.Scalar())
	if err != nil {
		return nil, err
	}
	return program.NewField(out), nil
}

func executeBHP(api frontend.API, hasher *bhp.BHP, input, randomizer program.CircuitValue) (program.CircuitValue, error) {
	r, ok := randomizer.(program.CircuitLiteral)
	if !ok || r.Type != program.Scalar {
		return nil, ErrInvalidRandomizer
	}
	curve, err := group.NewCurve(api)
	if err != nil {
		return nil, err
	}
	out, err := hasher.CommitCircuit(curve, circuitPreimageBits(api, input), r.X)
	if err != nil {
		return nil, err
	}
	return program.CircuitLiteral{Type: program.Field, X: out}, nil
}

// preimageBits lays out a value for hashing. A literal is its type tag then
// its value, an interface is each member's name then value, and a record is
// its owner, its balance, then its entries like interface members.
func preimageBits(v program.Value) []bool {
	switch v := v.(type) {
	case program.Literal:
		return append(v.Type().TagBitsLE(), v.ToBitsLE()...)
	case program.Interface:
		return membersPreimageBits(nil, v.Members())
	case program.Record:
		bits := append(v.Owner().ToBitsLE(), v.Balance().ToBitsLE()...)
		return membersPreimageBits(bits, v.Entries())
	}
	panic(fmt.Sprintf("unknown value %T", v))
}

func membersPreimageBits(bits []bool, members []program.Member) []bool {
	for _, m := range members {
		bits = append(bits, m.Name.ToBitsLE()...)
		bits = append(bits, preimageBits(m.Value)...)
	}
	return bits
}

func circuitPreimageBits(api frontend.API, v program.CircuitValue) []frontend.Variable {
	switch v := v.(type) {
	case program.CircuitLiteral:
		return append(field.Constants(v.Type.TagBitsLE()), v.ToBitsLE(api)...)
	case program.CircuitInterface:
		return circuitMembersPreimageBits(api, nil, v.Members)
	case program.CircuitRecord:
		bits := append(v.Owner.ToBitsLE(api), v.Balance.ToBitsLE(api)...)
		return circuitMembersPreimageBits(api, bits, v.Entries)
	}
	panic(fmt.Sprintf("unknown circuit value %T", v))
}

func circuitMembersPreimageBits(api frontend.API, bits []frontend.Variable, members []program.CircuitMember) []frontend.Variable {
	for _, m := range members {
		bits = append(bits, field.Constants(m.Name.ToBitsLE())...)
		bits = append(bits, circuitPreimageBits(api, m.Value)...)
	}
	return bits
}

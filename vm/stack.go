package vm

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/PolyhedraZK/ecvm/program"
)

// Stack is the native register file instructions evaluate against.
type Stack struct {
	registers map[uint64]program.Value
}

func NewStack() *Stack {
	return &Stack{registers: make(map[uint64]program.Value)}
}

// Load returns a copy of the value named by op.
func (s *Stack) Load(op program.Operand) (program.Value, error) {
	if l, ok := op.Literal(); ok {
		return l, nil
	}
	r, _ := op.Register()
	v, ok := s.registers[r.Locator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedRegister, r)
	}
	return program.ResolveMember(v, r.Path)
}

// Store assigns v to the register r. Registers are assigned once.
func (s *Stack) Store(r program.Register, v program.Value) error {
	if !r.IsLocator() {
		return fmt.Errorf("%w: %s", ErrInvalidStore, r)
	}
	if _, ok := s.registers[r.Locator]; ok {
		return fmt.Errorf("%w: %s", ErrOccupiedRegister, r)
	}
	s.registers[r.Locator] = program.CloneValue(v)
	return nil
}

// IsAssigned reports whether the slot of r holds a value.
func (s *Stack) IsAssigned(r program.Register) bool {
	_, ok := s.registers[r.Locator]
	return ok
}

// CircuitStack is the register file of the circuit path. Literal operands
// load as constant wires.
type CircuitStack struct {
	api       frontend.API
	registers map[uint64]program.CircuitValue
}

func NewCircuitStack(api frontend.API) *CircuitStack {
	return &CircuitStack{api: api, registers: make(map[uint64]program.CircuitValue)}
}

func (s *CircuitStack) API() frontend.API {
	return s.api
}

func (s *CircuitStack) Load(op program.Operand) (program.CircuitValue, error) {
	if l, ok := op.Literal(); ok {
		return program.ConstantCircuitValue(l), nil
	}
	r, _ := op.Register()
	v, ok := s.registers[r.Locator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedRegister, r)
	}
	return program.ResolveCircuitMember(v, r.Path)
}

func (s *CircuitStack) Store(r program.Register, v program.CircuitValue) error {
	if !r.IsLocator() {
		return fmt.Errorf("%w: %s", ErrInvalidStore, r)
	}
	if _, ok := s.registers[r.Locator]; ok {
		return fmt.Errorf("%w: %s", ErrOccupiedRegister, r)
	}
	s.registers[r.Locator] = program.CloneCircuitValue(v)
	return nil
}

func (s *CircuitStack) IsAssigned(r program.Register) bool {
	_, ok := s.registers[r.Locator]
	return ok
}

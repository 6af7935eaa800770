package vm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/consensys/gnark/logger"

	"github.com/PolyhedraZK/ecvm/program"
	"github.com/PolyhedraZK/ecvm/utils"
)

const commitArity = 2

// CommitInstruction commits to its first operand with the second operand as
// randomizer and stores the commitment in its destination:
//
//	commit.bhp512 r0 r1 into r2
type CommitInstruction[O CommitOperation] struct {
	operands    []program.Operand
	destination program.Register
}

type (
	CommitBHP256  = CommitInstruction[BHP256]
	CommitBHP512  = CommitInstruction[BHP512]
	CommitBHP768  = CommitInstruction[BHP768]
	CommitBHP1024 = CommitInstruction[BHP1024]
)

func NewCommit[O CommitOperation](input, randomizer program.Operand, destination program.Register) *CommitInstruction[O] {
	return &CommitInstruction[O]{
		operands:    []program.Operand{input, randomizer},
		destination: destination,
	}
}

// NewCommitWithOperands accepts any number of operands; every use of the
// instruction checks the arity.
func NewCommitWithOperands[O CommitOperation](operands []program.Operand, destination program.Register) *CommitInstruction[O] {
	return &CommitInstruction[O]{
		operands:    append([]program.Operand(nil), operands...),
		destination: destination,
	}
}

func (c *CommitInstruction[O]) Opcode() Opcode {
	var op O
	return op.Opcode()
}

func (c *CommitInstruction[O]) Operands() []program.Operand {
	return append([]program.Operand(nil), c.operands...)
}

func (c *CommitInstruction[O]) Destinations() []program.Register {
	return []program.Register{c.destination}
}

func (c *CommitInstruction[O]) checkArity(n int) error {
	if n != commitArity {
		return fmt.Errorf("%w: instruction '%s' expects %d operands, found %d operands",
			ErrArity, c.Opcode(), commitArity, n)
	}
	return nil
}

// Evaluate runs the instruction on the native stack. The destination is
// only written when the commitment succeeds.
func (c *CommitInstruction[O]) Evaluate(stack *Stack) error {
	if err := c.checkArity(len(c.operands)); err != nil {
		return err
	}
	input, err := stack.Load(c.operands[0])
	if err != nil {
		return err
	}
	randomizer, err := stack.Load(c.operands[1])
	if err != nil {
		return err
	}

	var op O
	out, err := op.Evaluate(input, randomizer)
	if err != nil {
		return err
	}
	if err := stack.Store(c.destination, out); err != nil {
		return err
	}

	log := logger.Logger()
	log.Debug().
		Str("opcode", c.Opcode().String()).
		Str("destination", c.destination.String()).
		Msg("evaluated instruction")
	return nil
}

// Execute runs the instruction on the circuit stack, emitting constraints.
func (c *CommitInstruction[O]) Execute(stack *CircuitStack) error {
	if err := c.checkArity(len(c.operands)); err != nil {
		return err
	}
	input, err := stack.Load(c.operands[0])
	if err != nil {
		return err
	}
	randomizer, err := stack.Load(c.operands[1])
	if err != nil {
		return err
	}

	var op O
	out, err := op.Execute(stack.API(), input, randomizer)
	if err != nil {
		return err
	}
	return stack.Store(c.destination, out)
}

// OutputTypes returns the type of the destination given the operand types.
// The randomizer must be a scalar and the input must have a non-empty
// preimage under prog.
func (c *CommitInstruction[O]) OutputTypes(prog *program.Program, inputTypes []program.RegisterType) ([]program.RegisterType, error) {
	if err := c.checkArity(len(inputTypes)); err != nil {
		return nil, err
	}
	if err := c.checkArity(len(c.operands)); err != nil {
		return nil, err
	}
	if !inputTypes[1].IsLiteral(program.Scalar) {
		return nil, fmt.Errorf("%w: found %s", ErrInvalidRandomizer, inputTypes[1])
	}
	n, err := prog.PreimageBits(inputTypes[0])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("instruction '%s' has an empty preimage for %s", c.Opcode(), inputTypes[0])
	}
	var op O
	return []program.RegisterType{op.OutputType()}, nil
}

// MarshalText prints the instruction, failing on a wrong operand count.
func (c *CommitInstruction[O]) MarshalText() ([]byte, error) {
	if err := c.checkArity(len(c.operands)); err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(c.Opcode().String())
	for _, op := range c.operands {
		sb.WriteByte(' ')
		sb.WriteString(op.String())
	}
	sb.WriteString(" into ")
	sb.WriteString(c.destination.String())
	return []byte(sb.String()), nil
}

func (c *CommitInstruction[O]) String() string {
	text, err := c.MarshalText()
	if err != nil {
		return fmt.Sprintf("%%!v(%s: %v)", c.Opcode(), err)
	}
	return string(text)
}

// UnmarshalText parses the whole of text.
func (c *CommitInstruction[O]) UnmarshalText(text []byte) error {
	parsed, rest, err := ParseCommit[O](string(text))
	if err != nil {
		return err
	}
	if rest != "" {
		return fmt.Errorf("%w: found invalid character in: %q", ErrParse, rest)
	}
	*c = *parsed
	return nil
}

// ParseCommit consumes a commit instruction from the front of s and returns
// the rest.
func ParseCommit[O CommitOperation](s string) (*CommitInstruction[O], string, error) {
	var op O
	rest, ok := strings.CutPrefix(s, op.Opcode().String())
	if !ok {
		return nil, s, fmt.Errorf("%w: expected '%s'", ErrParse, op.Opcode())
	}

	operands := make([]program.Operand, commitArity)
	for i := range operands {
		var err error
		if rest, err = skipWhitespace(rest); err != nil {
			return nil, s, err
		}
		if operands[i], rest, err = program.ParseOperand(rest); err != nil {
			return nil, s, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}

	rest, err := skipWhitespace(rest)
	if err != nil {
		return nil, s, err
	}
	if rest, ok = strings.CutPrefix(rest, "into"); !ok {
		return nil, s, fmt.Errorf("%w: expected 'into'", ErrParse)
	}
	if rest, err = skipWhitespace(rest); err != nil {
		return nil, s, err
	}
	destination, rest, err := program.ParseRegister(rest)
	if err != nil {
		return nil, s, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &CommitInstruction[O]{operands: operands, destination: destination}, rest, nil
}

// FromString parses a commit instruction that spans all of s.
func FromString[O CommitOperation](s string) (*CommitInstruction[O], error) {
	c := new(CommitInstruction[O])
	if err := c.UnmarshalText([]byte(s)); err != nil {
		return nil, err
	}
	return c, nil
}

// skipWhitespace requires at least one whitespace character.
func skipWhitespace(s string) (string, error) {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	if len(rest) == len(s) {
		return s, fmt.Errorf("%w: expected whitespace in: %q", ErrParse, s)
	}
	return rest, nil
}

// AppendBinary writes the two operands followed by the destination.
func (c *CommitInstruction[O]) AppendBinary(buf *utils.OutputBuf) error {
	if err := c.checkArity(len(c.operands)); err != nil {
		return err
	}
	for _, op := range c.operands {
		if err := op.AppendBinary(buf); err != nil {
			return err
		}
	}
	return c.destination.AppendBinary(buf)
}

func (c *CommitInstruction[O]) MarshalBinary() ([]byte, error) {
	var buf utils.OutputBuf
	if err := c.AppendBinary(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes data, which must hold exactly one instruction.
func (c *CommitInstruction[O]) UnmarshalBinary(data []byte) error {
	buf := utils.NewInputBuf(data)
	parsed, err := ReadCommit[O](buf)
	if err != nil {
		return err
	}
	if buf.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", program.ErrInvalidEncoding, buf.Len())
	}
	*c = *parsed
	return nil
}

// ReadCommit reads the operands and destination of a commit instruction.
func ReadCommit[O CommitOperation](buf *utils.InputBuf) (*CommitInstruction[O], error) {
	operands := make([]program.Operand, commitArity)
	for i := range operands {
		var err error
		if operands[i], err = program.ReadOperand(buf); err != nil {
			return nil, err
		}
	}
	destination, err := program.ReadRegister(buf)
	if err != nil {
		return nil, err
	}
	return &CommitInstruction[O]{operands: operands, destination: destination}, nil
}

package vm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PolyhedraZK/ecvm/program"
	"github.com/PolyhedraZK/ecvm/utils"
)

// Instruction is an instruction of any opcode.
type Instruction interface {
	Opcode() Opcode
	Operands() []program.Operand
	Destinations() []program.Register
	Evaluate(stack *Stack) error
	Execute(stack *CircuitStack) error
	OutputTypes(prog *program.Program, inputTypes []program.RegisterType) ([]program.RegisterType, error)
	MarshalText() ([]byte, error)
	AppendBinary(buf *utils.OutputBuf) error
	String() string
}

var (
	_ Instruction = (*CommitBHP256)(nil)
	_ Instruction = (*CommitBHP512)(nil)
	_ Instruction = (*CommitBHP768)(nil)
	_ Instruction = (*CommitBHP1024)(nil)
)

// ParseInstruction parses a single instruction, dispatching on its opcode.
// Leading whitespace is skipped; anything after the destination is an error.
func ParseInstruction(s string) (Instruction, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	n := strings.IndexFunc(s, unicode.IsSpace)
	if n < 0 {
		n = len(s)
	}
	switch Opcode(s[:n]) {
	case OpcodeCommitBHP256:
		return parseAs[BHP256](s)
	case OpcodeCommitBHP512:
		return parseAs[BHP512](s)
	case OpcodeCommitBHP768:
		return parseAs[BHP768](s)
	case OpcodeCommitBHP1024:
		return parseAs[BHP1024](s)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOpcode, s[:n])
}

func parseAs[O CommitOperation](s string) (Instruction, error) {
	c, err := FromString[O](s)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func readAs[O CommitOperation](buf *utils.InputBuf) (Instruction, error) {
	c, err := ReadCommit[O](buf)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// WriteInstruction writes the u16 opcode index followed by the instruction.
func WriteInstruction(buf *utils.OutputBuf, instr Instruction) error {
	idx, err := instr.Opcode().index()
	if err != nil {
		return err
	}
	buf.AppendUint16(idx)
	return instr.AppendBinary(buf)
}

// ReadInstruction reads an instruction written by WriteInstruction.
func ReadInstruction(buf *utils.InputBuf) (Instruction, error) {
	idx, err := buf.ReadUint16()
	if err != nil {
		return nil, err
	}
	if int(idx) >= len(opcodes) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownOpcode, idx)
	}
	switch opcodes[idx] {
	case OpcodeCommitBHP256:
		return readAs[BHP256](buf)
	case OpcodeCommitBHP512:
		return readAs[BHP512](buf)
	case OpcodeCommitBHP768:
		return readAs[BHP768](buf)
	case OpcodeCommitBHP1024:
		return readAs[BHP1024](buf)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, opcodes[idx])
}

// EncodeInstruction returns the framed binary form of instr.
func EncodeInstruction(instr Instruction) ([]byte, error) {
	var buf utils.OutputBuf
	if err := WriteInstruction(&buf, instr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeInstruction decodes data holding exactly one framed instruction.
func DecodeInstruction(data []byte) (Instruction, error) {
	buf := utils.NewInputBuf(data)
	instr, err := ReadInstruction(buf)
	if err != nil {
		return nil, err
	}
	if buf.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", program.ErrInvalidEncoding, buf.Len())
	}
	return instr, nil
}

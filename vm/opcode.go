package vm

import "fmt"

// Opcode is the mnemonic an instruction is written with.
type Opcode string

const (
	OpcodeCommitBHP256  Opcode = "commit.bhp256"
	OpcodeCommitBHP512  Opcode = "commit.bhp512"
	OpcodeCommitBHP768  Opcode = "commit.bhp768"
	OpcodeCommitBHP1024 Opcode = "commit.bhp1024"
)

// opcodes is the opcode table. An opcode's position is its u16 index in the
// binary instruction framing, so entries are only ever appended.
var opcodes = []Opcode{
	OpcodeCommitBHP256,
	OpcodeCommitBHP512,
	OpcodeCommitBHP768,
	OpcodeCommitBHP1024,
}

func (o Opcode) String() string {
	return string(o)
}

// Opcodes returns the opcode table.
func Opcodes() []Opcode {
	return append([]Opcode(nil), opcodes...)
}

func (o Opcode) index() (uint16, error) {
	for i, op := range opcodes {
		if op == o {
			return uint16(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOpcode, string(o))
}

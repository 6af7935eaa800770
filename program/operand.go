package program

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/PolyhedraZK/ecvm/utils"
)

const (
	operandLiteral uint8 = iota
	operandRegister
)

// Operand is an instruction input: either a literal or a register.
type Operand struct {
	isLiteral bool
	literal   Literal
	register  Register
}

func LiteralOperand(l Literal) Operand {
	return Operand{isLiteral: true, literal: l}
}

func RegisterOperand(r Register) Operand {
	return Operand{register: r}
}

func (o Operand) Literal() (Literal, bool) {
	return o.literal, o.isLiteral
}

func (o Operand) Register() (Register, bool) {
	return o.register, !o.isLiteral
}

func (o Operand) Equal(other Operand) bool {
	if o.isLiteral != other.isLiteral {
		return false
	}
	if o.isLiteral {
		return o.literal == other.literal
	}
	return o.register.Equal(other.register)
}

func (o Operand) String() string {
	if o.isLiteral {
		return o.literal.String()
	}
	return o.register.String()
}

// ParseOperand consumes an operand from the front of s and returns the rest.
// Literal tokens extend to the next whitespace.
func ParseOperand(s string) (Operand, string, error) {
	if len(s) > 1 && s[0] == 'r' && s[1] >= '0' && s[1] <= '9' {
		r, rest, err := ParseRegister(s)
		if err != nil {
			return Operand{}, s, err
		}
		return RegisterOperand(r), rest, nil
	}
	n := strings.IndexFunc(s, unicode.IsSpace)
	if n < 0 {
		n = len(s)
	}
	l, err := ParseLiteral(s[:n])
	if err != nil {
		return Operand{}, s, err
	}
	return LiteralOperand(l), s[n:], nil
}

func (o Operand) AppendBinary(buf *utils.OutputBuf) error {
	if o.isLiteral {
		buf.AppendUint8(operandLiteral)
		o.literal.AppendBinary(buf)
		return nil
	}
	buf.AppendUint8(operandRegister)
	return o.register.AppendBinary(buf)
}

func ReadOperand(buf *utils.InputBuf) (Operand, error) {
	variant, err := buf.ReadUint8()
	if err != nil {
		return Operand{}, err
	}
	switch variant {
	case operandLiteral:
		l, err := ReadLiteral(buf)
		if err != nil {
			return Operand{}, err
		}
		return LiteralOperand(l), nil
	case operandRegister:
		r, err := ReadRegister(buf)
		if err != nil {
			return Operand{}, err
		}
		return RegisterOperand(r), nil
	}
	return Operand{}, fmt.Errorf("%w: operand variant %d", ErrInvalidEncoding, variant)
}

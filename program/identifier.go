package program

import (
	"fmt"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/utils"
)

// MaxIdentifierSize keeps an identifier inside a single field element.
const MaxIdentifierSize = field.SizeInDataBits / 8

// Identifier names interface members, record entries and declared types.
type Identifier string

func isIdentifierChar(c byte) bool {
	return c == '_' || isLetter(c) || (c >= '0' && c <= '9')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// NewIdentifier validates s: a letter followed by letters, digits or
// underscores, at most MaxIdentifierSize bytes.
func NewIdentifier(s string) (Identifier, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("%w: empty identifier", ErrParse)
	}
	if len(s) > MaxIdentifierSize {
		return "", fmt.Errorf("%w: identifier %q exceeds %d bytes", ErrParse, s, MaxIdentifierSize)
	}
	if !isLetter(s[0]) {
		return "", fmt.Errorf("%w: identifier %q must start with a letter", ErrParse, s)
	}
	for i := 1; i < len(s); i++ {
		if !isIdentifierChar(s[i]) {
			return "", fmt.Errorf("%w: identifier %q contains %q", ErrParse, s, s[i])
		}
	}
	return Identifier(s), nil
}

// MustIdentifier is NewIdentifier for names known to be valid.
func MustIdentifier(s string) Identifier {
	id, err := NewIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}

// parseIdentifier consumes the longest identifier prefix of s.
func parseIdentifier(s string) (Identifier, string, error) {
	n := 0
	for n < len(s) && isIdentifierChar(s[n]) {
		n++
	}
	id, err := NewIdentifier(s[:n])
	if err != nil {
		return "", s, err
	}
	return id, s[n:], nil
}

func (id Identifier) String() string {
	return string(id)
}

// ToBitsLE returns the bits of the name's bytes.
func (id Identifier) ToBitsLE() []bool {
	return field.BytesBitsLE([]byte(id))
}

// AppendBinary writes a u8 length followed by the bytes.
func (id Identifier) AppendBinary(buf *utils.OutputBuf) {
	buf.AppendUint8(uint8(len(id)))
	buf.AppendBytes([]byte(id))
}

func ReadIdentifier(buf *utils.InputBuf) (Identifier, error) {
	n, err := buf.ReadUint8()
	if err != nil {
		return "", err
	}
	b, err := buf.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	id, err := NewIdentifier(string(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return id, nil
}

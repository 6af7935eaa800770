package program

import (
	"fmt"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
)

// LiteralType is the kind of a literal. Its numeric value is the type tag
// used in preimages and binary encodings.
type LiteralType uint8

const (
	Address LiteralType = iota
	Boolean
	Field
	Group
	I8
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	Scalar
	numLiteralTypes
)

// literalTypeTagBits is the width of the type tag in a preimage.
const literalTypeTagBits = 8

var literalTypeNames = [numLiteralTypes]string{
	Address: "address",
	Boolean: "boolean",
	Field:   "field",
	Group:   "group",
	I8:      "i8",
	I16:     "i16",
	I32:     "i32",
	I64:     "i64",
	I128:    "i128",
	U8:      "u8",
	U16:     "u16",
	U32:     "u32",
	U64:     "u64",
	U128:    "u128",
	Scalar:  "scalar",
}

func (t LiteralType) IsValid() bool {
	return t < numLiteralTypes
}

func (t LiteralType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("LiteralType(%d)", uint8(t))
	}
	return literalTypeNames[t]
}

// ParseLiteralType accepts the type names used in literal suffixes and
// register types.
func ParseLiteralType(s string) (LiteralType, error) {
	for t, name := range literalTypeNames {
		if name == s {
			return LiteralType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown literal type %q", ErrParse, s)
}

// IsInteger reports whether t is one of the fixed-width integer types.
func (t LiteralType) IsInteger() bool {
	return t >= I8 && t <= U128
}

func (t LiteralType) IsSigned() bool {
	return t >= I8 && t <= I128
}

// SizeInBits is the width of the value bits of a literal of type t. Points
// are represented by their x-coordinate.
func (t LiteralType) SizeInBits() int {
	switch t {
	case Address, Field, Group:
		return field.SizeInBits
	case Boolean:
		return 1
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	case I128, U128:
		return 128
	case Scalar:
		return group.ScalarSizeInBits
	}
	panic(fmt.Sprintf("invalid literal type %d", uint8(t)))
}

// sizeInBytes is the width of the value in the binary encoding.
func (t LiteralType) sizeInBytes() int {
	switch t {
	case Address, Field, Group:
		return field.SizeInBytes
	case Scalar:
		return group.ScalarSizeInBytes
	case Boolean:
		return 1
	}
	return t.SizeInBits() / 8
}

// TagBitsLE is the little-endian encoding of the type tag.
func (t LiteralType) TagBitsLE() []bool {
	bits := make([]bool, literalTypeTagBits)
	for i := range bits {
		bits[i] = (t>>i)&1 == 1
	}
	return bits
}

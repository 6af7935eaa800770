package program

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
	"github.com/PolyhedraZK/ecvm/utils"
)

// AddressPrefix is the human readable part of an address.
const AddressPrefix = "ecvm"

// Literal is a typed constant. Integers are kept in two's complement, points
// keep both coordinates so that the x-coordinate alone identifies them.
// Literals are comparable with ==.
type Literal struct {
	typ LiteralType
	x   fr.Element
	y   fr.Element
}

func (Literal) isValue()     {}
func (Literal) isPlaintext() {}

func NewBoolean(b bool) Literal {
	l := Literal{typ: Boolean}
	if b {
		l.x.SetOne()
	}
	return l
}

func NewField(e fr.Element) Literal {
	return Literal{typ: Field, x: e}
}

// NewScalar requires 0 <= s < group.Order().
func NewScalar(s *big.Int) (Literal, error) {
	if s.Sign() < 0 || s.Cmp(group.Order()) >= 0 {
		return Literal{}, fmt.Errorf("%w: scalar %s out of range", ErrInvalidLiteral, s)
	}
	return Literal{typ: Scalar, x: field.FromBig(s)}, nil
}

// NewGroup requires p to be in the prime-order subgroup.
func NewGroup(p group.Point) (Literal, error) {
	return newPoint(Group, p)
}

func NewAddress(p group.Point) (Literal, error) {
	return newPoint(Address, p)
}

func newPoint(t LiteralType, p group.Point) (Literal, error) {
	if !p.IsOnCurve() {
		return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, group.ErrNotOnCurve)
	}
	if !group.IsInSubgroup(p) {
		return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, group.ErrNotInSubgroup)
	}
	return Literal{typ: t, x: p.X, y: p.Y}, nil
}

// NewInteger builds an integer literal of type t, rejecting values outside
// the range of t.
func NewInteger(t LiteralType, v *big.Int) (Literal, error) {
	if !t.IsInteger() {
		return Literal{}, fmt.Errorf("%w: %s is not an integer type", ErrInvalidLiteral, t)
	}
	n := uint(t.SizeInBits())
	lo, hi := new(big.Int), new(big.Int).Lsh(big.NewInt(1), n)
	if t.IsSigned() {
		hi.Rsh(hi, 1)
		lo.Neg(hi)
	}
	if v.Cmp(lo) < 0 || v.Cmp(hi) >= 0 {
		return Literal{}, fmt.Errorf("%w: %s out of range for %s", ErrInvalidLiteral, v, t)
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), n))
	}
	return Literal{typ: t, x: field.FromBig(u)}, nil
}

func NewU64(v uint64) Literal {
	l := Literal{typ: U64}
	l.x.SetUint64(v)
	return l
}

func (l Literal) Type() LiteralType {
	return l.typ
}

func (l Literal) Bool() bool {
	return !l.x.IsZero()
}

// Field returns the raw field representation: the value of a field, scalar
// or unsigned literal, the x-coordinate of a point.
func (l Literal) Field() fr.Element {
	return l.x
}

func (l Literal) Scalar() *big.Int {
	return field.ToBig(l.x)
}

func (l Literal) Point() group.Point {
	return group.Point{X: l.x, Y: l.y}
}

// Integer returns the signed value of an integer literal.
func (l Literal) Integer() *big.Int {
	v := field.ToBig(l.x)
	if l.typ.IsSigned() {
		n := l.typ.SizeInBits()
		if v.Bit(n-1) == 1 {
			v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(n)))
		}
	}
	return v
}

func (l Literal) Equal(o Literal) bool {
	return l == o
}

// ToBitsLE returns the value bits, without the type tag.
func (l Literal) ToBitsLE() []bool {
	return field.BitsLE(field.ToBig(l.x), l.typ.SizeInBits())
}

// Wires lists the witness of the literal: its raw value, and the
// y-coordinate for points.
func (l Literal) Wires() []*big.Int {
	if l.typ == Group || l.typ == Address {
		return []*big.Int{field.ToBig(l.x), field.ToBig(l.y)}
	}
	return []*big.Int{field.ToBig(l.x)}
}

func (l Literal) String() string {
	switch {
	case l.typ == Boolean:
		if l.Bool() {
			return "true"
		}
		return "false"
	case l.typ == Address:
		b := field.ToBytesLE(l.x)
		conv, err := bech32.ConvertBits(b[:], 8, 5, true)
		if err != nil {
			panic(err)
		}
		s, err := bech32.Encode(AddressPrefix, conv)
		if err != nil {
			panic(err)
		}
		return s
	case l.typ.IsInteger():
		return l.Integer().String() + l.typ.String()
	}
	return field.ToBig(l.x).String() + l.typ.String()
}

// ParseLiteral parses a complete literal token such as "5u8", "-3i64",
// "7scalar", "true" or an address.
func ParseLiteral(s string) (Literal, error) {
	switch s {
	case "true":
		return NewBoolean(true), nil
	case "false":
		return NewBoolean(false), nil
	}
	if strings.HasPrefix(s, AddressPrefix+"1") {
		return parseAddress(s)
	}

	i := 0
	if strings.HasPrefix(s, "-") {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return Literal{}, fmt.Errorf("%w: %q is not a literal", ErrParse, s)
	}
	t, err := ParseLiteralType(s[j:])
	if err != nil {
		return Literal{}, err
	}
	v, _ := new(big.Int).SetString(s[:j], 10)
	if v.Sign() < 0 && !t.IsSigned() {
		return Literal{}, fmt.Errorf("%w: negative %s literal %q", ErrParse, t, s)
	}

	switch t {
	case Field:
		if v.Cmp(field.Modulus()) >= 0 {
			return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, field.ErrNotCanonical)
		}
		return NewField(field.FromBig(v)), nil
	case Scalar:
		return NewScalar(v)
	case Group:
		if v.Cmp(field.Modulus()) >= 0 {
			return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, field.ErrNotCanonical)
		}
		p, err := group.FromXCoordinate(field.FromBig(v))
		if err != nil {
			return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
		}
		return NewGroup(p)
	case Boolean, Address:
		return Literal{}, fmt.Errorf("%w: %q is not a literal", ErrParse, s)
	}
	return NewInteger(t, v)
}

func parseAddress(s string) (Literal, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Literal{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if hrp != AddressPrefix {
		return Literal{}, fmt.Errorf("%w: address prefix %q", ErrParse, hrp)
	}
	b, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Literal{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(b) != field.SizeInBytes {
		return Literal{}, fmt.Errorf("%w: address of %d bytes", ErrParse, len(b))
	}
	return pointFromBytes(Address, b)
}

func pointFromBytes(t LiteralType, b []byte) (Literal, error) {
	x, err := field.FromBytesLE(b)
	if err != nil {
		return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
	}
	p, err := group.FromXCoordinate(x)
	if err != nil {
		return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
	}
	return newPoint(t, p)
}

// AppendBinary writes the u16 type tag followed by the fixed-width
// little-endian value.
func (l Literal) AppendBinary(buf *utils.OutputBuf) {
	buf.AppendUint16(uint16(l.typ))
	b := field.ToBytesLE(l.x)
	buf.AppendBytes(b[:l.typ.sizeInBytes()])
}

func ReadLiteral(buf *utils.InputBuf) (Literal, error) {
	tag, err := buf.ReadUint16()
	if err != nil {
		return Literal{}, err
	}
	t := LiteralType(tag)
	if tag >= uint16(numLiteralTypes) {
		return Literal{}, fmt.Errorf("%w: literal type %d", ErrInvalidEncoding, tag)
	}
	b, err := buf.ReadBytes(t.sizeInBytes())
	if err != nil {
		return Literal{}, err
	}
	switch t {
	case Boolean:
		if b[0] > 1 {
			return Literal{}, fmt.Errorf("%w: boolean byte %d", ErrInvalidEncoding, b[0])
		}
		return NewBoolean(b[0] == 1), nil
	case Group, Address:
		return pointFromBytes(t, b)
	}
	x, err := field.FromBytesLE(b)
	if err != nil {
		return Literal{}, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if t == Scalar {
		return NewScalar(field.ToBig(x))
	}
	return Literal{typ: t, x: x}, nil
}

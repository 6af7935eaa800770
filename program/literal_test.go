package program

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolyhedraZK/ecvm/group"
	"github.com/PolyhedraZK/ecvm/utils"
)

func mustParse(t *testing.T, s string) Literal {
	t.Helper()
	l, err := ParseLiteral(s)
	require.NoError(t, err, s)
	return l
}

func sampleLiterals(t *testing.T) []Literal {
	t.Helper()
	addr, err := NewAddress(group.GeneratorMul(big.NewInt(11)))
	require.NoError(t, err)
	g, err := NewGroup(group.GeneratorMul(big.NewInt(5)))
	require.NoError(t, err)
	return []Literal{
		NewBoolean(true),
		NewBoolean(false),
		NewField(fr.NewElement(42)),
		mustParse(t, "7scalar"),
		g,
		addr,
		mustParse(t, "-128i8"),
		mustParse(t, "32767i16"),
		mustParse(t, "-1i32"),
		mustParse(t, "-9000000000i64"),
		mustParse(t, "-170141183460469231731687303715884105728i128"),
		mustParse(t, "255u8"),
		mustParse(t, "65535u16"),
		mustParse(t, "4000000000u32"),
		NewU64(1 << 63),
		mustParse(t, "340282366920938463463374607431768211455u128"),
	}
}

func TestLiteralType(t *testing.T) {
	for i := LiteralType(0); i < numLiteralTypes; i++ {
		parsed, err := ParseLiteralType(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, parsed)
		assert.Len(t, i.TagBitsLE(), 8)
	}
	assert.Equal(t, []bool{false, true, true, true, false, false, false, false}, Scalar.TagBitsLE())
	assert.Equal(t, 254, Group.SizeInBits())
	assert.Equal(t, 251, Scalar.SizeInBits())
	assert.Equal(t, 1, Boolean.SizeInBits())
	_, err := ParseLiteralType("string")
	assert.ErrorIs(t, err, ErrParse)
}

func TestLiteralText(t *testing.T) {
	for _, l := range sampleLiterals(t) {
		parsed, err := ParseLiteral(l.String())
		require.NoError(t, err, l.String())
		assert.True(t, l.Equal(parsed), l.String())
	}
	assert.Equal(t, "-5i8", mustParse(t, "-5i8").String())
	assert.Equal(t, int64(-5), mustParse(t, "-5i8").Integer().Int64())
	assert.Equal(t, uint64(251), mustParse(t, "-5i8").Scalar().Uint64())
}

func TestParseLiteralErrors(t *testing.T) {
	for _, s := range []string{
		"", "5", "u8", "256u8", "-1u8", "128i8", "-129i8", "5string", "5u8x",
		"-1field", "ecvm1qqqq", "truee",
	} {
		_, err := ParseLiteral(s)
		assert.Error(t, err, s)
	}
	_, err := ParseLiteral(group.Order().String() + "scalar")
	assert.ErrorIs(t, err, ErrInvalidLiteral)
}

func TestLiteralBits(t *testing.T) {
	for _, l := range sampleLiterals(t) {
		assert.Len(t, l.ToBitsLE(), l.Type().SizeInBits(), l.String())
	}
	bits := mustParse(t, "-1i8").ToBitsLE()
	for _, b := range bits {
		assert.True(t, b)
	}
	assert.Equal(t, []bool{true}, NewBoolean(true).ToBitsLE())
}

func TestLiteralBinary(t *testing.T) {
	for _, l := range sampleLiterals(t) {
		var out utils.OutputBuf
		l.AppendBinary(&out)
		assert.Equal(t, 2+l.Type().sizeInBytes(), len(out.Bytes()))

		in := utils.NewInputBuf(out.Bytes())
		decoded, err := ReadLiteral(in)
		require.NoError(t, err, l.String())
		assert.True(t, l.Equal(decoded), l.String())
		assert.Equal(t, 0, in.Len())
	}

	_, err := ReadLiteral(utils.NewInputBuf([]byte{0xff, 0, 1}))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	_, err = ReadLiteral(utils.NewInputBuf([]byte{byte(Boolean), 0, 2}))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	_, err = ReadLiteral(utils.NewInputBuf([]byte{byte(U64), 0, 1, 2}))
	assert.Error(t, err)
}

func TestNewLiteralErrors(t *testing.T) {
	_, err := NewScalar(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidLiteral)
	_, err = NewInteger(Field, big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidLiteral)

	p := group.GeneratorMul(big.NewInt(3))
	p.Y.Neg(&p.Y)
	p.X.Add(&p.X, new(fr.Element).SetOne())
	_, err = NewGroup(p)
	assert.ErrorIs(t, err, ErrInvalidLiteral)
}

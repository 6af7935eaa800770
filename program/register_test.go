package program

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolyhedraZK/ecvm/utils"
)

func TestIdentifier(t *testing.T) {
	for _, s := range []string{"a", "owner", "token_1", "A9"} {
		_, err := NewIdentifier(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "1a", "_a", "a-b", "abcdefghijabcdefghijabcdefghijab"} {
		_, err := NewIdentifier(s)
		assert.ErrorIs(t, err, ErrParse, s)
	}
	assert.Len(t, MustIdentifier("ab").ToBitsLE(), 16)
}

func TestRegisterText(t *testing.T) {
	for _, s := range []string{"r0", "r17", "r3.a", "r3.a.b_c"} {
		r, rest, err := ParseRegister(s)
		require.NoError(t, err, s)
		assert.Empty(t, rest)
		assert.Equal(t, s, r.String())
	}

	r, rest, err := ParseRegister("r2 into")
	require.NoError(t, err)
	assert.True(t, r.IsLocator())
	assert.Equal(t, " into", rest)

	for _, s := range []string{"", "r", "x1", "r1.", "r1.9"} {
		_, _, err := ParseRegister(s)
		assert.ErrorIs(t, err, ErrParse, s)
	}
}

func TestRegisterBinary(t *testing.T) {
	for _, r := range []Register{
		NewRegister(0),
		NewRegister(1 << 40),
		NewRegister(7, "a", "b"),
	} {
		var out utils.OutputBuf
		require.NoError(t, r.AppendBinary(&out))
		in := utils.NewInputBuf(out.Bytes())
		decoded, err := ReadRegister(in)
		require.NoError(t, err)
		assert.True(t, r.Equal(decoded), r.String())
		assert.Equal(t, 0, in.Len())
	}

	_, err := ReadRegister(utils.NewInputBuf([]byte{2, 0, 0, 0, 0, 0, 0, 0, 0}))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	_, err = ReadRegister(utils.NewInputBuf([]byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func longPath(n int) []Identifier {
	path := make([]Identifier, n)
	for i := range path {
		path[i] = "a"
	}
	return path
}

func TestRegisterPathLength(t *testing.T) {
	r, rest, err := ParseRegister("r1" + strings.Repeat(".a", MaxPathLength))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Len(t, r.Path, MaxPathLength)

	var out utils.OutputBuf
	require.NoError(t, r.AppendBinary(&out))
	decoded, err := ReadRegister(utils.NewInputBuf(out.Bytes()))
	require.NoError(t, err)
	assert.True(t, r.Equal(decoded))

	_, _, err = ParseRegister("r1" + strings.Repeat(".a", MaxPathLength+1))
	assert.ErrorIs(t, err, ErrParse)

	long := NewRegister(1, longPath(MaxPathLength+1)...)
	out = utils.OutputBuf{}
	assert.ErrorIs(t, long.AppendBinary(&out), ErrInvalidEncoding)
	assert.ErrorIs(t, RegisterOperand(long).AppendBinary(&out), ErrInvalidEncoding)

	_, _, err = ParseOperand("r1" + strings.Repeat(".a", MaxPathLength+1) + " into r2")
	assert.ErrorIs(t, err, ErrParse)
}

func TestOperand(t *testing.T) {
	op, rest, err := ParseOperand("r1.a into r2")
	require.NoError(t, err)
	assert.Equal(t, " into r2", rest)
	r, ok := op.Register()
	require.True(t, ok)
	assert.Equal(t, "r1.a", r.String())

	op, rest, err = ParseOperand("5u8 r1")
	require.NoError(t, err)
	assert.Equal(t, " r1", rest)
	l, ok := op.Literal()
	require.True(t, ok)
	assert.Equal(t, U8, l.Type())

	_, _, err = ParseOperand("bogus")
	assert.Error(t, err)

	for _, op := range []Operand{
		LiteralOperand(NewBoolean(true)),
		LiteralOperand(NewU64(9)),
		RegisterOperand(NewRegister(3)),
		RegisterOperand(NewRegister(3, "x")),
	} {
		var out utils.OutputBuf
		require.NoError(t, op.AppendBinary(&out))
		decoded, err := ReadOperand(utils.NewInputBuf(out.Bytes()))
		require.NoError(t, err)
		assert.True(t, op.Equal(decoded), op.String())
	}
	_, err = ReadOperand(utils.NewInputBuf([]byte{5}))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

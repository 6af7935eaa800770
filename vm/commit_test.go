package vm

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolyhedraZK/ecvm/group"
	"github.com/PolyhedraZK/ecvm/program"
)

func literal(t *testing.T, s string) program.Literal {
	t.Helper()
	l, err := program.ParseLiteral(s)
	require.NoError(t, err, s)
	return l
}

func sampleInterface(t *testing.T) program.Interface {
	t.Helper()
	inner, err := program.NewInterface(
		program.Member{Name: "flag", Value: program.NewBoolean(true)},
		program.Member{Name: "n", Value: literal(t, "-7i32")},
	)
	require.NoError(t, err)
	i, err := program.NewInterface(
		program.Member{Name: "a", Value: program.NewField(fr.NewElement(123))},
		program.Member{Name: "b", Value: inner},
	)
	require.NoError(t, err)
	return i
}

func sampleRecord(t *testing.T) program.Record {
	t.Helper()
	owner, err := program.NewAddress(group.GeneratorMul(big.NewInt(1234)))
	require.NoError(t, err)
	r, err := program.NewRecord(owner, 50,
		program.Member{Name: "amount", Value: literal(t, "9u128")},
		program.Member{Name: "memo", Value: sampleInterface(t)},
	)
	require.NoError(t, err)
	return r
}

func sampleProgram(t *testing.T) *program.Program {
	t.Helper()
	p := program.NewProgram()
	require.NoError(t, p.AddInterface(program.InterfaceType{
		Name: "inner",
		Members: []program.MemberType{
			{Name: "flag", Type: program.LiteralPlaintextType(program.Boolean)},
			{Name: "n", Type: program.LiteralPlaintextType(program.I32)},
		},
	}))
	require.NoError(t, p.AddInterface(program.InterfaceType{
		Name: "pair",
		Members: []program.MemberType{
			{Name: "a", Type: program.LiteralPlaintextType(program.Field)},
			{Name: "b", Type: program.InterfacePlaintextType("inner")},
		},
	}))
	require.NoError(t, p.AddRecord(program.RecordType{
		Name: "token",
		Entries: []program.MemberType{
			{Name: "amount", Type: program.LiteralPlaintextType(program.U128)},
			{Name: "memo", Type: program.InterfacePlaintextType("pair")},
		},
	}))
	return p
}

var (
	r0 = program.NewRegister(0)
	r1 = program.NewRegister(1)
	r2 = program.NewRegister(2)
)

func TestParseCommit(t *testing.T) {
	c, err := FromString[BHP512]("commit.bhp512 r0 r1 into r2")
	require.NoError(t, err)

	operands := c.Operands()
	require.Len(t, operands, 2)
	assert.True(t, operands[0].Equal(program.RegisterOperand(r0)))
	assert.True(t, operands[1].Equal(program.RegisterOperand(r1)))
	require.Len(t, c.Destinations(), 1)
	assert.True(t, c.Destinations()[0].Equal(r2))
	assert.Equal(t, "commit.bhp512 r0 r1 into r2", c.String())
	assert.Equal(t, OpcodeCommitBHP512, c.Opcode())
}

func TestCommitTextRoundTrip(t *testing.T) {
	for _, s := range []string{
		"commit.bhp256 r0 r1 into r2",
		"commit.bhp512 r0.a.b 7scalar into r5",
		"commit.bhp768 true r3 into r4",
		"commit.bhp1024 -3i64 0scalar into r10",
	} {
		instr, err := ParseInstruction(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, instr.String())

		text, err := instr.MarshalText()
		require.NoError(t, err)
		again, err := ParseInstruction(string(text))
		require.NoError(t, err)
		assert.Equal(t, instr, again)
	}

	instr, err := ParseInstruction("  commit.bhp256\tr0   r1\ninto  r2")
	require.NoError(t, err)
	assert.Equal(t, "commit.bhp256 r0 r1 into r2", instr.String())
}

func TestParseCommitErrors(t *testing.T) {
	for _, s := range []string{
		"commit.bhp512 r0 r1 into r2 extra",
		"commit.bhp512 r0 r1 into r2x",
		"commit.bhp512 r0 into r2",
		"commit.bhp512 r0 r1 r2",
		"commit.bhp512r0 r1 into r2",
		"commit.bhp512 r0 r1 intor2",
		"commit.bhp512 r0 5string into r2",
		"commit.bhp256 r0 r1 into r2",
	} {
		_, err := FromString[BHP512](s)
		assert.ErrorIs(t, err, ErrParse, s)
	}

	_, err := FromString[BHP512]("commit.bhp512 r0 r1 into r2 extra")
	assert.EqualError(t, err, `failed to parse string: found invalid character in: " extra"`)

	for _, s := range []string{
		"commit.bhp512 r0 r1 into r2 ",
		"commit.bhp512 r0 r1 into r2\n",
		"commit.bhp512 r0 r1 into r2 extra",
	} {
		_, err := ParseInstruction(s)
		assert.ErrorIs(t, err, ErrParse, s)
		_, err = FromString[BHP512](s)
		assert.ErrorIs(t, err, ErrParse, s)
	}

	_, err = ParseInstruction("commit.bhp512 r0" + strings.Repeat(".a", program.MaxPathLength+1) + " r1 into r2")
	assert.ErrorIs(t, err, ErrParse)

	_, err = ParseInstruction("commit.bhp2048 r0 r1 into r2")
	assert.ErrorIs(t, err, ErrUnknownOpcode)
	_, err = ParseInstruction("")
	assert.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestCommitBinaryRoundTrip(t *testing.T) {
	for _, s := range []string{
		"commit.bhp256 r0 r1 into r2",
		"commit.bhp512 r0.a.b 7scalar into r5",
		"commit.bhp768 true r3 into r4",
		"commit.bhp1024 -3i64 0scalar into r10",
	} {
		instr, err := ParseInstruction(s)
		require.NoError(t, err)

		data, err := EncodeInstruction(instr)
		require.NoError(t, err)
		decoded, err := DecodeInstruction(data)
		require.NoError(t, err)
		assert.Equal(t, instr, decoded, s)

		_, err = DecodeInstruction(append(data, 0))
		assert.ErrorIs(t, err, program.ErrInvalidEncoding)
		_, err = DecodeInstruction(data[:len(data)-1])
		assert.Error(t, err)
	}

	c := NewCommit[BHP768](program.RegisterOperand(r0), program.LiteralOperand(literal(t, "1scalar")), r2)
	data, err := c.MarshalBinary()
	require.NoError(t, err)
	var decoded CommitBHP768
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, c, &decoded)

	_, err = DecodeInstruction([]byte{9, 0})
	assert.ErrorIs(t, err, ErrUnknownOpcode)
}

func TestCommitBinaryPathLength(t *testing.T) {
	path := make([]program.Identifier, program.MaxPathLength+1)
	for i := range path {
		path[i] = "a"
	}
	deep := program.NewRegister(0, path...)

	c := NewCommit[BHP256](program.RegisterOperand(deep), program.RegisterOperand(r1), r2)
	_, err := EncodeInstruction(c)
	assert.ErrorIs(t, err, program.ErrInvalidEncoding)
	_, err = c.MarshalBinary()
	assert.ErrorIs(t, err, program.ErrInvalidEncoding)

	c = NewCommit[BHP256](program.RegisterOperand(r0), program.RegisterOperand(r1), deep)
	_, err = c.MarshalBinary()
	assert.ErrorIs(t, err, program.ErrInvalidEncoding)

	c = NewCommit[BHP256](program.RegisterOperand(program.NewRegister(0, path[1:]...)), program.RegisterOperand(r1), r2)
	data, err := EncodeInstruction(c)
	require.NoError(t, err)
	decoded, err := DecodeInstruction(data)
	require.NoError(t, err)
	assert.Equal(t, Instruction(c), decoded)
}

func TestCommitArity(t *testing.T) {
	one := NewCommitWithOperands[BHP256]([]program.Operand{program.RegisterOperand(r0)}, r1)
	_, err := one.MarshalText()
	assert.ErrorIs(t, err, ErrArity)
	assert.Contains(t, one.String(), "%!v(commit.bhp256")

	three := NewCommitWithOperands[BHP1024]([]program.Operand{
		program.RegisterOperand(r0), program.RegisterOperand(r1), program.RegisterOperand(r2),
	}, program.NewRegister(3))
	_, err = three.MarshalBinary()
	assert.ErrorIs(t, err, ErrArity)

	stack := NewStack()
	require.NoError(t, stack.Store(r0, program.NewBoolean(true)))
	require.NoError(t, stack.Store(r1, literal(t, "1scalar")))
	require.NoError(t, stack.Store(r2, literal(t, "2scalar")))
	assert.ErrorIs(t, three.Evaluate(stack), ErrArity)
	assert.False(t, stack.IsAssigned(program.NewRegister(3)))

	p := sampleProgram(t)
	scalar := program.LiteralRegisterType(program.Scalar)
	_, err = three.OutputTypes(p, []program.RegisterType{scalar, scalar, scalar})
	assert.ErrorIs(t, err, ErrArity)
	_, err = NewCommit[BHP256](program.RegisterOperand(r0), program.RegisterOperand(r1), r2).
		OutputTypes(p, []program.RegisterType{scalar})
	assert.ErrorIs(t, err, ErrArity)
}

func TestCommitOutputTypes(t *testing.T) {
	p := sampleProgram(t)
	scalar := program.LiteralRegisterType(program.Scalar)
	inputs := []program.RegisterType{
		program.LiteralRegisterType(program.Boolean),
		program.LiteralRegisterType(program.Group),
		program.PlaintextRegisterType(program.InterfacePlaintextType("pair")),
		program.RecordRegisterType("token"),
	}
	for _, instr := range []Instruction{
		NewCommit[BHP256](program.RegisterOperand(r0), program.RegisterOperand(r1), r2),
		NewCommit[BHP512](program.RegisterOperand(r0), program.RegisterOperand(r1), r2),
		NewCommit[BHP768](program.RegisterOperand(r0), program.RegisterOperand(r1), r2),
		NewCommit[BHP1024](program.RegisterOperand(r0), program.RegisterOperand(r1), r2),
	} {
		for _, in := range inputs {
			out, err := instr.OutputTypes(p, []program.RegisterType{in, scalar})
			require.NoError(t, err)
			assert.Equal(t, []program.RegisterType{program.LiteralRegisterType(program.Field)}, out)
		}

		_, err := instr.OutputTypes(p, []program.RegisterType{inputs[0], program.LiteralRegisterType(program.Boolean)})
		assert.ErrorIs(t, err, ErrInvalidRandomizer)
		_, err = instr.OutputTypes(p, []program.RegisterType{program.RecordRegisterType("missing"), scalar})
		assert.ErrorIs(t, err, program.ErrUnknownType)
	}
}

func TestCommitEvaluate(t *testing.T) {
	p := sampleProgram(t)
	record := sampleRecord(t)

	evaluate := func(instr Instruction, input, randomizer program.Value) program.Value {
		stack := NewStack()
		require.NoError(t, stack.Store(r0, input))
		require.NoError(t, stack.Store(r1, randomizer))
		require.NoError(t, instr.Evaluate(stack))
		out, err := stack.Load(program.RegisterOperand(r2))
		require.NoError(t, err)
		require.NoError(t, p.CheckValue(out, program.LiteralRegisterType(program.Field)))
		return out
	}

	instr := NewCommit[BHP256](program.RegisterOperand(r0), program.RegisterOperand(r1), r2)
	a := evaluate(instr, record, literal(t, "5scalar"))
	assert.True(t, program.ValuesEqual(a, evaluate(instr, record, literal(t, "5scalar"))))
	assert.False(t, program.ValuesEqual(a, evaluate(instr, record, literal(t, "6scalar"))))

	other := NewCommit[BHP512](program.RegisterOperand(r0), program.RegisterOperand(r1), r2)
	assert.False(t, program.ValuesEqual(a, evaluate(other, record, literal(t, "5scalar"))))

	// a member path loads the same value as storing the member directly
	member := NewCommit[BHP256](program.RegisterOperand(program.NewRegister(0, "memo", "b")), program.RegisterOperand(r1), r2)
	inner, err := program.ResolveMember(record, []program.Identifier{"memo", "b"})
	require.NoError(t, err)
	assert.True(t, program.ValuesEqual(evaluate(member, record, literal(t, "5scalar")), evaluate(instr, inner, literal(t, "5scalar"))))

	// literal operands
	lit := NewCommit[BHP256](program.LiteralOperand(literal(t, "3u8")), program.LiteralOperand(literal(t, "5scalar")), r2)
	stack := NewStack()
	require.NoError(t, lit.Evaluate(stack))
	out, err := stack.Load(program.RegisterOperand(r2))
	require.NoError(t, err)
	assert.True(t, program.ValuesEqual(out, evaluate(instr, literal(t, "3u8"), literal(t, "5scalar"))))
}

func TestCommitEvaluateErrors(t *testing.T) {
	instr := NewCommit[BHP512](program.RegisterOperand(r0), program.RegisterOperand(r1), r2)

	stack := NewStack()
	require.NoError(t, stack.Store(r0, program.NewField(fr.NewElement(1))))
	require.NoError(t, stack.Store(r1, program.NewBoolean(true)))
	err := instr.Evaluate(stack)
	assert.ErrorIs(t, err, ErrInvalidRandomizer)
	assert.EqualError(t, err, "invalid randomizer type for commit")
	assert.False(t, stack.IsAssigned(r2))

	stack = NewStack()
	require.NoError(t, stack.Store(r0, program.NewField(fr.NewElement(1))))
	assert.ErrorIs(t, instr.Evaluate(stack), ErrUndefinedRegister)

	require.NoError(t, stack.Store(r1, literal(t, "1scalar")))
	require.NoError(t, stack.Store(r2, program.NewBoolean(false)))
	assert.ErrorIs(t, instr.Evaluate(stack), ErrOccupiedRegister)

	stack = NewStack()
	require.NoError(t, stack.Store(r0, sampleRecord(t)))
	require.NoError(t, stack.Store(r1, sampleRecord(t)))
	assert.ErrorIs(t, instr.Evaluate(stack), ErrInvalidRandomizer)

	member := NewCommit[BHP512](program.RegisterOperand(r0), program.RegisterOperand(r1), program.NewRegister(2, "x"))
	stack = NewStack()
	require.NoError(t, stack.Store(r0, program.NewField(fr.NewElement(1))))
	require.NoError(t, stack.Store(r1, literal(t, "1scalar")))
	assert.ErrorIs(t, member.Evaluate(stack), ErrInvalidStore)
}

// rejectCircuit runs an instruction expected to fail on constant operands
// and checks that its destination stays unassigned.
type rejectCircuit struct {
	X        frontend.Variable
	instr    Instruction
	input    program.Value
	rand     program.Value
	expected error
}

func (c *rejectCircuit) Define(api frontend.API) error {
	stack := NewCircuitStack(api)
	if err := stack.Store(r0, program.ConstantCircuitValue(c.input)); err != nil {
		return err
	}
	if err := stack.Store(r1, program.ConstantCircuitValue(c.rand)); err != nil {
		return err
	}
	err := c.instr.Execute(stack)
	if err == nil || stack.IsAssigned(r2) {
		return ErrOccupiedRegister
	}
	if c.expected != nil && !errors.Is(err, c.expected) {
		return err
	}
	api.AssertIsEqual(c.X, 1)
	return nil
}

func TestCommitExecuteErrors(t *testing.T) {
	cases := []*rejectCircuit{
		{
			instr:    NewCommit[BHP512](program.RegisterOperand(r0), program.RegisterOperand(r1), r2),
			input:    program.NewField(fr.NewElement(1)),
			rand:     program.NewBoolean(true),
			expected: ErrInvalidRandomizer,
		},
		{
			instr:    NewCommit[BHP256](program.RegisterOperand(r0), program.RegisterOperand(r1), r2),
			input:    sampleRecord(t),
			rand:     sampleInterface(t),
			expected: ErrInvalidRandomizer,
		},
		{
			instr:    NewCommitWithOperands[BHP768]([]program.Operand{program.RegisterOperand(r0)}, r2),
			input:    program.NewField(fr.NewElement(1)),
			rand:     literal(t, "1scalar"),
			expected: ErrArity,
		},
		{
			instr:    NewCommit[BHP1024](program.RegisterOperand(program.NewRegister(7)), program.RegisterOperand(r1), r2),
			input:    program.NewField(fr.NewElement(1)),
			rand:     literal(t, "1scalar"),
			expected: ErrUndefinedRegister,
		},
	}
	for _, c := range cases {
		assignment := &rejectCircuit{X: 1}
		assert.NoError(t, test.IsSolved(c, assignment, ecc.BN254.ScalarField()), c.instr.Opcode().String())
	}
}

func TestOpcodes(t *testing.T) {
	assert.Equal(t, []Opcode{OpcodeCommitBHP256, OpcodeCommitBHP512, OpcodeCommitBHP768, OpcodeCommitBHP1024}, Opcodes())
	assert.Equal(t, OpcodeCommitBHP256, BHP256{}.Opcode())
	assert.Equal(t, OpcodeCommitBHP1024, (&CommitBHP1024{}).Opcode())
}

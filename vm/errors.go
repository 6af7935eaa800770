package vm

import "errors"

var (
	ErrArity             = errors.New("wrong number of operands")
	ErrInvalidRandomizer = errors.New("invalid randomizer type for commit")
	ErrParse             = errors.New("failed to parse string")
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrUndefinedRegister = errors.New("register is not defined")
	ErrOccupiedRegister  = errors.New("register is already assigned")
	ErrInvalidStore      = errors.New("cannot store into a register member")
)

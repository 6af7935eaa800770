package program

import "errors"

var (
	ErrParse           = errors.New("failed to parse string")
	ErrInvalidLiteral  = errors.New("invalid literal")
	ErrInvalidEncoding = errors.New("invalid binary encoding")
	ErrUnknownType     = errors.New("unknown type")
	ErrInvalidPath     = errors.New("invalid member path")
	ErrTypeMismatch    = errors.New("value does not match type")
)

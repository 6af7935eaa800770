package program

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PolyhedraZK/ecvm/utils"
)

const (
	registerLocator uint8 = iota
	registerMember
)

// MaxPathLength bounds the member path of a register; the binary form
// carries its length in a single byte.
const MaxPathLength = 255

// Register addresses a stack slot, optionally followed by a path into the
// members of the value stored there.
type Register struct {
	Locator uint64
	Path    []Identifier
}

func NewRegister(locator uint64, path ...Identifier) Register {
	return Register{Locator: locator, Path: path}
}

// IsLocator reports whether r names a whole slot.
func (r Register) IsLocator() bool {
	return len(r.Path) == 0
}

func (r Register) Equal(o Register) bool {
	if r.Locator != o.Locator || len(r.Path) != len(o.Path) {
		return false
	}
	for i := range r.Path {
		if r.Path[i] != o.Path[i] {
			return false
		}
	}
	return true
}

func (r Register) String() string {
	var sb strings.Builder
	sb.WriteByte('r')
	sb.WriteString(strconv.FormatUint(r.Locator, 10))
	for _, id := range r.Path {
		sb.WriteByte('.')
		sb.WriteString(string(id))
	}
	return sb.String()
}

// ParseRegister consumes a register from the front of s and returns the rest.
func ParseRegister(s string) (Register, string, error) {
	if !strings.HasPrefix(s, "r") {
		return Register{}, s, fmt.Errorf("%w: %q is not a register", ErrParse, s)
	}
	n := 1
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	locator, err := strconv.ParseUint(s[1:n], 10, 64)
	if err != nil {
		return Register{}, s, fmt.Errorf("%w: register %q: %v", ErrParse, s, err)
	}
	r := Register{Locator: locator}
	rest := s[n:]
	for strings.HasPrefix(rest, ".") {
		var id Identifier
		id, rest, err = parseIdentifier(rest[1:])
		if err != nil {
			return Register{}, s, err
		}
		if len(r.Path) == MaxPathLength {
			return Register{}, s, fmt.Errorf("%w: register path longer than %d", ErrParse, MaxPathLength)
		}
		r.Path = append(r.Path, id)
	}
	return r, rest, nil
}

func (r Register) AppendBinary(buf *utils.OutputBuf) error {
	if len(r.Path) > MaxPathLength {
		return fmt.Errorf("%w: register path of %d members exceeds %d", ErrInvalidEncoding, len(r.Path), MaxPathLength)
	}
	if r.IsLocator() {
		buf.AppendUint8(registerLocator)
		buf.AppendUint64(r.Locator)
		return nil
	}
	buf.AppendUint8(registerMember)
	buf.AppendUint64(r.Locator)
	buf.AppendUint8(uint8(len(r.Path)))
	for _, id := range r.Path {
		id.AppendBinary(buf)
	}
	return nil
}

func ReadRegister(buf *utils.InputBuf) (Register, error) {
	variant, err := buf.ReadUint8()
	if err != nil {
		return Register{}, err
	}
	locator, err := buf.ReadUint64()
	if err != nil {
		return Register{}, err
	}
	switch variant {
	case registerLocator:
		return Register{Locator: locator}, nil
	case registerMember:
		n, err := buf.ReadUint8()
		if err != nil {
			return Register{}, err
		}
		if n == 0 {
			return Register{}, fmt.Errorf("%w: member register without a path", ErrInvalidEncoding)
		}
		r := Register{Locator: locator, Path: make([]Identifier, n)}
		for i := range r.Path {
			if r.Path[i], err = ReadIdentifier(buf); err != nil {
				return Register{}, err
			}
		}
		return r, nil
	}
	return Register{}, fmt.Errorf("%w: register variant %d", ErrInvalidEncoding, variant)
}

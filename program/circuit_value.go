package program

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
)

// CircuitValue is the in-circuit twin of Value: a CircuitLiteral, a
// CircuitInterface or a CircuitRecord.
type CircuitValue interface {
	isCircuitValue()
}

type CircuitPlaintext interface {
	CircuitValue
	isCircuitPlaintext()
}

// CircuitLiteral carries its type statically; X is the raw value wire and Y
// the y-coordinate of points.
type CircuitLiteral struct {
	Type LiteralType
	X    frontend.Variable
	Y    frontend.Variable
}

func (CircuitLiteral) isCircuitValue()     {}
func (CircuitLiteral) isCircuitPlaintext() {}

// ToBitsLE decomposes the value wire into SizeInBits bits.
func (l CircuitLiteral) ToBitsLE(api frontend.API) []frontend.Variable {
	if l.Type == Boolean {
		return []frontend.Variable{l.X}
	}
	return api.ToBinary(l.X, l.Type.SizeInBits())
}

// Point returns the wires of a group or address literal.
func (l CircuitLiteral) Point() group.CircuitPoint {
	return group.CircuitPoint{X: l.X, Y: l.Y}
}

type CircuitMember struct {
	Name  Identifier
	Value CircuitPlaintext
}

type CircuitInterface struct {
	Members []CircuitMember
}

func (CircuitInterface) isCircuitValue()     {}
func (CircuitInterface) isCircuitPlaintext() {}

type CircuitRecord struct {
	Owner   CircuitLiteral
	Balance CircuitLiteral
	Entries []CircuitMember
}

func (CircuitRecord) isCircuitValue() {}

// ConstantCircuitValue lifts a native value into constant wires.
func ConstantCircuitValue(v Value) CircuitValue {
	switch v := v.(type) {
	case Literal:
		return constantLiteral(v)
	case Interface:
		return CircuitInterface{Members: constantMembers(v.members)}
	case Record:
		return CircuitRecord{
			Owner:   constantLiteral(v.owner),
			Balance: constantLiteral(v.balance),
			Entries: constantMembers(v.entries),
		}
	}
	panic(fmt.Sprintf("unknown value %T", v))
}

func constantLiteral(l Literal) CircuitLiteral {
	c := CircuitLiteral{Type: l.typ, X: field.ToBig(l.x)}
	if l.typ == Group || l.typ == Address {
		c.Y = field.ToBig(l.y)
	}
	return c
}

func constantMembers(members []Member) []CircuitMember {
	out := make([]CircuitMember, len(members))
	for i, m := range members {
		out[i] = CircuitMember{Name: m.Name, Value: ConstantCircuitValue(m.Value).(CircuitPlaintext)}
	}
	return out
}

type allocator struct {
	api   frontend.API
	curve twistededwards.Curve
	wires []frontend.Variable
	pos   int
}

// AllocateCircuitValue builds a circuit value shaped like template from the
// witness wires, in the order of template.Wires(). Every leaf is
// constrained to its type.
func AllocateCircuitValue(api frontend.API, template Value, wires []frontend.Variable) (CircuitValue, error) {
	a := &allocator{api: api, wires: wires}
	v, err := a.value(template)
	if err != nil {
		return nil, err
	}
	if a.pos != len(wires) {
		return nil, fmt.Errorf("%w: %d wires left after allocation", ErrTypeMismatch, len(wires)-a.pos)
	}
	return v, nil
}

func (a *allocator) next() (frontend.Variable, error) {
	if a.pos >= len(a.wires) {
		return nil, fmt.Errorf("%w: not enough wires", ErrTypeMismatch)
	}
	w := a.wires[a.pos]
	a.pos++
	return w, nil
}

func (a *allocator) value(template Value) (CircuitValue, error) {
	switch t := template.(type) {
	case Literal:
		return a.literal(t.typ)
	case Interface:
		members, err := a.members(t.members)
		if err != nil {
			return nil, err
		}
		return CircuitInterface{Members: members}, nil
	case Record:
		owner, err := a.literal(Address)
		if err != nil {
			return nil, err
		}
		balance, err := a.literal(U64)
		if err != nil {
			return nil, err
		}
		entries, err := a.members(t.entries)
		if err != nil {
			return nil, err
		}
		return CircuitRecord{Owner: owner, Balance: balance, Entries: entries}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownType, template)
}

func (a *allocator) members(members []Member) ([]CircuitMember, error) {
	out := make([]CircuitMember, len(members))
	for i, m := range members {
		v, err := a.value(m.Value)
		if err != nil {
			return nil, err
		}
		out[i] = CircuitMember{Name: m.Name, Value: v.(CircuitPlaintext)}
	}
	return out, nil
}

func (a *allocator) literal(t LiteralType) (CircuitLiteral, error) {
	x, err := a.next()
	if err != nil {
		return CircuitLiteral{}, err
	}
	l := CircuitLiteral{Type: t, X: x}
	switch {
	case t == Boolean:
		a.api.AssertIsBoolean(x)
	case t.IsInteger():
		a.api.ToBinary(x, t.SizeInBits())
	case t == Scalar:
		group.AssertIsScalar(a.api, x)
	case t == Group || t == Address:
		if l.Y, err = a.next(); err != nil {
			return CircuitLiteral{}, err
		}
		if a.curve == nil {
			if a.curve, err = group.NewCurve(a.api); err != nil {
				return CircuitLiteral{}, err
			}
		}
		group.AssertIsInSubgroup(a.curve, l.Point())
	}
	return l, nil
}

// CloneCircuitValue copies the structure of v. Wires are shared.
func CloneCircuitValue(v CircuitValue) CircuitValue {
	switch v := v.(type) {
	case CircuitInterface:
		return CircuitInterface{Members: cloneCircuitMembers(v.Members)}
	case CircuitRecord:
		return CircuitRecord{Owner: v.Owner, Balance: v.Balance, Entries: cloneCircuitMembers(v.Entries)}
	}
	return v
}

func cloneCircuitMembers(members []CircuitMember) []CircuitMember {
	out := make([]CircuitMember, len(members))
	for i, m := range members {
		out[i] = CircuitMember{Name: m.Name, Value: CloneCircuitValue(m.Value).(CircuitPlaintext)}
	}
	return out
}

// ResolveCircuitMember follows path into v, like ResolveMember.
func ResolveCircuitMember(v CircuitValue, path []Identifier) (CircuitValue, error) {
	for i, name := range path {
		var next CircuitValue
		switch cur := v.(type) {
		case CircuitInterface:
			next = findCircuitMember(cur.Members, name)
		case CircuitRecord:
			switch name {
			case ownerName:
				next = cur.Owner
			case balanceName:
				next = cur.Balance
			default:
				next = findCircuitMember(cur.Entries, name)
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s not found at position %d", ErrInvalidPath, name, i)
		}
		v = next
	}
	return CloneCircuitValue(v), nil
}

func findCircuitMember(members []CircuitMember, name Identifier) CircuitValue {
	for _, m := range members {
		if m.Name == name {
			return m.Value
		}
	}
	return nil
}

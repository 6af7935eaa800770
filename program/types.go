package program

import (
	"fmt"
	"strings"
)

// PlaintextType is either a literal type or the name of a declared
// interface.
type PlaintextType struct {
	Literal   LiteralType
	Interface Identifier
}

func LiteralPlaintextType(t LiteralType) PlaintextType {
	return PlaintextType{Literal: t}
}

func InterfacePlaintextType(name Identifier) PlaintextType {
	return PlaintextType{Interface: name}
}

func (p PlaintextType) IsInterface() bool {
	return p.Interface != ""
}

func (p PlaintextType) String() string {
	if p.IsInterface() {
		return string(p.Interface)
	}
	return p.Literal.String()
}

type RegisterKind uint8

const (
	KindPlaintext RegisterKind = iota
	KindRecord
)

// RegisterType is the static type of a register.
type RegisterType struct {
	Kind      RegisterKind
	Plaintext PlaintextType
	Record    Identifier
}

func PlaintextRegisterType(p PlaintextType) RegisterType {
	return RegisterType{Kind: KindPlaintext, Plaintext: p}
}

func LiteralRegisterType(t LiteralType) RegisterType {
	return PlaintextRegisterType(LiteralPlaintextType(t))
}

func RecordRegisterType(name Identifier) RegisterType {
	return RegisterType{Kind: KindRecord, Record: name}
}

// IsLiteral reports whether r is the plaintext literal type t.
func (r RegisterType) IsLiteral(t LiteralType) bool {
	return r.Kind == KindPlaintext && !r.Plaintext.IsInterface() && r.Plaintext.Literal == t
}

func (r RegisterType) String() string {
	if r.Kind == KindRecord {
		return string(r.Record) + ".record"
	}
	return r.Plaintext.String()
}

// ParseRegisterType accepts "field", "token" or "token.record".
func ParseRegisterType(s string) (RegisterType, error) {
	if name, ok := strings.CutSuffix(s, ".record"); ok {
		id, err := NewIdentifier(name)
		if err != nil {
			return RegisterType{}, err
		}
		return RecordRegisterType(id), nil
	}
	if t, err := ParseLiteralType(s); err == nil {
		return LiteralRegisterType(t), nil
	}
	id, err := NewIdentifier(s)
	if err != nil {
		return RegisterType{}, err
	}
	return PlaintextRegisterType(InterfacePlaintextType(id)), nil
}

type MemberType struct {
	Name Identifier
	Type PlaintextType
}

type InterfaceType struct {
	Name    Identifier
	Members []MemberType
}

// RecordType declares the entries of a record besides its owner and balance.
type RecordType struct {
	Name    Identifier
	Entries []MemberType
}

// Program holds the interface and record declarations register types refer
// to.
type Program struct {
	interfaces map[Identifier]InterfaceType
	records    map[Identifier]RecordType
}

func NewProgram() *Program {
	return &Program{
		interfaces: make(map[Identifier]InterfaceType),
		records:    make(map[Identifier]RecordType),
	}
}

func (p *Program) checkName(name Identifier) error {
	if _, err := NewIdentifier(string(name)); err != nil {
		return err
	}
	if _, err := ParseLiteralType(string(name)); err == nil {
		return fmt.Errorf("%w: %s is a literal type", ErrUnknownType, name)
	}
	if _, ok := p.interfaces[name]; ok {
		return fmt.Errorf("%w: %s is already declared", ErrUnknownType, name)
	}
	if _, ok := p.records[name]; ok {
		return fmt.Errorf("%w: %s is already declared", ErrUnknownType, name)
	}
	return nil
}

func (p *Program) checkMemberTypes(members []MemberType) error {
	seen := make(map[Identifier]bool, len(members))
	for _, m := range members {
		if _, err := NewIdentifier(string(m.Name)); err != nil {
			return err
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: duplicate member %s", ErrUnknownType, m.Name)
		}
		seen[m.Name] = true
		if m.Type.IsInterface() {
			if _, ok := p.interfaces[m.Type.Interface]; !ok {
				return fmt.Errorf("%w: interface %s", ErrUnknownType, m.Type.Interface)
			}
		} else if !m.Type.Literal.IsValid() {
			return fmt.Errorf("%w: %s", ErrUnknownType, m.Type.Literal)
		}
	}
	return nil
}

// AddInterface declares an interface. Members may only refer to interfaces
// declared before it.
func (p *Program) AddInterface(it InterfaceType) error {
	if err := p.checkName(it.Name); err != nil {
		return err
	}
	if len(it.Members) == 0 {
		return fmt.Errorf("%w: interface %s has no members", ErrUnknownType, it.Name)
	}
	if err := p.checkMemberTypes(it.Members); err != nil {
		return err
	}
	it.Members = append([]MemberType(nil), it.Members...)
	p.interfaces[it.Name] = it
	return nil
}

func (p *Program) AddRecord(rt RecordType) error {
	if err := p.checkName(rt.Name); err != nil {
		return err
	}
	if err := p.checkMemberTypes(rt.Entries); err != nil {
		return err
	}
	for _, e := range rt.Entries {
		if e.Name == ownerName || e.Name == balanceName {
			return fmt.Errorf("%w: record entry %s is reserved", ErrUnknownType, e.Name)
		}
	}
	rt.Entries = append([]MemberType(nil), rt.Entries...)
	p.records[rt.Name] = rt
	return nil
}

func (p *Program) Interface(name Identifier) (InterfaceType, error) {
	it, ok := p.interfaces[name]
	if !ok {
		return InterfaceType{}, fmt.Errorf("%w: interface %s", ErrUnknownType, name)
	}
	return it, nil
}

func (p *Program) Record(name Identifier) (RecordType, error) {
	rt, ok := p.records[name]
	if !ok {
		return RecordType{}, fmt.Errorf("%w: record %s", ErrUnknownType, name)
	}
	return rt, nil
}

// PreimageBits is the number of bits a value of type t contributes to a
// commitment preimage.
func (p *Program) PreimageBits(t RegisterType) (int, error) {
	if t.Kind == KindRecord {
		rt, err := p.Record(t.Record)
		if err != nil {
			return 0, err
		}
		n := Address.SizeInBits() + U64.SizeInBits()
		m, err := p.membersBits(rt.Entries)
		return n + m, err
	}
	return p.plaintextBits(t.Plaintext)
}

func (p *Program) plaintextBits(t PlaintextType) (int, error) {
	if !t.IsInterface() {
		if !t.Literal.IsValid() {
			return 0, fmt.Errorf("%w: %s", ErrUnknownType, t.Literal)
		}
		return literalTypeTagBits + t.Literal.SizeInBits(), nil
	}
	it, err := p.Interface(t.Interface)
	if err != nil {
		return 0, err
	}
	return p.membersBits(it.Members)
}

func (p *Program) membersBits(members []MemberType) (int, error) {
	n := 0
	for _, m := range members {
		b, err := p.plaintextBits(m.Type)
		if err != nil {
			return 0, err
		}
		n += 8*len(m.Name) + b
	}
	return n, nil
}

// CheckValue verifies that v has the shape of t.
func (p *Program) CheckValue(v Value, t RegisterType) error {
	if t.Kind == KindRecord {
		r, ok := v.(Record)
		if !ok {
			return fmt.Errorf("%w: expected %s, found %s", ErrTypeMismatch, t, v)
		}
		rt, err := p.Record(t.Record)
		if err != nil {
			return err
		}
		return p.checkMembers(r.entries, rt.Entries)
	}
	pt, ok := v.(Plaintext)
	if !ok {
		return fmt.Errorf("%w: expected %s, found %s", ErrTypeMismatch, t, v)
	}
	return p.checkPlaintext(pt, t.Plaintext)
}

func (p *Program) checkPlaintext(v Plaintext, t PlaintextType) error {
	if !t.IsInterface() {
		l, ok := v.(Literal)
		if !ok || l.typ != t.Literal {
			return fmt.Errorf("%w: expected %s, found %s", ErrTypeMismatch, t, v)
		}
		return nil
	}
	i, ok := v.(Interface)
	if !ok {
		return fmt.Errorf("%w: expected %s, found %s", ErrTypeMismatch, t, v)
	}
	it, err := p.Interface(t.Interface)
	if err != nil {
		return err
	}
	return p.checkMembers(i.members, it.Members)
}

func (p *Program) checkMembers(members []Member, types []MemberType) error {
	if len(members) != len(types) {
		return fmt.Errorf("%w: expected %d members, found %d", ErrTypeMismatch, len(types), len(members))
	}
	for i, m := range members {
		if m.Name != types[i].Name {
			return fmt.Errorf("%w: expected member %s, found %s", ErrTypeMismatch, types[i].Name, m.Name)
		}
		if err := p.checkPlaintext(m.Value, types[i].Type); err != nil {
			return err
		}
	}
	return nil
}

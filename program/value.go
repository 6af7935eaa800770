package program

import (
	"fmt"
	"math/big"
	"strings"
)

// Value is what a register holds: a Literal, an Interface or a Record.
// Values never change once built.
type Value interface {
	isValue()
	String() string
	// Wires lists the witness of the value, leaves in declaration order.
	Wires() []*big.Int
}

// Plaintext is a Value that may be nested in an interface or a record: a
// Literal or an Interface.
type Plaintext interface {
	Value
	isPlaintext()
}

// Member is a named plaintext inside an interface or a record.
type Member struct {
	Name  Identifier
	Value Plaintext
}

const (
	ownerName   Identifier = "owner"
	balanceName Identifier = "balance"
)

// Interface is an ordered list of uniquely named plaintext members.
type Interface struct {
	members []Member
}

func (Interface) isValue()     {}
func (Interface) isPlaintext() {}

func NewInterface(members ...Member) (Interface, error) {
	if len(members) == 0 {
		return Interface{}, fmt.Errorf("%w: interface without members", ErrInvalidLiteral)
	}
	if err := checkMembers(members); err != nil {
		return Interface{}, err
	}
	return Interface{members: cloneMembers(members)}, nil
}

func checkMembers(members []Member) error {
	seen := make(map[Identifier]bool, len(members))
	for _, m := range members {
		if _, err := NewIdentifier(string(m.Name)); err != nil {
			return err
		}
		if m.Value == nil {
			return fmt.Errorf("%w: member %s has no value", ErrInvalidLiteral, m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: duplicate member %s", ErrInvalidLiteral, m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

func cloneMembers(members []Member) []Member {
	out := make([]Member, len(members))
	for i, m := range members {
		out[i] = Member{Name: m.Name, Value: ClonePlaintext(m.Value)}
	}
	return out
}

// Members returns a copy of the members.
func (i Interface) Members() []Member {
	return cloneMembers(i.members)
}

func (i Interface) Member(name Identifier) (Plaintext, bool) {
	for _, m := range i.members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

func (i Interface) Wires() []*big.Int {
	return membersWires(i.members)
}

func (i Interface) String() string {
	return formatMembers(nil, i.members)
}

// Record is an owned value: an address owner, a u64 balance and named
// plaintext entries.
type Record struct {
	owner   Literal
	balance Literal
	entries []Member
}

func (Record) isValue() {}

func NewRecord(owner Literal, balance uint64, entries ...Member) (Record, error) {
	if owner.Type() != Address {
		return Record{}, fmt.Errorf("%w: record owner must be an address, found %s", ErrInvalidLiteral, owner.Type())
	}
	if err := checkMembers(entries); err != nil {
		return Record{}, err
	}
	for _, e := range entries {
		if e.Name == ownerName || e.Name == balanceName {
			return Record{}, fmt.Errorf("%w: record entry %s is reserved", ErrInvalidLiteral, e.Name)
		}
	}
	return Record{owner: owner, balance: NewU64(balance), entries: cloneMembers(entries)}, nil
}

func (r Record) Owner() Literal {
	return r.owner
}

func (r Record) Balance() Literal {
	return r.balance
}

func (r Record) Entries() []Member {
	return cloneMembers(r.entries)
}

func (r Record) Entry(name Identifier) (Plaintext, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

func (r Record) Wires() []*big.Int {
	w := append(r.owner.Wires(), r.balance.Wires()...)
	return append(w, membersWires(r.entries)...)
}

func (r Record) String() string {
	head := []Member{{Name: ownerName, Value: r.owner}, {Name: balanceName, Value: r.balance}}
	return formatMembers(head, r.entries)
}

func membersWires(members []Member) []*big.Int {
	var w []*big.Int
	for _, m := range members {
		w = append(w, m.Value.Wires()...)
	}
	return w
}

func formatMembers(head, members []Member) string {
	parts := make([]string, 0, len(head)+len(members))
	for _, m := range append(head, members...) {
		parts = append(parts, fmt.Sprintf("%s: %s", m.Name, m.Value))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func ClonePlaintext(p Plaintext) Plaintext {
	if i, ok := p.(Interface); ok {
		return Interface{members: cloneMembers(i.members)}
	}
	return p
}

// CloneValue returns a copy of v sharing no mutable state with it.
func CloneValue(v Value) Value {
	switch v := v.(type) {
	case Interface:
		return ClonePlaintext(v)
	case Record:
		return Record{owner: v.owner, balance: v.balance, entries: cloneMembers(v.entries)}
	}
	return v
}

// ValuesEqual compares two values structurally.
func ValuesEqual(a, b Value) bool {
	switch a := a.(type) {
	case Literal:
		b, ok := b.(Literal)
		return ok && a == b
	case Interface:
		b, ok := b.(Interface)
		return ok && membersEqual(a.members, b.members)
	case Record:
		b, ok := b.(Record)
		return ok && a.owner == b.owner && a.balance == b.balance && membersEqual(a.entries, b.entries)
	}
	return false
}

func membersEqual(a, b []Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !ValuesEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// ResolveMember follows path into v. Records expose their owner and balance
// next to their entries.
func ResolveMember(v Value, path []Identifier) (Value, error) {
	for i, name := range path {
		var (
			next Value
			ok   bool
		)
		switch cur := v.(type) {
		case Interface:
			next, ok = cur.Member(name)
		case Record:
			switch name {
			case ownerName:
				next, ok = cur.owner, true
			case balanceName:
				next, ok = cur.balance, true
			default:
				next, ok = cur.Entry(name)
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s not found at position %d", ErrInvalidPath, name, i)
		}
		v = next
	}
	return CloneValue(v), nil
}

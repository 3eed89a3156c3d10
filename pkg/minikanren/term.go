package minikanren

import (
	"fmt"
	"sync"
)

// Term is the logic-term data model shared by every part of the engine: a
// tagged value that is one of *Var, *Atom, *Pair, or *Compound (plus
// *Placeholder, which appears only in a reified Answer). A freshly
// built Term is always a finite tree — cycles arise only through a
// Substitution, never through direct construction — and a Term is
// immutable after construction, so sharing it across branches is always
// safe.
type Term interface {
	// String returns a human-readable representation of the term. It does
	// not resolve variable bindings; use WalkStar for that.
	String() string

	// IsVar reports whether this term is a logic variable.
	IsVar() bool

	// term is an unexported marker restricting Term to types defined in
	// this package.
	term()
}

// Var is a logic variable: a unique, monotonically allocated id plus an
// optional debug name. Two variables are equal iff their ids match — the
// name exists only for readability in String() and error messages.
type Var struct {
	id   int64
	name string
}

func (v *Var) String() string {
	if v.name != "" {
		return fmt.Sprintf("_%s.%d", v.name, v.id)
	}
	return fmt.Sprintf("_.%d", v.id)
}

// ID returns the variable's unique allocation id.
func (v *Var) ID() int64 { return v.id }

// Name returns the variable's debug name, or "" if anonymous.
func (v *Var) Name() string { return v.name }

func (v *Var) IsVar() bool { return true }
func (*Var) term() {}

// Atom is a primitive ground value: a boolean, an integer, an interned
// symbol, or the empty-list marker. Atoms compare equal by tag and payload,
// never by identity.
type Atom struct {
	kind atomKind
	b    bool
	i    int64
	sym  *symbol
}

type atomKind uint8

const (
	atomBool atomKind = iota
	atomInt
	atomSymbol
	atomEmpty
)

// symbol is an interned string. Interning means two atoms built from equal
// strings always share one *symbol, so Equal can compare pointers and
// String never needs to re-copy the text.
type symbol struct{ text string }

var (
	symbolTable sync.Map // string -> *symbol
	emptyAtom = &Atom{kind: atomEmpty}
)

func intern(s string) *symbol {
	if v, ok := symbolTable.Load(s); ok {
		return v.(*symbol)
	}
	sym := &symbol{text: s}
	actual, _ := symbolTable.LoadOrStore(s, sym)
	return actual.(*symbol)
}

// NewBool builds a boolean atom.
func NewBool(b bool) *Atom { return &Atom{kind: atomBool, b: b} }

// NewInt builds an integer atom.
func NewInt(i int64) *Atom { return &Atom{kind: atomInt, i: i} }

// NewSymbol builds an interned-symbol atom.
func NewSymbol(s string) *Atom { return &Atom{kind: atomSymbol, sym: intern(s)} }

// Empty is the empty-list marker atom, the tail of every proper list.
func Empty() *Atom { return emptyAtom }

// NewAtom builds an atom from a Go value, dispatching on its dynamic type:
// bool -> NewBool, string -> NewSymbol, int/int32/int64 -> NewInt, nil ->
// Empty(). Other types (including the other integer kinds) panic; callers
// with a richer payload should use Compound instead.
func NewAtom(value interface{}) *Atom {
	switch v := value.(type) {
	case bool:
		return NewBool(v)
	case string:
		return NewSymbol(v)
	case int:
		return NewInt(int64(v))
	case int32:
		return NewInt(int64(v))
	case int64:
		return NewInt(v)
	case nil:
		return Empty()
	default:
		panic(fmt.Sprintf("minikanren: NewAtom: unsupported value type %T", value))
	}
}

func (a *Atom) IsVar() bool { return false }
func (*Atom) term() {}

func (a *Atom) String() string {
	switch a.kind {
	case atomBool:
		return fmt.Sprintf("%t", a.b)
	case atomInt:
		return fmt.Sprintf("%d", a.i)
	case atomSymbol:
		return a.sym.text
	case atomEmpty:
		return "()"
	default:
		return "<atom>"
	}
}

// Equal implements structural equality for atoms: same tag, same payload.
func (a *Atom) Equal(other *Atom) bool {
	if a.kind != other.kind {
		return false
	}
	switch a.kind {
	case atomBool:
		return a.b == other.b
	case atomInt:
		return a.i == other.i
	case atomSymbol:
		return a.sym == other.sym
	case atomEmpty:
		return true
	default:
		return false
	}
}

// IsInt reports whether the atom holds an integer, returning the value.
func (a *Atom) IsInt() (int64, bool) {
	if a.kind == atomInt {
		return a.i, true
	}
	return 0, false
}

// IsEmpty reports whether the atom is the empty-list marker.
func (a *Atom) IsEmpty() bool { return a.kind == atomEmpty }

// Pair is an ordered two-cell (head, tail). Proper lists are right-nested
// pairs ending in Empty(); improper lists (dotted pairs) are permitted and
// simply terminate in a non-empty atom or an unbound variable.
type Pair struct {
	head, tail Term
}

// NewPair builds a cons cell.
func NewPair(head, tail Term) *Pair { return &Pair{head: head, tail: tail} }

func (p *Pair) Head() Term { return p.head }
func (p *Pair) Tail() Term { return p.tail }

func (p *Pair) IsVar() bool { return false }
func (*Pair) term() {}

func (p *Pair) String() string {
	return fmt.Sprintf("(%s. %s)", p.head.String(), p.tail.String())
}

// List builds a proper list of elems, optionally dotted onto tail (Empty()
// if tail is omitted).
func List(tail Term, elems ...Term) Term {
	if tail == nil {
		tail = Empty()
	}
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		result = NewPair(elems[i], result)
	}
	return result
}

// Compound is a named constructor carrying an ordered sequence of child
// terms, used to encode user-defined structured data that doesn't fit the
// pair/list shape (records, tagged unions, AST nodes,...).
type Compound struct {
	ctor     string
	children []Term
}

// NewCompound builds a compound term. children is not copied; callers must
// not mutate the slice afterward, since Term values are immutable once
// constructed.
func NewCompound(ctor string, children ...Term) *Compound {
	return &Compound{ctor: ctor, children: children}
}

func (c *Compound) Constructor() string { return c.ctor }
func (c *Compound) Children() []Term { return c.children }
func (c *Compound) Arity() int { return len(c.children) }

func (c *Compound) IsVar() bool { return false }
func (*Compound) term() {}

func (c *Compound) String() string {
	s := c.ctor + "("
	for i, ch := range c.children {
		if i > 0 {
			s += ", "
		}
		s += ch.String()
	}
	return s + ")"
}

// StructEqual implements structural equality over terms: atoms equal by
// tag+payload, pairs equal iff heads and tails are pairwise
// equal, compounds equal iff constructor names match and children are
// pairwise equal, and variables participate only by identity. Unlike
// unification, StructEqual never consults a Substitution and never binds
// anything — it is a strict, syntactic check used by tests and by
// disequality's own bookkeeping.
func StructEqual(a, b Term) bool {
	switch x := a.(type) {
	case *Var:
		y, ok := b.(*Var)
		return ok && x.id == y.id
	case *Atom:
		y, ok := b.(*Atom)
		return ok && x.Equal(y)
	case *Pair:
		y, ok := b.(*Pair)
		return ok && StructEqual(x.head, y.head) && StructEqual(x.tail, y.tail)
	case *Compound:
		y, ok := b.(*Compound)
		if !ok || x.ctor != y.ctor || len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			if !StructEqual(x.children[i], y.children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

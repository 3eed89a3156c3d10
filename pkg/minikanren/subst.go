package minikanren

import (
	"encoding/binary"

	iradix "github.com/hashicorp/go-immutable-radix/v2"
)

// Subst is a persistent variable -> Term mapping. It is backed by an
// immutable radix tree (hashicorp/go-immutable-radix/v2) keyed by the
// variable's 8-byte big-endian id, which gives Extend/Walk their required
// persistence for free: every Extend returns a new Subst that shares
// unmodified structure with the old one, so holding a Subst reference from
// one search branch is completely unaffected by another branch extending
// its own copy.
type Subst struct {
	tree *iradix.Tree[Term]
}

// emptySubst is the substitution a fresh State starts with.
func emptySubst() *Subst {
	return &Subst{tree: iradix.New[Term]()}
}

func varKey(id int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return buf[:]
}

// lookup returns the term bound to v, if any.
func (s *Subst) lookup(v *Var) (Term, bool) {
	return s.tree.Get(varKey(v.id))
}

// Len returns the number of bindings, mostly useful for diagnostics.
func (s *Subst) Len() int {
	return s.tree.Len()
}

// extend returns a new Subst with v bound to t. It does not check for
// conflicts or run the occurs check; callers go through Unify for that.
func (s *Subst) extend(v *Var, t Term) *Subst {
	newTree, _, _ := s.tree.Insert(varKey(v.id), t)
	return &Subst{tree: newTree}
}

// Walk repeatedly looks up t in s while t is a bound variable, returning the
// first non-variable or unbound-variable term. Termination is guaranteed
// because s is acyclic by construction whenever Unify's occurs check is
// enabled (the default); see WalkStar for the cyclic-graph fallback used
// when it is disabled.
func (s *Subst) Walk(t Term) Term {
	for {
		v, ok := t.(*Var)
		if !ok {
			return t
		}
		bound, found := s.lookup(v)
		if !found {
			return t
		}
		t = bound
	}
}

// WalkStar recursively walks t, additionally descending into Pair and
// Compound structure, producing a fully resolved tree. This is what
// reification uses to render an answer. If s was built without the occurs
// check, WalkStar guards against a genuinely cyclic substitution by
// tracking the variables it is currently resolving on the active path and
// returning a *ResourceError rather than
// recursing forever.
func (s *Subst) WalkStar(t Term) (Term, error) {
	return s.walkStar(t, nil)
}

// walkStar resolves t one binding at a time, tracking the ids of the bound
// variables currently being expanded on this path in onPath. A bound
// variable whose own id is already on the path means the substitution
// binds some variable back to a structure containing itself — only
// reachable when Unify ran with occursCheck disabled — and is reported as
// a resource error instead of recursed into.
func (s *Subst) walkStar(t Term, onPath []int64) (Term, error) {
	if v, ok := t.(*Var); ok {
		bound, found := s.lookup(v)
		if !found {
			return v, nil
		}
		for _, id := range onPath {
			if id == v.id {
				return nil, &ResourceError{Kind: "cyclic-substitution", Message: "WalkStar: cycle detected resolving variable " + v.String()}
			}
		}
		return s.walkStar(bound, append(onPath, v.id))
	}
	switch x := t.(type) {
	case *Pair:
		head, err := s.walkStar(x.head, onPath)
		if err != nil {
			return nil, err
		}
		tail, err := s.walkStar(x.tail, onPath)
		if err != nil {
			return nil, err
		}
		return NewPair(head, tail), nil
	case *Compound:
		children := make([]Term, len(x.children))
		for i, ch := range x.children {
			resolved, err := s.walkStar(ch, onPath)
			if err != nil {
				return nil, err
			}
			children[i] = resolved
		}
		return NewCompound(x.ctor, children...), nil
	default:
		return t, nil
	}
}

// occursIn reports whether v occurs anywhere in t under s, walking through
// pairs and compounds. It is the occurs check: Unify rejects
// a binding that would make the substitution cyclic.
func occursIn(s *Subst, v *Var, t Term) bool {
	t = s.Walk(t)
	switch x := t.(type) {
	case *Var:
		return x.id == v.id
	case *Pair:
		return occursIn(s, v, x.head) || occursIn(s, v, x.tail)
	case *Compound:
		for _, ch := range x.children {
			if occursIn(s, v, ch) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Unify is the most general specialisation making u and v syntactically
// equal. It walks both terms; if they resolve to the same
// variable the substitution is returned unchanged; if one resolves to a
// variable, the substitution is extended (subject to the occurs check when
// occursCheck is true); pairs unify head-then-tail; compounds of equal
// constructor and arity unify children pairwise; equal atoms succeed with
// no change; anything else fails.
//
// Disabling occursCheck trades soundness on self-referential terms for
// speed: eq(v, pair(v, _)) will then succeed and build a cyclic
// substitution, and WalkStar's cycle guard — not a correctness guarantee —
// is the only thing standing between that and an infinite loop.
func Unify(u, v Term, s *Subst, occursCheck bool) (*Subst, bool) {
	t1 := s.Walk(u)
	t2 := s.Walk(v)

	if v1, ok := t1.(*Var); ok {
		if v2, ok := t2.(*Var); ok && v1.id == v2.id {
			return s, true
		}
		if occursCheck && occursIn(s, v1, t2) {
			return s, false
		}
		return s.extend(v1, t2), true
	}
	if v2, ok := t2.(*Var); ok {
		if occursCheck && occursIn(s, v2, t1) {
			return s, false
		}
		return s.extend(v2, t1), true
	}

	switch x := t1.(type) {
	case *Atom:
		y, ok := t2.(*Atom)
		if !ok || !x.Equal(y) {
			return s, false
		}
		return s, true
	case *Pair:
		y, ok := t2.(*Pair)
		if !ok {
			return s, false
		}
		s2, ok := Unify(x.head, y.head, s, occursCheck)
		if !ok {
			return s, false
		}
		return Unify(x.tail, y.tail, s2, occursCheck)
	case *Compound:
		y, ok := t2.(*Compound)
		if !ok || x.ctor != y.ctor || len(x.children) != len(y.children) {
			return s, false
		}
		cur := s
		for i := range x.children {
			next, ok := Unify(x.children[i], y.children[i], cur, occursCheck)
			if !ok {
				return s, false
			}
			cur = next
		}
		return cur, true
	default:
		return s, false
	}
}

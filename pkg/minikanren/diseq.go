package minikanren

import "context"

// diseqState holds every disequality constraint posted so far, each as the
// list of variable bindings that would need to simultaneously hold for the
// two sides to become equal under CLP(Tree). A constraint is
// satisfied and can be dropped the moment any one of its bindings is
// already contradicted by the current substitution, and is violated only
// if every one of its bindings has already been forced true.
type diseqState struct {
	constraints [][]diseqBinding
}

func (*diseqState) domainState() {}

// diseqBinding is one (variable, term) pair a disequality constraint's
// simplification produced: the constraint holds exactly when at least one
// such pair, across the whole constraint, is NOT in the substitution.
type diseqBinding struct {
	v *Var
	t Term
}

// diseqDomain implements Domain for CLP(Tree) disequality:
// Diseq(u, v) posts the constraint that u and v must never become equal.
// Checking a disequality constraint reuses Unify itself — speculatively
// unifying the two sides against a private Subst and reading back which
// variable bindings that unification would require reduces "stay
// disunified" to "not all of these bindings are already true".
type diseqDomain struct{}

func (diseqDomain) Tag() DomainTag { return TagDiseq }

func (diseqDomain) Empty() DomainState { return &diseqState{} }

// unifyCollect speculatively unifies u and v against sub's current
// bindings, threading its own local overlay of any new bindings it makes
// along the way (never touching sub), and returns exactly those new
// bindings in the order they were made. ok is false if u and v cannot
// unify at all, in which case the disequality they came from is trivially,
// permanently satisfied. It deliberately runs without the occurs check:
// speculative unification here is only ever used to describe a constraint,
// never to extend the real substitution.
func unifyCollect(u, v Term, sub *Subst) (bindings []diseqBinding, ok bool) {
	cur := sub
	var walk func(a, b Term) bool
	walk = func(a, b Term) bool {
		t1 := cur.Walk(a)
		t2 := cur.Walk(b)
		if v1, isVar := t1.(*Var); isVar {
			if v2, ok := t2.(*Var); ok && v1.id == v2.id {
				return true
			}
			cur = cur.extend(v1, t2)
			bindings = append(bindings, diseqBinding{v: v1, t: t2})
			return true
		}
		if v2, isVar := t2.(*Var); isVar {
			cur = cur.extend(v2, t1)
			bindings = append(bindings, diseqBinding{v: v2, t: t1})
			return true
		}
		switch x := t1.(type) {
		case *Atom:
			y, ok := t2.(*Atom)
			return ok && x.Equal(y)
		case *Pair:
			y, ok := t2.(*Pair)
			return ok && walk(x.head, y.head) && walk(x.tail, y.tail)
		case *Compound:
			y, ok := t2.(*Compound)
			if !ok || x.ctor != y.ctor || len(x.children) != len(y.children) {
				return false
			}
			for i := range x.children {
				if !walk(x.children[i], y.children[i]) {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
	if !walk(u, v) {
		return nil, false
	}
	return bindings, true
}

// simplifyConstraint reduces one disequality constraint's binding list
// against sub by speculatively unifying every binding's variable with its
// term at once: the constraint is satisfied the instant ANY of its bindings
// can no longer hold under sub (its two sides no longer unify), and remains
// open otherwise, as the bindings that unification still needs; bindings
// already true drop out. If that list becomes empty while still open, the
// constraint is violated (u and v would now be fully equal).
func simplifyConstraint(bindings []diseqBinding, sub *Subst) (remaining []diseqBinding, satisfied bool) {
	lhs := make([]Term, len(bindings))
	rhs := make([]Term, len(bindings))
	for i, b := range bindings {
		lhs[i], rhs[i] = b.v, b.t
	}
	remaining, ok := unifyCollect(List(nil, lhs...), List(nil, rhs...), sub)
	if !ok {
		return nil, true
	}
	return remaining, false
}

func (diseqDomain) Check(ds DomainState, sub *Subst) (DomainState, []Binding, bool) {
	st := ds.(*diseqState)
	var next [][]diseqBinding
	changed := false
	for _, c := range st.constraints {
		remaining, satisfied := simplifyConstraint(c, sub)
		if satisfied {
			changed = true
			continue
		}
		if len(remaining) == 0 {
			// Every binding in the original constraint already holds:
			// the two sides are now fully equal, so the disequality is
			// violated.
			return ds, nil, false
		}
		if len(remaining) != len(c) {
			changed = true
		}
		next = append(next, remaining)
	}
	if !changed {
		return ds, nil, true
	}
	return &diseqState{constraints: next}, nil, true
}

func (diseqDomain) Reify(v *Var, ds DomainState, sub *Subst) interface{} {
	st := ds.(*diseqState)
	var out []Term
	for _, c := range st.constraints {
		involves := false
		for _, b := range c {
			if b.v.id == v.id {
				involves = true
				break
			}
		}
		if !involves {
			continue
		}
		parts := make([]Term, 0, len(c))
		for _, b := range c {
			parts = append(parts, NewCompound("=", b.v, b.t))
		}
		out = append(out, NewCompound("=/=", parts...))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Diseq posts a CLP(Tree) disequality constraint: u and v must
// never unify for the remainder of this branch. If u and v already cannot
// unify, Diseq trivially succeeds — there is nothing left to watch. If they
// unify with no new bindings at all (e.g. both already the same ground
// term), Diseq fails immediately, since they are already equal.
func Diseq(u, v Term) Goal {
	return func(ctx context.Context, s *State) Stream {
		bindings, ok := unifyCollect(u, v, s.subst)
		if !ok {
			return unitStream(s)
		}
		if len(bindings) == 0 {
			return emptyStream()
		}
		st := s.constr.state(TagDiseq).(*diseqState)
		newSt := &diseqState{constraints: append(append([][]diseqBinding{}, st.constraints...), bindings)}
		cs := s.constr.withState(TagDiseq, newSt)
		return unitStream(s.withStore(cs))
	}
}

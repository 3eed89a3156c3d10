package minikanren

// allocator is the per-query variable-id source. It is a shared, monotonically-increasing
// counter: every State descended from one Query holds the same *allocator,
// so sibling branches never collide on an id even though each branch's
// Subst is its own persistent value.
type allocator struct {
	next int64
}

func newAllocator() *allocator {
	return &allocator{}
}

func (a *allocator) fresh(name string) *Var {
	a.next++
	return &Var{id: a.next, name: name}
}

// State is the unit a Goal consumes and produces. It pairs a
// persistent substitution with a constraint store, the shared variable
// allocator, and an optional opaque user value threaded through
// user-defined goals.
//
// State is a plain immutable value (all fields are either persistent
// structures or a shared-but-append-only allocator pointer); copying a
// State is always safe and is how every combinator hands a state to
// multiple branches without aliasing bugs.
type State struct {
	subst     *Subst
	constr    *ConstraintStore
	alloc     *allocator
	occursChk bool
	user      interface{}
}

// InitialState returns an empty State: no bindings, no constraints, a fresh
// allocator, occurs-check enabled, and a nil user value. Query builds one of
// these per run; tests that want to exercise a goal directly without a full
// Query can call this too.
func InitialState() *State {
	return &State{
		subst:     emptySubst(),
		constr:    newConstraintStore(),
		alloc:     newAllocator(),
		occursChk: true,
	}
}

// WithUserState returns a copy of s carrying u as its opaque user value.
// User state is treated as per-state immutable with structural sharing: a
// branch that stores a new user value does not affect sibling branches,
// and nothing in the engine mutates u in place.
func (s *State) WithUserState(u interface{}) *State {
	next := *s
	next.user = u
	return &next
}

// UserState returns the state's opaque user value, or nil if none was set.
func (s *State) UserState() interface{} { return s.user }

// Subst exposes the state's current substitution, mostly for constraint
// domains and tests that need to Walk/WalkStar directly.
func (s *State) Subst() *Subst { return s.subst }

// withSubst returns a copy of s using sub in place of its substitution.
func (s *State) withSubst(sub *Subst) *State {
	next := *s
	next.subst = sub
	return &next
}

// withStore returns a copy of s using cs in place of its constraint store.
func (s *State) withStore(cs *ConstraintStore) *State {
	next := *s
	next.constr = cs
	return &next
}

// extend unifies u and v and checks the result against every registered
// constraint domain, discarding any resource-exhaustion error as
// a plain failure. Callers that must distinguish "no such answer" from
// "abort the whole query" — Eq, in particular — use extendChecked instead.
func (s *State) extend(u, v Term) (*State, bool) {
	next, ok, _ := s.extendChecked(u, v)
	return next, ok
}

// extendChecked unifies u and v against s's substitution, then runs every
// registered constraint domain's Check in fixed order,
// returning the new state and true on success. It returns s unchanged and
// ok=false if unification or any domain rejected the result, or a non-nil
// err if constraint propagation hit the round limit; the two
// failure modes are kept distinct so a caller building a Stream can turn
// the former into emptyStream and the latter into failStream.
func (s *State) extendChecked(u, v Term) (next *State, ok bool, err error) {
	sub, ok := Unify(u, v, s.subst, s.occursChk)
	if !ok {
		return s, false, nil
	}
	if sub == s.subst {
		// Unify returned the same Subst (e.g. two occurrences of one
		// variable): nothing new to check, nothing changed.
		return s, true, nil
	}
	cs, newSub, ok, err := s.constr.checkAll(sub)
	if err != nil {
		return s, false, err
	}
	if !ok {
		return s, false, nil
	}
	return &State{subst: newSub, constr: cs, alloc: s.alloc, occursChk: s.occursChk, user: s.user}, true, nil
}

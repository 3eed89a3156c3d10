package minikanren

// DomainTag identifies a registered constraint domain within a
// ConstraintStore. The two built-in domains are TagDiseq (CLP(Tree)) and
// TagFD (CLP(FD)). RegisterDomain adds further domains to a store from
// inside this package only: types outside it cannot implement DomainState's
// unexported marker method, and Query registers no domain beyond the two
// built-in ones.
type DomainTag string

const (
	// TagDiseq is the tree-disequality domain's tag.
	TagDiseq DomainTag = "diseq"
	// TagFD is the finite-domain domain's tag.
	TagFD DomainTag = "fd"
)

// DomainState is the opaque, immutable per-domain constraint set a Domain
// implementation keeps inside a ConstraintStore. Each domain defines its
// own concrete type satisfying this marker interface (e.g. *diseqState,
// *fdState) and type-asserts it back out of the DomainState it is handed.
type DomainState interface {
	// domainState is an unexported marker restricting DomainState to
	// per-domain types cooperating with this package's registry.
	domainState()
}

// Binding is a single variable/term pair a Domain.Check wants unified into
// the substitution as a consequence of narrowing its own state — most
// notably a finite domain collapsing to a singleton. It is returned rather than
// applied directly because only ConstraintStore.checkAll can run the
// unification and then re-validate every domain, including the one that
// produced the binding, against the result.
type Binding struct {
	V *Var
	T Term
}

// Domain is the capability set a pluggable constraint domain exposes:
// Empty seeds a fresh store, Check re-validates the domain's constraints
// after any substitution extension, and Reify expresses the residual
// constraint on a variable for the final answer. Posting a new constraint
// is necessarily domain-specific in shape — Diseq(u, v) and Dom(v, d) take
// different arguments — so it is exposed as ordinary Goal constructors in
// diseq.go/fd.go rather than through this interface.
type Domain interface {
	// Tag returns the domain's registry key.
	Tag() DomainTag

	// Empty returns the domain's initial (no constraints posted) state.
	Empty() DomainState

	// Check re-evaluates every constraint in ds against sub after a
	// unification extended it, dropping satisfied constraints, tightening
	// partially-narrowed ones, and returning ok=false if any constraint is
	// now violated. A rejecting domain aborts the whole transition: the
	// caller must not expose the resulting state. forced
	// reports any bindings the narrowing itself entails (e.g. a
	// finite domain left with one value); checkAll unifies each of these
	// into sub and re-runs every domain's Check again before accepting
	// the transition.
	Check(ds DomainState, sub *Subst) (next DomainState, forced []Binding, ok bool)

	// Reify expresses the residual constraint on v, if any, for inclusion
	// in a final Answer. A nil return means the domain has nothing to
	// report for v.
	Reify(v *Var, ds DomainState, sub *Subst) interface{}
}

// ConstraintStore is the small registry mapping domain tag -> domain
// module: domains run in a fixed registration order (tree-disequality
// before finite-domain is sufficient, and is the default)
// so that answers are deterministic regardless of which order a caller
// happens to post constraints in.
type ConstraintStore struct {
	order  []Domain
	states map[DomainTag]DomainState
}

func newConstraintStore() *ConstraintStore {
	cs := &ConstraintStore{states: map[DomainTag]DomainState{}}
	cs.order = append(cs.order, diseqDomain{})
	cs.states[TagDiseq] = diseqDomain{}.Empty()
	cs.order = append(cs.order, fdDomain{})
	cs.states[TagFD] = fdDomain{}.Empty()
	return cs
}

// RegisterDomain returns a new ConstraintStore with d appended to the fixed
// check order, seeded with its empty state. Registering a tag that already
// exists replaces that domain's implementation and resets its state — it
// does not append a duplicate entry to the order.
func (cs *ConstraintStore) RegisterDomain(d Domain) *ConstraintStore {
	next := &ConstraintStore{
		order:  make([]Domain, 0, len(cs.order)+1),
		states: make(map[DomainTag]DomainState, len(cs.states)+1),
	}
	replaced := false
	for _, existing := range cs.order {
		if existing.Tag() == d.Tag() {
			next.order = append(next.order, d)
			replaced = true
		} else {
			next.order = append(next.order, existing)
		}
	}
	if !replaced {
		next.order = append(next.order, d)
	}
	for tag, st := range cs.states {
		next.states[tag] = st
	}
	next.states[d.Tag()] = d.Empty()
	return next
}

// state returns the current DomainState for tag, or nil if unregistered.
func (cs *ConstraintStore) state(tag DomainTag) DomainState {
	return cs.states[tag]
}

// withState returns a copy of cs with tag's state replaced by ds.
func (cs *ConstraintStore) withState(tag DomainTag, ds DomainState) *ConstraintStore {
	next := &ConstraintStore{
		order:  cs.order,
		states: make(map[DomainTag]DomainState, len(cs.states)),
	}
	for k, v := range cs.states {
		next.states[k] = v
	}
	next.states[tag] = ds
	return next
}

// maxCheckRounds caps how many times checkAll will re-run every domain in
// response to forced bindings before concluding the constraint graph is not
// converging and raising a resource-exhaustion error. A singleton
// collapse can itself force a binding that narrows another domain to a
// singleton, so one round is not enough in general, but a propagation chain
// longer than this almost certainly indicates a domain implementation bug
// rather than a legitimate problem.
const maxCheckRounds = 1000

// checkAll runs every registered domain's Check against sub, in
// registration order, applying any forced bindings a domain reports by
// unifying them into the substitution and re-running every domain again,
// until a round produces no further forced bindings. It
// is called by State.extend after every successful unification. ok is
// false if any domain rejected the result, in which case cs/sub are
// returned unchanged and err is nil; err is non-nil only for resource
// exhaustion, which aborts the whole query rather than just this
// branch.
func (cs *ConstraintStore) checkAll(sub *Subst) (next *ConstraintStore, newSub *Subst, ok bool, err error) {
	next = cs
	curSub := sub
	for round := 0; round < maxCheckRounds; round++ {
		var pending []Binding
		changed := false
		for _, d := range next.order {
			ds := next.state(d.Tag())
			newDS, forced, domOK := d.Check(ds, curSub)
			if !domOK {
				return cs, sub, false, nil
			}
			if newDS != ds {
				next = next.withState(d.Tag(), newDS)
				changed = true
			}
			pending = append(pending, forced...)
		}
		if len(pending) == 0 {
			if !changed && curSub == sub {
				return cs, sub, true, nil
			}
			return next, curSub, true, nil
		}
		for _, b := range pending {
			u, unifyOK := Unify(b.V, b.T, curSub, true)
			if !unifyOK {
				return cs, sub, false, nil
			}
			curSub = u
		}
	}
	return nil, nil, false, &ResourceError{Kind: "constraint-propagation-overflow",
		Message: "constraint propagation did not converge within the round limit"}
}

// reifyAll collects the residual constraint each registered domain reports
// for v, skipping domains with nothing to say, keyed by domain tag.
func (cs *ConstraintStore) reifyAll(v *Var, sub *Subst) map[DomainTag]interface{} {
	out := map[DomainTag]interface{}{}
	for _, d := range cs.order {
		ds := cs.state(d.Tag())
		if r := d.Reify(v, ds, sub); r != nil {
			out[d.Tag()] = r
		}
	}
	return out
}

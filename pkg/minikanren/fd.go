package minikanren

import (
	"context"
	"sort"
)

// intRange is one inclusive [lo, hi] range of a finite integer domain.
type intRange struct {
	lo, hi int64
}

// IntDomain is a finite integer domain represented as a sorted union of
// disjoint, non-adjacent inclusive ranges: "a finite sorted set
// of allowed values, represented as a union of inclusive ranges." Every
// constructor and operation below maintains that normal form, which is
// what makes Singleton/IsEmpty/Min/Max O(1) and Intersect/RemoveValue linear
// in the number of ranges rather than the number of values.
type IntDomain struct {
	ranges []intRange
}

// NewIntDomain builds a domain from individual values, normalizing them
// into the sorted-ranges representation.
func NewIntDomain(values ...int64) IntDomain {
	if len(values) == 0 {
		return IntDomain{}
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var ranges []intRange
	cur := intRange{lo: sorted[0], hi: sorted[0]}
	for _, v := range sorted[1:] {
		if v == cur.hi || v == cur.hi+1 {
			if v > cur.hi {
				cur.hi = v
			}
			continue
		}
		ranges = append(ranges, cur)
		cur = intRange{lo: v, hi: v}
	}
	ranges = append(ranges, cur)
	return IntDomain{ranges: ranges}
}

// IntervalDomain builds a domain spanning a single inclusive range
// [lo, hi], the common case for dom(v, lo..hi).
func IntervalDomain(lo, hi int64) IntDomain {
	if lo > hi {
		return IntDomain{}
	}
	return IntDomain{ranges: []intRange{{lo: lo, hi: hi}}}
}

// IsEmpty reports whether the domain admits no values.
func (d IntDomain) IsEmpty() bool { return len(d.ranges) == 0 }

// Singleton reports whether the domain admits exactly one value, returning
// it when true — the trigger for forcing v to unify with that integer.
func (d IntDomain) Singleton() (int64, bool) {
	if len(d.ranges) == 1 && d.ranges[0].lo == d.ranges[0].hi {
		return d.ranges[0].lo, true
	}
	return 0, false
}

// Min and Max return the domain's smallest/largest admitted value; callers
// must not invoke them on an empty domain.
func (d IntDomain) Min() int64 { return d.ranges[0].lo }
func (d IntDomain) Max() int64 { return d.ranges[len(d.ranges)-1].hi }

// Contains reports whether v is admitted by the domain.
func (d IntDomain) Contains(v int64) bool {
	i := sort.Search(len(d.ranges), func(i int) bool { return d.ranges[i].hi >= v })
	return i < len(d.ranges) && d.ranges[i].lo <= v
}

// Intersect returns the domain admitting exactly the values both d and o
// admit.
func (d IntDomain) Intersect(o IntDomain) IntDomain {
	var out []intRange
	i, j := 0, 0
	for i < len(d.ranges) && j < len(o.ranges) {
		a, b := d.ranges[i], o.ranges[j]
		lo := a.lo
		if b.lo > lo {
			lo = b.lo
		}
		hi := a.hi
		if b.hi < hi {
			hi = b.hi
		}
		if lo <= hi {
			out = append(out, intRange{lo: lo, hi: hi})
		}
		if a.hi < b.hi {
			i++
		} else {
			j++
		}
	}
	return IntDomain{ranges: out}
}

// RemoveValue returns the domain with exactly v removed, splitting a range
// if v falls strictly inside it.
func (d IntDomain) RemoveValue(v int64) IntDomain {
	var out []intRange
	for _, r := range d.ranges {
		if v < r.lo || v > r.hi {
			out = append(out, r)
			continue
		}
		if r.lo == r.hi {
			continue
		}
		if v == r.lo {
			out = append(out, intRange{lo: r.lo + 1, hi: r.hi})
		} else if v == r.hi {
			out = append(out, intRange{lo: r.lo, hi: r.hi - 1})
		} else {
			out = append(out, intRange{lo: r.lo, hi: v - 1}, intRange{lo: v + 1, hi: r.hi})
		}
	}
	return IntDomain{ranges: out}
}

// RemoveBelow and RemoveAbove clamp the domain to >= lo / <= hi,
// respectively — the bounds-consistency operations lt_fd needs.
func (d IntDomain) RemoveBelow(lo int64) IntDomain { return d.Intersect(IntervalDomain(lo, d.Max())) }
func (d IntDomain) RemoveAbove(hi int64) IntDomain { return d.Intersect(IntervalDomain(d.Min(), hi)) }

// Values enumerates every admitted value; used by fdDomain.Reify to report
// a residual domain, by tests and by the small demonstration programs,
// never by propagation itself, so there is no concern about domains so
// large this would be impractical in that path.
func (d IntDomain) Values() []int64 {
	var out []int64
	for _, r := range d.ranges {
		for v := r.lo; v <= r.hi; v++ {
			out = append(out, v)
		}
	}
	return out
}

func (d IntDomain) equal(o IntDomain) bool {
	if len(d.ranges) != len(o.ranges) {
		return false
	}
	for i := range d.ranges {
		if d.ranges[i] != o.ranges[i] {
			return false
		}
	}
	return true
}

// propagator is one posted finite-domain constraint, re-checked to
// fixpoint whenever a domain it touches narrows. narrow returns the tightened domains for each of vars (in
// the same order), or ok=false if propagation proved the constraint
// unsatisfiable. This engine does not implement the worklist as a literal
// queue of awakened propagators; fdDomain.Check's round loop re-runs every
// propagator every round instead, which is simpler and, since finite
// domains only ever shrink, reaches the identical fixpoint — just with
// more (still bounded, spec-irrelevant) redundant work than a real
// worklist scheduler.
type propagator struct {
	vars []*Var
	// narrow computes tightened domains for vars given the live
	// substitution (so a variable bound by plain Eq since this propagator
	// was posted is seen as ground) and their current domains (same order
	// as vars). ok is false if propagation proved the constraint
	// unsatisfiable.
	narrow func(sub *Subst, doms []IntDomain) (narrowed []IntDomain, ok bool)
}

// fdState is the finite-domain domain's per-branch state: each constrained
// variable's current domain, plus every propagator posted so far.
type fdState struct {
	domains     map[int64]IntDomain
	propagators []propagator
}

func (*fdState) domainState() {}

func (s *fdState) domainOf(v *Var) (IntDomain, bool) {
	d, ok := s.domains[v.id]
	return d, ok
}

func (s *fdState) withDomain(v *Var, d IntDomain) *fdState {
	next := &fdState{
		domains:     make(map[int64]IntDomain, len(s.domains)+1),
		propagators: s.propagators,
	}
	for k, v := range s.domains {
		next.domains[k] = v
	}
	next.domains[v.id] = d
	return next
}

func (s *fdState) withPropagator(p propagator) *fdState {
	return &fdState{
		domains:     s.domains,
		propagators: append(append([]propagator{}, s.propagators...), p),
	}
}

// fdDomain implements Domain for CLP(FD). Check's consistency
// level is bounds/domain arc-consistency: every propagator narrows its
// variables' domains as far as the domain representation lets it without
// itself searching: no search happens inside the propagators, search is
// the engine's job.
type fdDomain struct{}

func (fdDomain) Tag() DomainTag { return TagFD }

func (fdDomain) Empty() DomainState {
	return &fdState{domains: map[int64]IntDomain{}}
}

func (fdDomain) Check(ds DomainState, sub *Subst) (DomainState, []Binding, bool) {
	st := ds.(*fdState)
	cur := st
	var forced []Binding
	for round := 0; round < maxCheckRounds; round++ {
		changed := false
		for _, p := range cur.propagators {
			doms := make([]IntDomain, len(p.vars))
			known := make([]bool, len(p.vars))
			for i, v := range p.vars {
				d, ok := cur.domainOf(v)
				doms[i] = d
				known[i] = ok
			}
			narrowed, ok := p.narrow(sub, doms)
			if !ok {
				return ds, nil, false
			}
			for i, nd := range narrowed {
				if !known[i] && nd.IsEmpty() {
					// The propagator left an unconstrained variable unconstrained.
					continue
				}
				if !known[i] || !nd.equal(doms[i]) {
					if nd.IsEmpty() {
						return ds, nil, false
					}
					cur = cur.withDomain(p.vars[i], nd)
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	// A domain-constrained variable bound to anything other than an integer
	// its domain admits violates that domain.
	for id, d := range cur.domains {
		w := sub.Walk(&Var{id: id})
		if _, isVar := w.(*Var); isVar {
			continue
		}
		if a, isAtom := w.(*Atom); isAtom {
			if m, isInt := a.IsInt(); isInt && d.Contains(m) {
				continue
			}
		}
		return ds, nil, false
	}
	for id, d := range cur.domains {
		n, ok := d.Singleton()
		if !ok {
			continue
		}
		// Skip a singleton already reflected in sub: without this, a
		// variable that collapsed to a singleton in an earlier round (and
		// whose binding checkAll already applied) would be force-reported
		// again every subsequent round, since nothing here clears its
		// domain entry once bound, and checkAll would never see an empty
		// pending set to stop on.
		if bound, found := sub.lookup(&Var{id: id}); found {
			if a, isAtom := bound.(*Atom); isAtom {
				if m, isInt := a.IsInt(); isInt && m == n {
					continue
				}
			}
		}
		forced = append(forced, Binding{V: &Var{id: id}, T: NewInt(n)})
	}
	if len(forced) == 0 && cur == st {
		return ds, nil, true
	}
	return cur, forced, true
}

func (fdDomain) Reify(v *Var, ds DomainState, sub *Subst) interface{} {
	st := ds.(*fdState)
	d, ok := st.domainOf(v)
	if !ok {
		return nil
	}
	if _, isSingleton := d.Singleton(); isSingleton {
		return nil
	}
	return d.Values()
}

// intArg walks t and requires it to be either an already-ground integer
// atom or a variable; anything else (a symbol, a pair, a compound) is a
// usage error: finite-domain operations are only meaningful over
// integers.
func intArg(sub *Subst, t Term) (Term, error) {
	w := sub.Walk(t)
	if a, ok := w.(*Atom); ok {
		if _, ok := a.IsInt(); !ok {
			return nil, newUsageError(ErrNonIntegerFD, "finite-domain argument %s is not an integer", w.String())
		}
		return w, nil
	}
	if _, ok := w.(*Var); ok {
		return w, nil
	}
	return nil, newUsageError(ErrNonIntegerFD, "finite-domain argument %s is not an integer or variable", w.String())
}

// Dom intersects v's domain with d: "intersect v's domain with
// D; if empty, reject; if singleton, unify v with that integer." The
// singleton collapse itself is handled uniformly by fdDomain.Check via its
// forced-binding report, not here.
func Dom(v Term, d IntDomain) Goal {
	return func(ctx context.Context, s *State) Stream {
		arg, err := intArg(s.subst, v)
		if err != nil {
			return failStream(err)
		}
		va, isVar := arg.(*Var)
		if !isVar {
			n, _ := arg.(*Atom).IsInt()
			if d.Contains(n) {
				return unitStream(s)
			}
			return emptyStream()
		}
		st := s.constr.state(TagFD).(*fdState)
		existing, has := st.domainOf(va)
		merged := d
		if has {
			merged = existing.Intersect(d)
		}
		if merged.IsEmpty() {
			return emptyStream()
		}
		next, newSub, ok, propErr := s.constr.withState(TagFD, st.withDomain(va, merged)).checkAll(s.subst)
		if propErr != nil {
			return failStream(propErr)
		}
		if !ok {
			return emptyStream()
		}
		return unitStream(&State{subst: newSub, constr: next, alloc: s.alloc, occursChk: s.occursChk, user: s.user})
	}
}

// postPropagator registers p and immediately runs Check to a fixpoint
// against the current substitution, exactly as if p had been present when
// the most recent unification happened.
func postPropagator(s *State, p propagator) Stream {
	st := s.constr.state(TagFD).(*fdState)
	withP := st.withPropagator(p)
	next, newSub, ok, err := s.constr.withState(TagFD, withP).checkAll(s.subst)
	if err != nil {
		return failStream(err)
	}
	if !ok {
		return emptyStream()
	}
	return unitStream(&State{subst: newSub, constr: next, alloc: s.alloc, occursChk: s.occursChk, user: s.user})
}

// NeqFD posts a finite-domain disequality propagator: u and v, once both
// resolve to ground integers, must differ; while either stays a domain
// variable, it narrows the other's domain by removing the now-ground
// value, same as a CLP(FD) implementation's elimination rule.
func NeqFD(u, v Term) Goal {
	return func(ctx context.Context, s *State) Stream {
		if _, err := intArg(s.subst, u); err != nil {
			return failStream(err)
		}
		if _, err := intArg(s.subst, v); err != nil {
			return failStream(err)
		}
		vars := collectFDVars(s.subst, u, v)
		p := propagator{
			vars: vars,
			narrow: func(sub *Subst, doms []IntDomain) ([]IntDomain, bool) {
				return neqNarrow(sub, vars, u, v, doms)
			},
		}
		return postPropagator(s, p)
	}
}

// LtFD posts x < y as a bounds-consistency propagator: y's domain loses
// every value <= x's minimum, x's domain loses every value >= y's maximum.
func LtFD(x, y Term) Goal {
	return func(ctx context.Context, s *State) Stream {
		if _, err := intArg(s.subst, x); err != nil {
			return failStream(err)
		}
		if _, err := intArg(s.subst, y); err != nil {
			return failStream(err)
		}
		vars := collectFDVars(s.subst, x, y)
		p := propagator{
			vars: vars,
			narrow: func(sub *Subst, doms []IntDomain) ([]IntDomain, bool) {
				return ltNarrow(sub, vars, x, y, doms)
			},
		}
		return postPropagator(s, p)
	}
}

// PlusFD posts z = x + y as a bounds-consistency propagator over all three
// variables.
func PlusFD(x, y, z Term) Goal {
	return func(ctx context.Context, s *State) Stream {
		for _, t := range []Term{x, y, z} {
			if _, err := intArg(s.subst, t); err != nil {
				return failStream(err)
			}
		}
		vars := collectFDVars(s.subst, x, y, z)
		p := propagator{
			vars: vars,
			narrow: func(sub *Subst, doms []IntDomain) ([]IntDomain, bool) {
				return plusNarrow(sub, vars, x, y, z, doms)
			},
		}
		return postPropagator(s, p)
	}
}

// TimesFD posts z = x * y as a bounds-consistency propagator over all
// three variables.
func TimesFD(x, y, z Term) Goal {
	return func(ctx context.Context, s *State) Stream {
		for _, t := range []Term{x, y, z} {
			if _, err := intArg(s.subst, t); err != nil {
				return failStream(err)
			}
		}
		vars := collectFDVars(s.subst, x, y, z)
		p := propagator{
			vars: vars,
			narrow: func(sub *Subst, doms []IntDomain) ([]IntDomain, bool) {
				return timesNarrow(sub, vars, x, y, z, doms)
			},
		}
		return postPropagator(s, p)
	}
}

// collectFDVars returns the distinct unbound variables among terms, in
// order, deduplicated by id — the propagator's dependency set.
func collectFDVars(sub *Subst, terms ...Term) []*Var {
	seen := map[int64]bool{}
	var out []*Var
	for _, t := range terms {
		if v, ok := sub.Walk(t).(*Var); ok && !seen[v.id] {
			seen[v.id] = true
			out = append(out, v)
		}
	}
	return out
}

// domainFor resolves t's effective domain: a singleton domain if t walks
// to a ground integer, or the matching entry of doms if t walks to one of
// vars and that entry is non-empty. ok is false otherwise (an
// unconstrained variable, including one of vars with no domain yet).
func domainFor(sub *Subst, t Term, vars []*Var, doms []IntDomain) (IntDomain, bool) {
	w := sub.Walk(t)
	if a, ok := w.(*Atom); ok {
		if n, ok := a.IsInt(); ok {
			return NewIntDomain(n), true
		}
	}
	if v, ok := w.(*Var); ok {
		for i, pv := range vars {
			if pv.id == v.id {
				return doms[i], !doms[i].IsEmpty()
			}
		}
	}
	return IntDomain{}, false
}

func neqNarrow(sub *Subst, vars []*Var, u, v Term, doms []IntDomain) ([]IntDomain, bool) {
	ud, uKnown := domainFor(sub, u, vars, doms)
	vd, vKnown := domainFor(sub, v, vars, doms)
	out := make([]IntDomain, len(vars))
	for i := range vars {
		out[i] = doms[i]
	}
	if uKnown && vKnown {
		if n, ok := ud.Singleton(); ok {
			if m, ok := vd.Singleton(); ok && n == m {
				return nil, false
			}
			setDomainFor(sub, v, vars, out, vd.RemoveValue(n))
		}
		if n, ok := vd.Singleton(); ok {
			setDomainFor(sub, u, vars, out, ud.RemoveValue(n))
		}
	}
	return out, true
}

func setDomainFor(sub *Subst, t Term, vars []*Var, out []IntDomain, d IntDomain) {
	w := sub.Walk(t)
	v, ok := w.(*Var)
	if !ok {
		return
	}
	for i, pv := range vars {
		if pv.id == v.id {
			out[i] = d
			return
		}
	}
}

func ltNarrow(sub *Subst, vars []*Var, x, y Term, doms []IntDomain) ([]IntDomain, bool) {
	xd, xKnown := domainFor(sub, x, vars, doms)
	yd, yKnown := domainFor(sub, y, vars, doms)
	out := make([]IntDomain, len(vars))
	for i := range vars {
		out[i] = doms[i]
	}
	if xKnown && !xd.IsEmpty() && yKnown && !yd.IsEmpty() {
		if xd.Min() >= yd.Max() {
			return nil, false
		}
		setDomainFor(sub, y, vars, out, yd.RemoveBelow(xd.Min()+1))
		setDomainFor(sub, x, vars, out, xd.RemoveAbove(yd.Max()-1))
	}
	return out, true
}

func plusNarrow(sub *Subst, vars []*Var, x, y, z Term, doms []IntDomain) ([]IntDomain, bool) {
	xd, xKnown := domainFor(sub, x, vars, doms)
	yd, yKnown := domainFor(sub, y, vars, doms)
	zd, zKnown := domainFor(sub, z, vars, doms)
	out := make([]IntDomain, len(vars))
	for i := range vars {
		out[i] = doms[i]
	}
	if xKnown && yKnown {
		if xd.IsEmpty() || yd.IsEmpty() {
			return nil, false
		}
		zBound := IntervalDomain(xd.Min()+yd.Min(), xd.Max()+yd.Max())
		if zKnown {
			zBound = zd.Intersect(zBound)
		}
		if zBound.IsEmpty() {
			return nil, false
		}
		setDomainFor(sub, z, vars, out, zBound)
		zKnown, zd = true, zBound
	}
	if zKnown && yKnown {
		if zd.IsEmpty() || yd.IsEmpty() {
			return nil, false
		}
		xBound := IntervalDomain(zd.Min()-yd.Max(), zd.Max()-yd.Min())
		if xKnown {
			xBound = xd.Intersect(xBound)
		}
		if xBound.IsEmpty() {
			return nil, false
		}
		setDomainFor(sub, x, vars, out, xBound)
	}
	if zKnown && xKnown {
		if zd.IsEmpty() || xd.IsEmpty() {
			return nil, false
		}
		yBound := IntervalDomain(zd.Min()-xd.Max(), zd.Max()-xd.Min())
		if yKnown {
			yBound = yd.Intersect(yBound)
		}
		if yBound.IsEmpty() {
			return nil, false
		}
		setDomainFor(sub, y, vars, out, yBound)
	}
	return out, true
}

func timesNarrow(sub *Subst, vars []*Var, x, y, z Term, doms []IntDomain) ([]IntDomain, bool) {
	xd, xKnown := domainFor(sub, x, vars, doms)
	yd, yKnown := domainFor(sub, y, vars, doms)
	zd, zKnown := domainFor(sub, z, vars, doms)
	out := make([]IntDomain, len(vars))
	for i := range vars {
		out[i] = doms[i]
	}
	if xKnown && yKnown {
		if xd.IsEmpty() || yd.IsEmpty() {
			return nil, false
		}
		corners := []int64{xd.Min() * yd.Min(), xd.Min() * yd.Max(), xd.Max() * yd.Min(), xd.Max() * yd.Max()}
		lo, hi := corners[0], corners[0]
		for _, c := range corners[1:] {
			if c < lo {
				lo = c
			}
			if c > hi {
				hi = c
			}
		}
		zBound := IntervalDomain(lo, hi)
		if zKnown {
			zBound = zd.Intersect(zBound)
		}
		if zBound.IsEmpty() {
			return nil, false
		}
		setDomainFor(sub, z, vars, out, zBound)
	}
	return out, true
}

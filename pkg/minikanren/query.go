package minikanren

import (
	"context"

	"github.com/hashicorp/go-hclog"
	set "github.com/hashicorp/go-set/v3"
)

// Answer is one reified result of a query: for every query variable, its
// walk*-resolved term (a ground tree, possibly containing opaque
// placeholder variables for positions left unbound) plus, for every
// placeholder appearing anywhere in Values — whether it is a query
// variable left unbound at the top level or one nested inside a bound
// Pair/Compound — any residual constraint each registered domain reports
// on it, keyed by that placeholder's printed name (e.g. "_.0").
type Answer struct {
	Values      map[string]Term
	Constraints map[string]map[DomainTag]interface{}
}

// Placeholder is the term an unbound variable reifies to: a stable, opaque
// name assigned in left-to-right discovery order across the whole answer,
// independent of the variable's internal id or which search
// path produced the answer.
type Placeholder struct {
	index int
}

func (p *Placeholder) term() {}

// IsVar reports false: a Placeholder is a reified stand-in for an unbound
// variable, not itself something further unification could touch.
func (p *Placeholder) IsVar() bool { return false }

func (p *Placeholder) String() string {
	return "_." + itoa(p.index)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// options holds the functional-options configuration for Query.
type options struct {
	strategy    Strategy
	logger      hclog.Logger
	depthLimit  int
	occursCheck bool
}

func defaultOptions() *options {
	return &options{
		strategy:    Interleaving,
		logger:      hclog.NewNullLogger(),
		depthLimit:  0,
		occursCheck: true,
	}
}

// Option configures a Query.
type Option func(*options)

// WithStrategy selects the search strategy.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

// WithLogger attaches a structured logger; if omitted, queries run with a
// no-op logger.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDepthLimit bounds the total number of bind steps and Deferred
// unfoldings a query performs, counted across the whole search, before
// raising a *ResourceError. A limit of 0 (the default) means unbounded.
func WithDepthLimit(n int) Option {
	return func(o *options) { o.depthLimit = n }
}

// WithOccursCheck toggles the occurs check Unify runs on every variable
// binding. It defaults to enabled; disabling it trades
// soundness on self-referential terms for speed, per Unify's own
// documentation.
func WithOccursCheck(enabled bool) Option {
	return func(o *options) { o.occursCheck = enabled }
}

// QueryIter is the terminable iterator a Query returns. Each Next call pulls exactly one more answer, forcing
// only as much of the underlying Stream as necessary. Dropping a QueryIter
// without draining it is always safe and leak-free: nothing it holds is an
// external resource, and nothing continues running in the background.
type QueryIter struct {
	names  []string
	vars   []*Var
	stream Stream
	err    error
	done   bool
}

// Query allocates len(varNames) fresh variables, builds the goal via body,
// evaluates it against a fresh initial state, and returns an iterator over
// reified answers keyed by varNames.
func Query(varNames []string, body func(vars ...Term) Goal, opts ...Option) *QueryIter {
	cfg := defaultOptions()
	for _, o := range opts {
		o(cfg)
	}

	s := InitialState()
	s.occursChk = cfg.occursCheck
	vars := make([]*Var, len(varNames))
	termVars := make([]Term, len(varNames))
	for i, name := range varNames {
		v := s.alloc.fresh(name)
		vars[i] = v
		termVars[i] = v
	}

	goal := body(termVars...)

	ctx := context.Background()
	ctx = withStrategy(ctx, cfg.strategy)
	ctx = withLogger(ctx, cfg.logger)
	if cfg.depthLimit > 0 {
		ctx = withDepthLimit(ctx, cfg.depthLimit)
	}

	cfg.logger.Debug("query starting", "vars", varNames, "strategy", cfg.strategy.String())

	return &QueryIter{
		names:  varNames,
		vars:   vars,
		stream: goal(ctx, s),
	}
}

// Next pulls the next answer, if any. It returns ok=false once the stream
// is exhausted (the normal, error-free end of a query) or once a usage or
// resource error has terminated it (distinguishable via Err).
func (q *QueryIter) Next() (Answer, bool) {
	if q.done {
		return Answer{}, false
	}
	q.stream = force(q.stream)
	if err, ok := q.stream.IsHardFail(); ok {
		q.err = err
		q.done = true
		return Answer{}, false
	}
	if q.stream.kind == streamEmpty {
		q.done = true
		return Answer{}, false
	}
	st := q.stream.state
	q.stream = q.stream.next()
	ans, err := reify(q.names, q.vars, st)
	if err != nil {
		q.err = err
		q.done = true
		return Answer{}, false
	}
	return ans, true
}

// Err returns the usage or resource error that terminated the query, if
// any. It is nil after ordinary exhaustion.
func (q *QueryIter) Err() error { return q.err }

// Close marks the iterator exhausted without forcing any further stream
// suspension: the consumer simply stops pulling.
func (q *QueryIter) Close() {
	q.done = true
	q.stream = emptyStream()
}

// All drains the iterator into a slice, stopping at limit answers (0 means
// unlimited) or at the first error. It exists for tests and small
// demonstrations; an open-ended query should use Next directly so an
// infinite answer stream never hangs the caller.
func (q *QueryIter) All(limit int) ([]Answer, error) {
	var out []Answer
	for limit <= 0 || len(out) < limit {
		ans, ok := q.Next()
		if !ok {
			break
		}
		out = append(out, ans)
	}
	return out, q.Err()
}

// reify resolves every query variable against st, replacing any variable
// still unbound after walk* with a Placeholder named by left-to-right
// discovery order across the whole answer, and attaches each domain's
// residual constraints for every variable that ends up a placeholder —
// including ones nested inside a bound Pair/Compound answer, not just a
// query variable left unbound at the top level.
func reify(names []string, vars []*Var, st *State) (Answer, error) {
	discovered := set.New[int64](0)
	order := map[int64]int{}
	byID := map[int64]*Var{}
	ans := Answer{
		Values:      make(map[string]Term, len(names)),
		Constraints: make(map[string]map[DomainTag]interface{}),
	}
	for i, name := range names {
		walked, err := st.subst.WalkStar(vars[i])
		if err != nil {
			return Answer{}, err
		}
		placed := placeholders(walked, discovered, order, byID)
		ans.Values[name] = placed
	}
	for id, idx := range order {
		v := byID[id]
		if c := st.constr.reifyAll(v, st.subst); len(c) > 0 {
			ans.Constraints[(&Placeholder{index: idx}).String()] = c
		}
	}
	return ans, nil
}

// placeholders recursively replaces every still-unbound *Var in t with a
// *Placeholder, assigning each distinct variable id the next index the
// first time it is encountered while walking term structure left to right.
// byID records the *Var behind each discovered id so callers can look up
// residual constraints for variables nested inside the walked structure,
// not only ones sitting at its top level.
func placeholders(t Term, discovered *set.Set[int64], order map[int64]int, byID map[int64]*Var) Term {
	switch x := t.(type) {
	case *Var:
		idx, ok := order[x.id]
		if !ok {
			idx = discovered.Size()
			order[x.id] = idx
			discovered.Insert(x.id)
			byID[x.id] = x
		}
		return &Placeholder{index: idx}
	case *Pair:
		return NewPair(placeholders(x.head, discovered, order, byID), placeholders(x.tail, discovered, order, byID))
	case *Compound:
		children := make([]Term, len(x.children))
		for i, ch := range x.children {
			children[i] = placeholders(ch, discovered, order, byID)
		}
		return NewCompound(x.ctor, children...)
	default:
		return t
	}
}

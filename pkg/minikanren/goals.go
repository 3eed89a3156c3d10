package minikanren

import "context"

// Goal is a value representing a relation: applied to a State, it yields a
// Stream of States representing every way to satisfy it. Goal
// values are plain functions — composing them is just composing functions —
// which is how Conj/Disj/Conde build larger goals out of smaller ones
// without any separate "program" representation.
type Goal func(ctx context.Context, s *State) Stream

// Succeed is the goal that always succeeds, unchanged, exactly once.
var Succeed Goal = func(ctx context.Context, s *State) Stream {
	return unitStream(s)
}

// Fail is the goal that never succeeds.
var Fail Goal = func(ctx context.Context, s *State) Stream {
	return emptyStream()
}

// Eq creates a unification goal: it constrains u and v to be equal,
// emitting the extended state on success and nothing on failure (spec
// §4.2, §4.6). Unification also triggers every registered constraint
// domain's Check; a domain rejection makes Eq fail exactly as
// if unification itself had failed.
func Eq(u, v Term) Goal {
	return func(ctx context.Context, s *State) Stream {
		if err := ctx.Err(); err != nil {
			return failStream(err)
		}
		next, ok, err := s.extendChecked(u, v)
		if err != nil {
			return failStream(err)
		}
		if !ok {
			return emptyStream()
		}
		return unitStream(next)
	}
}

// FreshN allocates n fresh variables from the State's own allocator when
// the goal actually runs — not when FreshN is called — and evaluates
// body(vars...) against them. Allocating at run time
// rather than at construction time is what lets a recursive relation call
// FreshN once per recursive invocation without every invocation fighting
// over the same variables.
func FreshN(n int, body func(vars ...*Var) Goal) Goal {
	return func(ctx context.Context, s *State) Stream {
		vars := make([]*Var, n)
		for i := range vars {
			vars[i] = s.alloc.fresh("")
		}
		return body(vars...)(ctx, s)
	}
}

// Fresh1/Fresh2/Fresh3 are FreshN convenience wrappers for the overwhelmingly
// common arities, avoiding the variadic-slice dance at call sites.
func Fresh1(body func(a *Var) Goal) Goal {
	return FreshN(1, func(vars ...*Var) Goal { return body(vars[0]) })
}
func Fresh2(body func(a, b *Var) Goal) Goal {
	return FreshN(2, func(vars ...*Var) Goal { return body(vars[0], vars[1]) })
}
func Fresh3(body func(a, b, c *Var) Goal) Goal {
	return FreshN(3, func(vars ...*Var) Goal { return body(vars[0], vars[1], vars[2]) })
}

// Deferred postpones building the underlying goal until the returned goal
// actually runs, wrapping the result in one immature layer. This is mandatory around recursive
// relation definitions: without it, `return Appendo(...)` inside Appendo's
// own body would recurse at construction time and never terminate, instead
// of only recursing once per answer actually pulled. Every unfolding also
// counts against the active query's depth budget (see WithDepthLimit), so
// a relation that recurses without bound under a configured limit raises
// a *ResourceError instead of spinning forever.
//
//	func Appendo(a, b, c Term) Goal {
//		return Disj(
//			Conj(Eq(a, Empty()), Eq(b, c)),
//			Deferred(func() Goal {
//				return Fresh3(func(h, t, t2 *Var) Goal {
//					return Conj(Eq(a, NewPair(h, t)), Eq(c, NewPair(h, t2)), Appendo(t, b, t2))
//				})
//			}),
//		)
//	}
func Deferred(build func() Goal) Goal {
	return func(ctx context.Context, s *State) Stream {
		if err := checkDepth(ctx); err != nil {
			return failStream(err)
		}
		return immatureStream(func() Stream { return build()(ctx, s) })
	}
}

// Disj is the interleaving union of goals: every answer from
// every goal is produced, alternating fairly so no single goal's infinite
// stream starves the others. With zero
// goals it is Fail; with one, it is that goal.
func Disj(goals ...Goal) Goal {
	switch len(goals) {
	case 0:
		return Fail
	case 1:
		return goals[0]
	}
	return func(ctx context.Context, s *State) Stream {
		join := mplusFor(strategyFrom(ctx))
		result := goals[len(goals)-1](ctx, s)
		for i := len(goals) - 2; i >= 0; i-- {
			result = join(goals[i](ctx, s), result)
		}
		return result
	}
}

// Conj is the sequential bind of goals: g1 runs, then g2 runs
// against each of g1's answers, flattened by interleaving, and so on. With
// zero goals it is Succeed; with one, it is that goal.
func Conj(goals ...Goal) Goal {
	switch len(goals) {
	case 0:
		return Succeed
	case 1:
		return goals[0]
	}
	return func(ctx context.Context, s *State) Stream {
		join := mplusFor(strategyFrom(ctx))
		result := goals[0](ctx, s)
		for _, g := range goals[1:] {
			gCopy := g
			result = bind(ctx, result, gCopy, join)
		}
		return result
	}
}

// Conde is a balanced interleaving disjunction of clauses, each clause
// itself an implicit conjunction. Reordering clauses changes
// observable answer order but never which
// answers exist.
//
//	Conde(
//		Conj(Eq(x, NewAtom(1)), Eq(y, NewAtom("a"))),
//		Conj(Eq(x, NewAtom(2)), Eq(y, NewAtom("b"))),
//	)
func Conde(clauses ...Goal) Goal {
	if len(clauses) <= 2 {
		return Disj(clauses...)
	}
	mid := len(clauses) / 2
	return Disj(Conde(clauses[:mid]...), Conde(clauses[mid:]...))
}

// CondClause pairs a head goal with the body goal to run against every
// answer the head produces, once the head is the first clause (in order)
// to produce any answer at all. Used by Conda/Condu.
type CondClause struct {
	Head Goal
	Body Goal
}

// Clause builds a CondClause from a head and a conjunction of body goals.
func Clause(head Goal, body ...Goal) CondClause {
	return CondClause{Head: head, Body: Conj(body...)}
}

// Conda implements Prolog-style soft-cut: it tries each
// clause's Head in order; the first Head that produces at least one answer
// commits — its Body runs against every answer the Head produced, and
// every later clause is abandoned, even if Body itself then fails. If no
// Head ever succeeds, Conda fails.
//
// Evaluating a Head far enough to observe one answer or its exhaustion is
// unavoidable soft-cut semantics; on a Head that is infinite and never
// produces an answer, Conda can suspend indefinitely waiting to decide
// whether to commit — a known sharp edge inherited from the search model,
// not a bug in this implementation.
func Conda(clauses ...CondClause) Goal {
	return func(ctx context.Context, s *State) Stream {
		return condaStep(ctx, clauses, s)
	}
}

func condaStep(ctx context.Context, clauses []CondClause, s *State) Stream {
	if len(clauses) == 0 {
		return emptyStream()
	}
	c := clauses[0]
	head := force(c.Head(ctx, s))
	if err, ok := head.IsHardFail(); ok {
		return failStream(err)
	}
	if head.kind == streamEmpty {
		loggerFrom(ctx).Trace("conda: clause head failed, trying next", "remaining", len(clauses)-1)
		return condaStep(ctx, clauses[1:], s)
	}
	loggerFrom(ctx).Trace("conda: committing to clause", "remaining", len(clauses)-1)
	join := mplusFor(strategyFrom(ctx))
	return bind(ctx, head, c.Body, join)
}

// Condu is Conda with its committing Head additionally restricted to its
// first answer only (as if wrapped in Onceo) before Body runs.
func Condu(clauses ...CondClause) Goal {
	return func(ctx context.Context, s *State) Stream {
		return conduStep(ctx, clauses, s)
	}
}

func conduStep(ctx context.Context, clauses []CondClause, s *State) Stream {
	if len(clauses) == 0 {
		return emptyStream()
	}
	c := clauses[0]
	head := force(c.Head(ctx, s))
	if err, ok := head.IsHardFail(); ok {
		return failStream(err)
	}
	if head.kind == streamEmpty {
		loggerFrom(ctx).Trace("condu: clause head failed, trying next", "remaining", len(clauses)-1)
		return conduStep(ctx, clauses[1:], s)
	}
	loggerFrom(ctx).Trace("condu: committing to clause", "remaining", len(clauses)-1)
	return c.Body(ctx, head.state)
}

// Onceo prunes g's stream to at most its first answer.
func Onceo(g Goal) Goal {
	return func(ctx context.Context, s *State) Stream {
		head := force(g(ctx, s))
		if err, ok := head.IsHardFail(); ok {
			return head
		}
		if head.kind == streamEmpty {
			return head
		}
		return unitStream(head.state)
	}
}

// Anyo retries g forever, interleaving each retry's answers with the next:
// Anyo(g) = Disj(g, Deferred(func() Goal { return Anyo(g) })). When g can
// succeed, a bounded consumer (e.g. QueryIter.All(3)) only ever forces as
// many retries as it takes to produce the answers it asked for.
//
// Anyo(Fail) is the classic divergent case: since g never succeeds, there
// is no point at which the search can conclude no answer exists, and an
// unbounded consumer spins forever retrying. Run it under WithDepthLimit
// to turn that spin into a *ResourceError instead of a hang — the shared
// Deferred recursion Anyo retries through is exactly what the depth
// counter guards.
func Anyo(g Goal) Goal {
	return Disj(g, Deferred(func() Goal { return Anyo(g) }))
}

// Project forces WalkStar on each of vars and passes the resolved terms
// (which may still contain unbound variables) to body, which returns the
// goal to run next. Use ProjectGround when body requires every
// variable to be fully ground.
func Project(vars []Term, body func(vals []Term) Goal) Goal {
	return func(ctx context.Context, s *State) Stream {
		vals, err := walkAll(s, vars)
		if err != nil {
			return failStream(err)
		}
		return body(vals)(ctx, s)
	}
}

// ProjectGround is Project with a mandatory groundness check: if any
// variable resolves to a term still containing an unbound variable, it
// fails the whole query with a *multierror.Error holding one *UsageError
// (ErrProjectionNotGround) per non-ground position.
func ProjectGround(vars []Term, body func(vals []Term) Goal) Goal {
	return func(ctx context.Context, s *State) Stream {
		vals, err := walkAll(s, vars)
		if err != nil {
			return failStream(err)
		}
		var violations []error
		for i, v := range vals {
			if !isGround(v) {
				violations = append(violations, newUsageError(ErrProjectionNotGround,
					"project: term at position %d (%s) is not fully ground", i, vars[i].String()))
			}
		}
		if agg := aggregateErrors(violations...); agg != nil {
			return failStream(agg)
		}
		return body(vals)(ctx, s)
	}
}

func walkAll(s *State, terms []Term) ([]Term, error) {
	out := make([]Term, len(terms))
	for i, t := range terms {
		w, err := s.subst.WalkStar(t)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func isGround(t Term) bool {
	switch x := t.(type) {
	case *Var:
		return false
	case *Pair:
		return isGround(x.head) && isGround(x.tail)
	case *Compound:
		for _, ch := range x.children {
			if !isGround(ch) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

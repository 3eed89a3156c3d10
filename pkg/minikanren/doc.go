// Package minikanren implements a miniKanren-family relational logic
// programming engine embedded as a Go library.
//
// The package provides the term representation, unification engine,
// substitution and constraint store, goal combinators, and search
// strategies needed to enumerate answers to a logic query under equality,
// disequality, and finite-domain constraints. It does not provide a surface
// syntax: goals are built directly with the combinators in this package
// (Eq, FreshN, Conj, Disj, Conde,...), the same way core.logic or
// faster-minikanren expose a host-language DSL.
//
// # Search model
//
// Evaluating a Goal against a State produces a Stream, a lazily-forced
// sequence of States. Streams are single-threaded and synchronous: forcing
// an immature stream runs exactly as far as the next mature answer or
// exhaustion, never spawning a goroutine. This is a deliberate choice — see
// Stream's doc comment — not an oversight; callers needing concurrent
// evaluation of independent queries should run separate Query values on
// separate goroutines themselves.
//
// # Basic usage
//
//	answers, err := minikanren.Query([]string{"q"}, func(vars ...minikanren.Term) minikanren.Goal {
//		q := vars[0]
//		return minikanren.Disj(
//			minikanren.Eq(q, minikanren.NewInt(1)),
//			minikanren.Eq(q, minikanren.NewInt(2)),
//		)
//	}).All(0)
//
// yields two answers, q=1 and q=2, in that order.
package minikanren

package minikanren

import "context"

// PatternClause pairs a pattern (built from a fresh set of pattern
// variables) with the body goal to run once that pattern unifies with a
// scrutinee. build receives the clause's own freshly-allocated variables so
// pattern and body can share them.
type PatternClause struct {
	arity int
	build func(vars ...*Var) (pattern Term, body Goal)
}

// NewClause builds a PatternClause needing arity fresh pattern variables.
func NewClause(arity int, build func(vars ...*Var) (pattern Term, body Goal)) PatternClause {
	return PatternClause{arity: arity, build: build}
}

func (c PatternClause) freshVars(s *State) []*Var {
	vars := make([]*Var, c.arity)
	for i := range vars {
		vars[i] = s.alloc.fresh("")
	}
	return vars
}

// Matche compiles to Conde over every clause: every clause whose
// pattern unifies with scrutinee contributes its body's answers,
// interleaved fairly with the rest, exactly like any other Conde.
func Matche(scrutinee Term, clauses ...PatternClause) Goal {
	return func(ctx context.Context, s *State) Stream {
		goals := make([]Goal, len(clauses))
		for i, c := range clauses {
			vars := c.freshVars(s)
			pattern, body := c.build(vars...)
			goals[i] = Conj(Eq(scrutinee, pattern), body)
		}
		return Conde(goals...)(ctx, s)
	}
}

// Matcha compiles to Conda: the first clause whose pattern
// unifies with scrutinee commits, abandoning the rest even if its body
// then fails.
func Matcha(scrutinee Term, clauses ...PatternClause) Goal {
	return func(ctx context.Context, s *State) Stream {
		return condaStep(ctx, matchClauses(scrutinee, clauses, s), s)
	}
}

// Matchu compiles to Condu: like Matcha, but the committing
// clause's pattern match is itself restricted to a single answer before
// its body runs.
func Matchu(scrutinee Term, clauses ...PatternClause) Goal {
	return func(ctx context.Context, s *State) Stream {
		return conduStep(ctx, matchClauses(scrutinee, clauses, s), s)
	}
}

func matchClauses(scrutinee Term, clauses []PatternClause, s *State) []CondClause {
	out := make([]CondClause, len(clauses))
	for i, c := range clauses {
		vars := c.freshVars(s)
		pattern, body := c.build(vars...)
		out[i] = CondClause{Head: Eq(scrutinee, pattern), Body: body}
	}
	return out
}

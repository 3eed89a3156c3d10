package minikanren

import "testing"

func TestMatcheDispatchesOnShape(t *testing.T) {
	iter := Query([]string{"r"}, func(qvars ...Term) Goal {
		r := qvars[0]
		scrutinee := List(nil, NewInt(1), NewInt(2))
		return Matche(scrutinee,
			NewClause(0, func(vs ...*Var) (Term, Goal) {
				return Empty(), Eq(r, NewInt(0))
			}),
			NewClause(2, func(vs ...*Var) (Term, Goal) {
				h, t := vs[0], vs[1]
				return NewPair(h, t), Eq(r, h)
			}),
		)
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || ans.Values["r"].String() != "1" {
		t.Fatalf("expected the pair clause to match with r=1, got ok=%v val=%v", ok, ans.Values["r"])
	}
}

func TestMatchaCommitsToFirstMatchingClause(t *testing.T) {
	iter := Query([]string{"r"}, func(qvars ...Term) Goal {
		r := qvars[0]
		scrutinee := NewInt(5)
		return Matcha(scrutinee,
			NewClause(1, func(vs ...*Var) (Term, Goal) {
				return vs[0], Eq(r, NewInt(1))
			}),
			NewClause(1, func(vs ...*Var) (Term, Goal) {
				return vs[0], Eq(r, NewInt(2))
			}),
		)
	})
	answers, err := iter.All(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 1 || answers[0].Values["r"].String() != "1" {
		t.Fatalf("matcha should commit to the first clause only, got %v", answers)
	}
}

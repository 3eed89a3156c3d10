package minikanren

import (
	"context"
	"testing"
)

func runGoal(g Goal, s *State) []*State {
	ctx := withStrategy(context.Background(), Interleaving)
	out, err := g(ctx, s).ToSlice(0)
	if err != nil {
		panic(err)
	}
	return out
}

func TestEqUnifiesAndFails(t *testing.T) {
	s := InitialState()
	v := s.alloc.fresh("x")

	ctx := context.Background()
	out := force(Eq(v, NewInt(1))(ctx, s))
	if out.kind != streamMature {
		t.Fatalf("Eq of a fresh var to an atom should succeed, got kind %v", out.kind)
	}

	out2 := force(Eq(NewInt(1), NewInt(2))(ctx, s))
	if out2.kind != streamEmpty {
		t.Fatalf("Eq of two distinct atoms should fail")
	}
}

func TestConjSequencesBindings(t *testing.T) {
	s := InitialState()
	x := s.alloc.fresh("x")
	y := s.alloc.fresh("y")

	g := Conj(Eq(x, NewInt(1)), Eq(y, NewInt(2)))
	states := runGoal(g, s)
	if len(states) != 1 {
		t.Fatalf("expected exactly one answer, got %d", len(states))
	}

	xv, err := states[0].subst.WalkStar(x)
	if err != nil || xv.(*Atom).String() != "1" {
		t.Errorf("x should resolve to 1, got %v, err %v", xv, err)
	}
}

func TestDisjProducesEachAlternative(t *testing.T) {
	s := InitialState()
	q := s.alloc.fresh("q")

	g := Disj(Eq(q, NewInt(1)), Eq(q, NewInt(2)), Eq(q, NewInt(3)))
	states := runGoal(g, s)
	if len(states) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(states))
	}
}

func TestCondaCommitsToFirstSucceedingHead(t *testing.T) {
	s := InitialState()
	q := s.alloc.fresh("q")

	g := Conda(
		Clause(Eq(q, NewInt(1)), Eq(q, NewInt(1))),
		Clause(Succeed, Eq(q, NewInt(99))),
	)
	states := runGoal(g, s)
	if len(states) != 1 {
		t.Fatalf("expected 1 answer from conda, got %d", len(states))
	}
}

func TestOnceoLimitsToOneAnswer(t *testing.T) {
	s := InitialState()
	q := s.alloc.fresh("q")

	g := Onceo(Disj(Eq(q, NewInt(1)), Eq(q, NewInt(2))))
	states := runGoal(g, s)
	if len(states) != 1 {
		t.Fatalf("onceo should limit to exactly one answer, got %d", len(states))
	}
}

func TestCondaRunsBodyAgainstEveryHeadAnswer(t *testing.T) {
	s := InitialState()
	q := s.alloc.fresh("q")

	g := Conda(Clause(Disj(Eq(q, NewInt(1)), Eq(q, NewInt(2))), Succeed))
	states := runGoal(g, s)
	if len(states) != 2 {
		t.Fatalf("conda should run the committed clause's body against every head answer, got %d", len(states))
	}
}

func TestConduCommitsToOnlyFirstHeadAnswer(t *testing.T) {
	s := InitialState()
	q := s.alloc.fresh("q")

	g := Condu(Clause(Disj(Eq(q, NewInt(1)), Eq(q, NewInt(2))), Succeed))
	states := runGoal(g, s)
	if len(states) != 1 {
		t.Fatalf("condu should restrict the committed clause's head to its first answer only, got %d", len(states))
	}
	qv, err := states[0].subst.WalkStar(q)
	if err != nil || qv.(*Atom).String() != "1" {
		t.Errorf("q should resolve to the head's first answer 1, got %v, err %v", qv, err)
	}
}

func TestConduFallsThroughToNextClauseOnHeadFailure(t *testing.T) {
	s := InitialState()
	q := s.alloc.fresh("q")

	g := Condu(
		Clause(Fail, Eq(q, NewInt(1))),
		Clause(Succeed, Eq(q, NewInt(99))),
	)
	states := runGoal(g, s)
	if len(states) != 1 {
		t.Fatalf("condu should fall through a failing head to the next clause, got %d", len(states))
	}
	qv, err := states[0].subst.WalkStar(q)
	if err != nil || qv.(*Atom).String() != "99" {
		t.Errorf("q should resolve to 99 from the second clause, got %v, err %v", qv, err)
	}
}

func TestAnyoBoundedConsumerStopsWithoutDrainingInfiniteRetries(t *testing.T) {
	iter := Query([]string{"q"}, func(vars ...Term) Goal {
		return Conj(Eq(vars[0], NewInt(1)), Anyo(Succeed))
	})
	answers, err := iter.All(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("expected exactly the 3 answers asked for, got %d", len(answers))
	}
	for i, a := range answers {
		if a.Values["q"].String() != "1" {
			t.Errorf("answer %d: q should stay 1 across every retry, got %s", i, a.Values["q"].String())
		}
	}
}

func TestAnyoFailTerminatesUnderDepthLimit(t *testing.T) {
	iter := Query([]string{"q"}, func(vars ...Term) Goal {
		return Anyo(Fail)
	}, WithDepthLimit(50))
	_, err := iter.All(3)
	if err == nil {
		t.Fatal("expected a resource error bounding Anyo(Fail)'s unconditional retry")
	}
	if _, ok := err.(*ResourceError); !ok {
		t.Errorf("expected *ResourceError, got %T: %v", err, err)
	}
}

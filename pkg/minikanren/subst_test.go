package minikanren

import "testing"

func TestUnifyOccursCheckRejectsCycle(t *testing.T) {
	s := InitialState()
	v := s.alloc.fresh("v")

	_, ok := Unify(v, NewPair(v, Empty()), emptySubst(), true)
	if ok {
		t.Fatal("occurs check should reject binding v to a term containing v")
	}
}

func TestUnifyWithoutOccursCheckAllowsCycleButWalkStarDetectsIt(t *testing.T) {
	s := InitialState()
	v := s.alloc.fresh("v")

	sub, ok := Unify(v, NewPair(v, Empty()), emptySubst(), false)
	if !ok {
		t.Fatal("with occurs check disabled, the cyclic binding should be accepted")
	}

	_, err := sub.WalkStar(v)
	if err == nil {
		t.Fatal("WalkStar should detect the cycle and return an error")
	}
	if _, isResource := err.(*ResourceError); !isResource {
		t.Errorf("expected *ResourceError, got %T", err)
	}
}

func TestWalkStarResolvesNestedBindings(t *testing.T) {
	s := InitialState()
	x := s.alloc.fresh("x")
	y := s.alloc.fresh("y")

	sub, ok := Unify(x, y, emptySubst(), true)
	if !ok {
		t.Fatal("unifying two fresh vars should succeed")
	}
	sub, ok = Unify(y, NewInt(42), sub, true)
	if !ok {
		t.Fatal("unifying y with 42 should succeed")
	}

	resolved, err := sub.WalkStar(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.String() != "42" {
		t.Errorf("x should resolve through y to 42, got %s", resolved.String())
	}
}

func TestUnifyDistinctAtomsFails(t *testing.T) {
	_, ok := Unify(NewInt(1), NewInt(2), emptySubst(), true)
	if ok {
		t.Error("distinct ground atoms should not unify")
	}
}

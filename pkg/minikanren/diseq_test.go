package minikanren

import "testing"

func TestDiseqRejectsLaterEqualBinding(t *testing.T) {
	iter := Query([]string{"x"}, func(vars ...Term) Goal {
		x := vars[0]
		return Conj(Diseq(x, NewInt(1)), Eq(x, NewInt(1)))
	})
	_, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("x =/= 1 followed by x == 1 should fail")
	}
}

func TestDiseqAllowsDifferentBinding(t *testing.T) {
	iter := Query([]string{"x"}, func(vars ...Term) Goal {
		x := vars[0]
		return Conj(Diseq(x, NewInt(1)), Eq(x, NewInt(2)))
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || ans.Values["x"].String() != "2" {
		t.Fatalf("x =/= 1 followed by x == 2 should succeed with x=2, got ok=%v", ok)
	}
}

func TestDiseqOnAlreadyUnequalAtomsIsVacuouslyTrue(t *testing.T) {
	iter := Query([]string{"q"}, func(vars ...Term) Goal {
		return Conj(Diseq(NewInt(1), NewInt(2)), Eq(vars[0], NewInt(1)))
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || ans.Values["q"].String() != "1" {
		t.Fatal("1 =/= 2 should hold trivially and not block the rest of the conjunction")
	}
}

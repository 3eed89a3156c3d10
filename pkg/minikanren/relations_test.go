package minikanren

import "testing"

func TestAppendoForward(t *testing.T) {
	iter := Query([]string{"c"}, func(vars ...Term) Goal {
		a := List(nil, NewInt(1), NewInt(2))
		b := List(nil, NewInt(3), NewInt(4))
		return Appendo(a, b, vars[0])
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a solution")
	}
	want := List(nil, NewInt(1), NewInt(2), NewInt(3), NewInt(4)).String()
	if ans.Values["c"].String() != want {
		t.Errorf("got %s, want %s", ans.Values["c"].String(), want)
	}
}

func TestAppendoEnumeratesSplits(t *testing.T) {
	iter := Query([]string{"a", "b"}, func(vars ...Term) Goal {
		c := List(nil, NewInt(1), NewInt(2), NewInt(3))
		return Appendo(vars[0], vars[1], c)
	})
	answers, err := iter.All(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 4 {
		t.Fatalf("expected 4 splits of a 3-element list, got %d", len(answers))
	}
}

func TestMemberoFindsEachOccurrence(t *testing.T) {
	iter := Query([]string{"x"}, func(vars ...Term) Goal {
		l := List(nil, NewInt(1), NewInt(2), NewInt(1))
		return Membero(vars[0], l)
	})
	answers, err := iter.All(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("expected 3 answers (one per list position), got %d", len(answers))
	}
}

func TestLengthoComputesLength(t *testing.T) {
	iter := Query([]string{"n"}, func(vars ...Term) Goal {
		l := List(nil, NewInt(1), NewInt(2), NewInt(3))
		return Lengtho(l, vars[0])
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || ans.Values["n"].String() != "3" {
		t.Fatalf("expected n=3, got ok=%v val=%v", ok, ans.Values["n"])
	}
}

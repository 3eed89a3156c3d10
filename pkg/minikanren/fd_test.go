package minikanren

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIntDomainNormalForm(t *testing.T) {
	d := NewIntDomain(1, 2, 3, 5, 7, 8)
	vals := d.Values()
	want := []int64{1, 2, 3, 5, 7, 8}
	if diff := cmp.Diff(want, vals); diff != "" {
		t.Fatalf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestIntDomainSingleton(t *testing.T) {
	d := NewIntDomain(4)
	v, ok := d.Singleton()
	if !ok || v != 4 {
		t.Fatalf("Singleton() = %d, %v; want 4, true", v, ok)
	}

	multi := NewIntDomain(4, 5)
	if _, ok := multi.Singleton(); ok {
		t.Error("a two-value domain should not report Singleton")
	}
}

func TestIntDomainIntersect(t *testing.T) {
	a := IntervalDomain(0, 9)
	b := IntervalDomain(5, 15)
	got := a.Intersect(b)
	if got.Min() != 5 || got.Max() != 9 {
		t.Errorf("Intersect range = [%d,%d], want [5,9]", got.Min(), got.Max())
	}
}

func TestDomSingletonForcesUnification(t *testing.T) {
	iter := Query([]string{"v"}, func(vars ...Term) Goal {
		return Dom(vars[0], NewIntDomain(7))
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected one answer")
	}
	if ans.Values["v"].String() != "7" {
		t.Errorf("singleton domain should force v = 7, got %s", ans.Values["v"].String())
	}
}

func TestNeqFDReifiesResidualDomain(t *testing.T) {
	iter := Query([]string{"x"}, func(vars ...Term) Goal {
		x := vars[0]
		return Conj(Dom(x, NewIntDomain(1, 2, 3)), NeqFD(x, NewInt(2)))
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected one answer")
	}
	if ans.Values["x"].String() != "_.0" {
		t.Fatalf("x should stay an unbound placeholder, got %s", ans.Values["x"].String())
	}
	domain, ok := ans.Constraints["_.0"][TagFD]
	if !ok {
		t.Fatal("expected a residual FD constraint on x's placeholder")
	}
	want := []int64{1, 3}
	if diff := cmp.Diff(want, domain); diff != "" {
		t.Fatalf("residual domain mismatch (-want +got):\n%s", diff)
	}
}

func TestNeqFDExcludesValue(t *testing.T) {
	iter := Query([]string{"v"}, func(vars ...Term) Goal {
		v := vars[0]
		return Conj(Dom(v, IntervalDomain(1, 2)), NeqFD(v, NewInt(1)))
	})
	answers, err := iter.All(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 1 || answers[0].Values["v"].String() != "2" {
		t.Fatalf("expected exactly v=2, got %v", answers)
	}
}

func TestPlusFDComputesSum(t *testing.T) {
	iter := Query([]string{"z"}, func(vars ...Term) Goal {
		return PlusFD(NewInt(3), NewInt(4), vars[0])
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || ans.Values["z"].String() != "7" {
		t.Fatalf("expected z=7, got ok=%v val=%v", ok, ans.Values["z"])
	}
}

func TestTimesFDComputesProduct(t *testing.T) {
	iter := Query([]string{"z"}, func(vars ...Term) Goal {
		return TimesFD(NewInt(3), NewInt(4), vars[0])
	})
	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || ans.Values["z"].String() != "12" {
		t.Fatalf("expected z=12, got ok=%v val=%v", ok, ans.Values["z"])
	}
}

func TestLtFDOrdersValues(t *testing.T) {
	iter := Query([]string{"x", "y"}, func(vars ...Term) Goal {
		x, y := vars[0], vars[1]
		return Conj(Dom(x, IntervalDomain(1, 3)), Dom(y, IntervalDomain(1, 3)), LtFD(x, y),
			Disj(Eq(x, NewInt(1)), Eq(x, NewInt(2)), Eq(x, NewInt(3))),
			Disj(Eq(y, NewInt(1)), Eq(y, NewInt(2)), Eq(y, NewInt(3))))
	})
	answers, err := iter.All(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range answers {
		xv, _ := a.Values["x"].(*Atom).IsInt()
		yv, _ := a.Values["y"].(*Atom).IsInt()
		if xv >= yv {
			t.Errorf("LtFD should keep x < y, got x=%d y=%d", xv, yv)
		}
	}
	if len(answers) != 3 {
		t.Errorf("expected 3 ordered pairs from a 1..3 domain, got %d", len(answers))
	}
}

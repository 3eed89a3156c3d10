package minikanren

import (
	"context"
	"testing"
)

func TestToSliceRespectsLimit(t *testing.T) {
	s := InitialState()
	q := s.alloc.fresh("q")
	g := Disj(Eq(q, NewInt(1)), Eq(q, NewInt(2)), Eq(q, NewInt(3)))

	states, err := g(withStrategy(context.Background(), Interleaving), s).ToSlice(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("ToSlice(2) should stop at 2 states, got %d", len(states))
	}
}

func TestIsHardFailDistinguishesErrorFromOrdinaryEmpty(t *testing.T) {
	if _, ok := emptyStream().IsHardFail(); ok {
		t.Error("an ordinary empty stream should not report a hard fail")
	}
	if _, ok := failStream(newUsageError(ErrProjectionNotGround, "test")).IsHardFail(); !ok {
		t.Error("a stream carrying an error should report a hard fail")
	}
}

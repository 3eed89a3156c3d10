package minikanren

import (
	"context"
	"testing"
)

func TestTabledReplaysCachedAnswers(t *testing.T) {
	calls := 0

	iter := Query([]string{"q"}, func(vars ...Term) Goal {
		q := vars[0]
		tabled := Tabled(8, []Term{q}, func(ctx context.Context, s *State) Stream {
			calls++
			return Eq(q, NewInt(1))(ctx, s)
		})
		return Conj(Eq(q, NewInt(1)), tabled, tabled)
	})

	ans, ok := iter.Next()
	if err := iter.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || ans.Values["q"].String() != "1" {
		t.Fatalf("expected q=1, got ok=%v val=%v", ok, ans.Values["q"])
	}
	if calls != 1 {
		t.Errorf("expected the tabled goal body to run exactly once across both calls, ran %d times", calls)
	}
}

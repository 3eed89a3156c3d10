package minikanren

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryChoices(t *testing.T) {
	iter := Query([]string{"q"}, func(vars ...Term) Goal {
		q := vars[0]
		return Disj(Eq(q, NewInt(1)), Eq(q, NewInt(2)), Eq(q, NewInt(3)))
	})
	answers, err := iter.All(0)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	for i, a := range answers {
		want := NewInt(int64(i + 1)).String()
		require.Equal(t, want, a.Values["q"].String(), "answer %d", i)
	}
}

func TestQueryReifiesUnboundAsPlaceholder(t *testing.T) {
	iter := Query([]string{"q"}, func(vars ...Term) Goal {
		return Succeed
	})
	answers, err := iter.All(0)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.Equal(t, "_.0", answers[0].Values["q"].String(), "unbound query var should reify to _.0")
}

func TestQueryDepthLimitRaisesResourceError(t *testing.T) {
	var loop Goal
	loop = Conj(Succeed, Deferred(func() Goal { return loop }))

	iter := Query([]string{"q"}, func(vars ...Term) Goal {
		return loop
	}, WithDepthLimit(50))

	_, err := iter.All(5)
	if err == nil {
		t.Fatal("expected a resource error from an infinite recursion under a depth limit")
	}
	if _, ok := err.(*ResourceError); !ok {
		t.Errorf("expected *ResourceError, got %T: %v", err, err)
	}
}

func TestQueryDepthFirstStrategy(t *testing.T) {
	iter := Query([]string{"q"}, func(vars ...Term) Goal {
		q := vars[0]
		return Disj(Eq(q, NewInt(1)), Eq(q, NewInt(2)))
	}, WithStrategy(DepthFirst))
	answers, err := iter.All(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers under depth-first strategy, got %d", len(answers))
	}
}

package minikanren

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// tableKey is the reified-argument key a Tabled goal memoizes on: the
// printed form of every argument's walk* result under the state it ran in.
// Printing rather than structurally hashing the term keeps the cache key
// comparable and hashable without teaching the cache about Term's
// internals.
type tableKey string

// tabledEntry caches the full set of States a memoized call produced, so a
// later call with the same key can replay them directly instead of
// re-running the underlying goal's search.
type tabledEntry struct {
	states []*State
}

// Tabled memoizes goal(args...) by its reified argument values in a
// bounded LRU cache, so a relation that is naturally called repeatedly
// with the same ground (or identically-shaped) arguments — the common
// shape of a recursive relation revisiting earlier sub-results — does not
// repeat the underlying search. Tabled is a cache over the existing
// search, not a new resolution strategy: it never changes which answers
// exist, only how many times they are computed.
//
// capacity bounds the number of distinct argument keys remembered at once;
// once full, the least-recently-used entry is evicted.
//
// A Tabled goal's cached entries hold complete, fully-drained answer sets:
// this is correct for goals guaranteed to terminate (Appendo with a ground
// third argument, for instance), but wrapping a goal that produces an
// infinite stream in Tabled will hang the first call that tries to cache
// it exactly as ToSlice would.
func Tabled(capacity int, args []Term, goal Goal) Goal {
	cache, err := lru.New[tableKey, tabledEntry](capacity)
	if err != nil {
		cache, _ = lru.New[tableKey, tabledEntry](1)
	}
	return func(ctx context.Context, s *State) Stream {
		vals, walkErr := walkAll(s, args)
		if walkErr != nil {
			return failStream(walkErr)
		}
		key := tableKey(keyFor(vals))
		if entry, ok := cache.Get(key); ok {
			return replayStates(entry.states)
		}
		states, streamErr := goal(ctx, s).ToSlice(0)
		if streamErr != nil {
			return failStream(streamErr)
		}
		cache.Add(key, tabledEntry{states: states})
		return replayStates(states)
	}
}

func keyFor(vals []Term) string {
	out := ""
	for i, v := range vals {
		if i > 0 {
			out += "\x1f"
		}
		out += v.String()
	}
	return out
}

func replayStates(states []*State) Stream {
	if len(states) == 0 {
		return emptyStream()
	}
	i := 0
	var next func() Stream
	next = func() Stream {
		if i >= len(states) {
			return emptyStream()
		}
		s := states[i]
		i++
		return matureStream(s, next)
	}
	return next()
}

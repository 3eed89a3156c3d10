package minikanren

// streamKind tags which of the three shapes a Stream currently is.
type streamKind uint8

const (
	streamEmpty streamKind = iota
	streamMature
	streamImmature
)

// Stream is a lazy sequence of States: empty (no more answers), mature (a
// State followed by a thunk for more), or immature (a thunk that, when
// forced, yields another stream). Immature streams are what make recursion
// productive without stack overflow: a recursive relation wraps
// its recursive arm in Deferred so the engine only does more work when the
// consumer actually asks for another answer.
//
// Forcing an immature stream is the engine's only suspension point — it is
// synchronous, runs on the caller's goroutine, and resumes
// immediately. Nothing in this package spawns a goroutine or takes a lock;
// that is a deliberate consequence of the search being control-flow-heavy
// and small-grained rather than an oversight (see TestMain in main_test.go).
//
// err is set only on an empty stream that terminates a usage error or
// resource exhaustion rather than ordinary search exhaustion; the
// two are distinguished so every combinator can tell "try the next branch"
// apart from "abort the whole query".
type Stream struct {
	kind  streamKind
	state *State
	next  func() Stream
	err   error
}

// emptyStream is the stream with no answers and no error: ordinary search
// exhaustion.
func emptyStream() Stream {
	return Stream{kind: streamEmpty}
}

// failStream is an empty stream terminating in a hard error — a usage
// error or resource exhaustion — that must abort the whole query rather
// than simply being treated as "this branch had no answers".
func failStream(err error) Stream {
	return Stream{kind: streamEmpty, err: err}
}

// matureStream is a single delivered State followed by a thunk for the
// rest of the stream.
func matureStream(s *State, rest func() Stream) Stream {
	return Stream{kind: streamMature, state: s, next: rest}
}

// immatureStream wraps a suspended computation that will itself produce a
// Stream when forced.
func immatureStream(thunk func() Stream) Stream {
	return Stream{kind: streamImmature, next: thunk}
}

// unitStream is a stream of exactly one answer.
func unitStream(s *State) Stream {
	return matureStream(s, func() Stream { return emptyStream() })
}

// force collapses consecutive immature layers, returning the first
// stream that is empty or mature. It never forces past a mature answer —
// only enough immaturity to expose the next concrete result or
// exhaustion — which is what lets a consumer pull one answer at a time
// from an otherwise-infinite search.
func force(s Stream) Stream {
	for s.kind == streamImmature {
		s = s.next()
	}
	return s
}

// IsHardFail reports whether s is an empty stream terminated by a usage or
// resource error, and returns that error.
func (s Stream) IsHardFail() (error, bool) {
	if s.kind == streamEmpty && s.err != nil {
		return s.err, true
	}
	return nil, false
}

// mplus is the fair, interleaving union of two streams:
// when both s1 and s2 have answers ready, the next one delivered always
// comes from whichever became mature first, and when both are immature,
// mplus forces s1 first, then swaps s1 and s2 on the recursive call. That
// swap is what guarantees any answer reachable in finitely many steps is
// eventually produced, however unbalanced the two streams' production
// rates are.
func mplus(s1, s2 Stream) Stream {
	switch s1.kind {
	case streamEmpty:
		if s1.err != nil {
			return s1
		}
		return s2
	case streamMature:
		return matureStream(s1.state, func() Stream { return mplus(s2, s1.next()) })
	default: // streamImmature
		return immatureStream(func() Stream { return mplus(s2, s1.next()) })
	}
}

// mplusDF is the depth-first union: s1 is fully exhausted (lazily) before
// s2 is ever touched. This preserves clause order but gives up the
// fairness guarantee on infinite s1 — selecting it is what the depth-first
// Strategy does.
func mplusDF(s1, s2 Stream) Stream {
	switch s1.kind {
	case streamEmpty:
		if s1.err != nil {
			return s1
		}
		return s2
	case streamMature:
		return matureStream(s1.state, func() Stream { return mplusDF(s1.next(), s2) })
	default:
		return immatureStream(func() Stream { return mplusDF(s1.next(), s2) })
	}
}

// Take pulls up to n States from s, forcing as much of the stream as
// necessary. It returns the states collected and whether the stream may
// still have more (false once it has been observed empty). A hard error
// terminates collection immediately and is returned as err.
func (s Stream) Take(n int) (states []*State, hasMore bool, err error) {
	cur := force(s)
	for len(states) < n {
		if e, ok := cur.IsHardFail(); ok {
			return states, false, e
		}
		if cur.kind == streamEmpty {
			return states, false, nil
		}
		states = append(states, cur.state)
		cur = force(cur.next())
	}
	if e, ok := cur.IsHardFail(); ok {
		return states, false, e
	}
	return states, cur.kind != streamEmpty, nil
}

// ToSlice drains s completely, respecting limit (0 means unlimited). It is
// a test and demonstration convenience, not something the engine itself
// calls — real queries should prefer the incremental QueryIter so an
// infinite stream never hangs the caller.
func (s Stream) ToSlice(limit int) ([]*State, error) {
	var out []*State
	cur := force(s)
	for {
		if e, ok := cur.IsHardFail(); ok {
			return out, e
		}
		if cur.kind == streamEmpty {
			return out, nil
		}
		out = append(out, cur.state)
		if limit > 0 && len(out) >= limit {
			return out, nil
		}
		cur = force(cur.next())
	}
}

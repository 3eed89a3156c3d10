package minikanren

import "context"

// Strategy selects which stream combinators Disj/Conj use to explore a
// search tree. Strategy is a property of the stream combinators, not of
// goals: the same Goal value runs correctly, and
// produces a well-defined (if different) answer order, under either.
type Strategy uint8

const (
	// Interleaving is the default, complete strategy (classical
	// miniKanren's mplus/bind): fair union of disjuncts, guaranteeing any
	// answer reachable in finitely many steps is eventually produced even
	// under infinite disjunctions.
	Interleaving Strategy = iota

	// DepthFirst preserves clause order and exhausts each disjunct before
	// moving to the next. It is simpler and often faster for problems with
	// no infinite branches, but loses completeness on infinite disjunctions.
	DepthFirst
)

func (s Strategy) String() string {
	switch s {
	case DepthFirst:
		return "depth-first"
	default:
		return "interleaving"
	}
}

type strategyKeyType struct{}

var strategyKey = strategyKeyType{}

// withStrategy returns a context carrying strat, read by Disj/Conj to pick
// their stream combinators.
func withStrategy(ctx context.Context, strat Strategy) context.Context {
	return context.WithValue(ctx, strategyKey, strat)
}

// strategyFrom reads the active Strategy from ctx, defaulting to
// Interleaving when the context carries none — this keeps goals usable in
// tests and REPL-style calls that build a bare context.Background().
func strategyFrom(ctx context.Context) Strategy {
	if v, ok := ctx.Value(strategyKey).(Strategy); ok {
		return v
	}
	return Interleaving
}

// mplusFor resolves the strategy-appropriate stream union; bind takes it as
// its join argument.
func mplusFor(strat Strategy) func(Stream, Stream) Stream {
	if strat == DepthFirst {
		return mplusDF
	}
	return mplus
}

// depthKeyType/depthKey thread an optional recursion-depth budget through a
// query's context. depthCounter is shared by every bind and Deferred call
// descended from one Query so the count reflects total suspension depth
// across the whole search, not any single branch.
type depthKeyType struct{}

var depthKey = depthKeyType{}

type depthCounter struct {
	limit int
	depth int
}

// withDepthLimit returns a context that makes every bind and Deferred call
// count against limit, raising a *ResourceError once exceeded.
func withDepthLimit(ctx context.Context, limit int) context.Context {
	return context.WithValue(ctx, depthKey, &depthCounter{limit: limit})
}

func checkDepth(ctx context.Context) error {
	dc, ok := ctx.Value(depthKey).(*depthCounter)
	if !ok {
		return nil
	}
	dc.depth++
	if dc.depth > dc.limit {
		loggerFrom(ctx).Warn("query aborted: recursion depth limit exceeded", "limit", dc.limit)
		return &ResourceError{Kind: "depth-limit-exceeded",
			Message: "query exceeded its configured recursion-depth limit"}
	}
	return nil
}

// bind is Conj's core: evaluate g against every state in s, flattening the
// resulting streams together with the given mplus variant. It is the
// "bind" operator of classical miniKanren.
func bind(ctx context.Context, s Stream, g Goal, join func(Stream, Stream) Stream) Stream {
	switch s.kind {
	case streamEmpty:
		return s
	case streamMature:
		if err := checkDepth(ctx); err != nil {
			return failStream(err)
		}
		return join(g(ctx, s.state), immatureStream(func() Stream { return bind(ctx, s.next(), g, join) }))
	default: // streamImmature
		return immatureStream(func() Stream { return bind(ctx, s.next(), g, join) })
	}
}

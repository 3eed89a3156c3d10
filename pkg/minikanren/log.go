package minikanren

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// logKeyType and logKey thread an hclog.Logger through a query's context so
// goals that want to trace their own progress (disjunct commitments,
// propagator fixpoint rounds) can fetch it without every Goal signature
// needing a logger parameter.
type logKeyType struct{}

var logKey = logKeyType{}

// withLogger returns a context carrying l, read back by loggerFrom.
func withLogger(ctx context.Context, l hclog.Logger) context.Context {
	return context.WithValue(ctx, logKey, l)
}

// loggerFrom reads the active logger from ctx, defaulting to a no-op
// logger so a goal built and run without WithLogger never pays for
// logging on its hot path.
func loggerFrom(ctx context.Context) hclog.Logger {
	if l, ok := ctx.Value(logKey).(hclog.Logger); ok {
		return l
	}
	return hclog.NewNullLogger()
}

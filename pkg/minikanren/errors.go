package minikanren

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// UsageError signals that a goal was constructed incorrectly — a
// programmer-intent problem, not a search outcome. A usage error aborts
// the whole query, unlike an ordinary logical failure which is simply
// absent from the answer stream.
type UsageError struct {
	Code    string
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("minikanren: usage error [%s]: %s", e.Code, e.Message)
}

// Stable usage-error codes. Of these, the engine itself raises only
// ErrProjectionNotGround (ProjectGround) and ErrNonIntegerFD (the
// finite-domain goals).
const (
	ErrOccursCheck         = "occurs-check-violation"
	ErrProjectionNotGround = "projection-not-ground"
	ErrNonIntegerFD        = "non-integer-fd-argument"
	ErrEmptyFDDomain       = "empty-fd-domain"
	ErrUnknownDomainTag    = "unknown-constraint-domain"
	ErrInvalidGoalArity    = "invalid-goal-arity"
)

func newUsageError(code, format string, args ...interface{}) *UsageError {
	return &UsageError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ResourceError signals resource exhaustion — the WithDepthLimit budget
// exceeded, constraint propagation not converging within maxCheckRounds, or
// a cyclic substitution encountered while an occurs-check-free query was
// being walked. Like UsageError, it is query-terminal.
type ResourceError struct {
	Kind    string
	Message string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("minikanren: resource exhausted [%s]: %s", e.Kind, e.Message)
}

// aggregateErrors combines zero or more errors into one using
// hashicorp/go-multierror, for batched validation (e.g. collecting every
// non-ground argument a projection rejects at once rather than stopping at
// the first). Returns nil if every error is nil.
func aggregateErrors(errs ...error) error {
	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

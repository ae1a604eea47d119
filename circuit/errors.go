package circuit

import (
	"errors"
	"fmt"

	"github.com/hapel-cqc/pytket/debug"
)

var (
	// ErrArgument is returned when an operation argument has the wrong
	// arity, references an unregistered identifier, or a condition value is
	// out of range.
	ErrArgument = errors.New("invalid argument")

	// ErrDuplicateID is returned when re-adding an existing register element.
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrUnresolvedBox is returned when a box cannot be bound to the
	// arguments supplied at its call site, or references an unknown
	// definition.
	ErrUnresolvedBox = errors.New("unresolved box")

	// ErrUnsupportedGate is returned by a rebase when it has no
	// decomposition rule for an encountered gate kind.
	ErrUnsupportedGate = errors.New("unsupported gate")

	// ErrUnknownLabel is returned when a flow-graph edge targets a label
	// that does not exist at finalize time.
	ErrUnknownLabel = errors.New("unknown label")
)

// annotate appends the caller stack to builder errors in debug builds.
func annotate(err error) error {
	if err == nil || !debug.Debug {
		return err
	}
	return fmt.Errorf("%w\n%s", err, debug.Stack())
}

// Package passes implements compilation passes over circuits.
//
// A pass is a pure function from an input circuit to a new equivalent
// circuit; the input is never mutated. Passes are deterministic and
// re-entrant: independent circuits may be compiled concurrently, provided no
// single circuit is shared between go-routines.
package passes

import (
	"fmt"

	"github.com/hapel-cqc/pytket/circuit"
	"github.com/hapel-cqc/pytket/logger"
)

// Pass rewrites a circuit into an equivalent one. Apply returns a new
// circuit sharing the input's qubits and bits.
type Pass interface {
	Name() string
	Apply(c *circuit.Circuit) (*circuit.Circuit, error)
}

type sequencePass struct {
	passes []Pass
}

// Sequence composes passes by ordered application; each pass consumes the
// previous pass's output. Sequencing is the caller's responsibility: for
// example a rebase only sees primitive gates if DecomposeBoxes ran before
// it.
func Sequence(ps ...Pass) Pass {
	return &sequencePass{passes: ps}
}

func (s *sequencePass) Name() string { return "Sequence" }

func (s *sequencePass) Apply(c *circuit.Circuit) (*circuit.Circuit, error) {
	log := logger.Logger()
	out := c
	for _, p := range s.passes {
		log.Debug().Str("pass", p.Name()).Int("nbOps", out.NumOperations()).Msg("applying pass")
		var err error
		out, err = p.Apply(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return out, nil
}

package passes

import (
	"fmt"

	"github.com/hapel-cqc/pytket/circuit"
	"github.com/hapel-cqc/pytket/logger"
)

// maxExpandDepth bounds rule recursion; well-formed rule tables converge in
// a handful of steps.
const maxExpandDepth = 16

// Rule expresses one gate as a sequence over (eventually) the target set.
// Rules receive the original operation for its arguments and parameters and
// return unconditional replacement operations; the pass copies the original
// condition onto each of them.
type Rule func(op circuit.Operation) []circuit.Operation

type rebase struct {
	name   string
	target GateSet
	rules  map[circuit.OpType]Rule
}

// NewRebase returns a pass rewriting every primitive gate outside target
// into an equivalent sequence over target, using the given decomposition
// rules. The original condition of a rewritten gate is copied unchanged onto
// every operation of its replacement sequence. Measurements, resets,
// barriers, boxes and flow markers pass through unmodified. Returns
// ErrUnsupportedGate at apply time when a gate has no rule.
func NewRebase(name string, target GateSet, rules map[circuit.OpType]Rule) Pass {
	return &rebase{name: name, target: target, rules: rules}
}

func (r *rebase) Name() string { return r.name }

func (r *rebase) Apply(c *circuit.Circuit) (*circuit.Circuit, error) {
	out := c.EmptyLike()
	for _, op := range c.Operations() {
		if !op.Type.IsGate() || r.target.Contains(op.Type) {
			if err := out.AddOperation(op); err != nil {
				return nil, err
			}
			continue
		}
		if err := r.expand(out, op, maxExpandDepth); err != nil {
			return nil, err
		}
	}

	log := logger.Logger()
	log.Debug().Str("target", r.target.String()).Int("nbOpsIn", c.NumOperations()).Int("nbOpsOut", out.NumOperations()).Msg("rebased circuit")
	return out, nil
}

func (r *rebase) expand(out *circuit.Circuit, op circuit.Operation, depth int) error {
	if depth == 0 {
		return fmt.Errorf("%w: rules for %s do not converge onto %s", circuit.ErrUnsupportedGate, op.Type, r.target)
	}
	rule, ok := r.rules[op.Type]
	if !ok {
		return fmt.Errorf("%w: no rule for %s in target %s", circuit.ErrUnsupportedGate, op.Type, r.target)
	}
	for _, rep := range rule(op) {
		rep.Condition = op.Condition
		if r.target.Contains(rep.Type) {
			if err := out.AddOperation(rep); err != nil {
				return err
			}
			continue
		}
		if err := r.expand(out, rep, depth-1); err != nil {
			return err
		}
	}
	return nil
}

package passes

import (
	"fmt"

	"github.com/hapel-cqc/pytket/circuit"
	"github.com/hapel-cqc/pytket/logger"
)

type decomposeBoxes struct {
	reg *circuit.Registry
}

// DecomposeBoxes returns a pass inlining every box operation into the
// primitive operations of its definition. Arguments are bound positionally,
// relative order is preserved, and the box call's condition is conjoined
// onto every inlined operation: an inlined operation that was unconditional
// receives the call's condition verbatim, one that carried its own condition
// receives the conjunction, so both guards must hold independently.
//
// Nested boxes are inlined recursively; the registry's registration order
// guarantees the nesting is acyclic. The pass is idempotent: a circuit
// without boxes passes through unchanged.
func DecomposeBoxes(reg *circuit.Registry) Pass {
	return &decomposeBoxes{reg: reg}
}

func (p *decomposeBoxes) Name() string { return "DecomposeBoxes" }

func (p *decomposeBoxes) Apply(c *circuit.Circuit) (*circuit.Circuit, error) {
	out := c.EmptyLike()
	for _, op := range c.Operations() {
		if op.Type != circuit.BoxOp {
			if err := out.AddOperation(op); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.inline(out, op); err != nil {
			return nil, err
		}
	}

	log := logger.Logger()
	log.Debug().Int("nbOpsIn", c.NumOperations()).Int("nbOpsOut", out.NumOperations()).Msg("decomposed boxes")
	return out, nil
}

// inline expands one box call into out, substituting the call-site arguments
// for the definition's internal qubits and bits.
func (p *decomposeBoxes) inline(out *circuit.Circuit, call circuit.Operation) error {
	def, err := p.reg.Get(call.Box)
	if err != nil {
		return err
	}
	defQubits, defBits := def.Qubits(), def.Bits()
	if len(call.Qubits) != len(defQubits) || len(call.Bits) != len(defBits) {
		return fmt.Errorf("%w: box %q expects %d qubits and %d bits, got %d and %d",
			circuit.ErrUnresolvedBox, p.reg.BoxName(call.Box),
			len(defQubits), len(defBits), len(call.Qubits), len(call.Bits))
	}

	qmap := make(map[circuit.Qubit]circuit.Qubit, len(defQubits))
	for i, q := range defQubits {
		qmap[q] = call.Qubits[i]
	}
	bmap := make(map[circuit.Bit]circuit.Bit, len(defBits))
	for i, b := range defBits {
		bmap[b] = call.Bits[i]
	}

	outer := circuit.Condition{}
	if call.Condition != nil {
		outer = *call.Condition
	}

	for _, dop := range def.Operations() {
		mapped := dop.Clone()
		for i, q := range mapped.Qubits {
			ext, ok := qmap[q]
			if !ok {
				return fmt.Errorf("%w: box %q references unbound qubit %s", circuit.ErrUnresolvedBox, p.reg.BoxName(call.Box), q)
			}
			mapped.Qubits[i] = ext
		}
		for i, b := range mapped.Bits {
			ext, ok := bmap[b]
			if !ok {
				return fmt.Errorf("%w: box %q references unbound bit %s", circuit.ErrUnresolvedBox, p.reg.BoxName(call.Box), b)
			}
			mapped.Bits[i] = ext
		}

		inner := circuit.Condition{}
		if mapped.Condition != nil {
			bits := make([]circuit.Bit, len(mapped.Condition.Bits))
			for i, b := range mapped.Condition.Bits {
				ext, ok := bmap[b]
				if !ok {
					return fmt.Errorf("%w: box %q condition references unbound bit %s", circuit.ErrUnresolvedBox, p.reg.BoxName(call.Box), b)
				}
				bits[i] = ext
			}
			inner = circuit.Condition{Bits: bits, Value: mapped.Condition.Value}
		}

		switch {
		case call.Condition == nil && mapped.Condition == nil:
			// unconditional through and through
		case call.Condition != nil && mapped.Condition == nil:
			cond := outer
			mapped.Condition = &cond
		default:
			cond, err := outer.And(inner)
			if err != nil {
				return err
			}
			mapped.Condition = &cond
		}

		if mapped.Type == circuit.BoxOp {
			if err := p.inline(out, mapped); err != nil {
				return err
			}
			continue
		}
		if err := out.AddOperation(mapped); err != nil {
			return err
		}
	}
	return nil
}

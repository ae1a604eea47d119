package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// Operation is a single instruction: an operation kind, its ordered qubit
// and bit arguments, kind-specific parameters, and an optional Condition.
// Attaching a condition is a pure annotation; it does not alter the
// operation's arity or kind.
type Operation struct {
	Type   OpType
	Params []float64 // half-turns
	Qubits []Qubit
	Bits   []Bit

	// Box is the registry handle of the embedded definition when Type is
	// BoxOp.
	Box BoxID

	// Target is the label argument of flow-control markers.
	Target string

	Condition *Condition
}

// Conditional reports whether the operation carries a condition, including
// the degenerate always-true form.
func (op Operation) Conditional() bool {
	return op.Condition != nil
}

// Clone returns a deep copy of the operation.
func (op Operation) Clone() Operation {
	out := op
	out.Params = append([]float64(nil), op.Params...)
	out.Qubits = append([]Qubit(nil), op.Qubits...)
	out.Bits = append([]Bit(nil), op.Bits...)
	if op.Condition != nil {
		cond := op.Condition.clone()
		out.Condition = &cond
	}
	return out
}

// String renders the operation in its stable textual form, e.g.
//
//	Rz(0.5) q[1];
//	Measure q[0] -> c[0];
//	IF ([c[0]] == 1) THEN Z b[0];
func (op Operation) String() string {
	var sb strings.Builder
	if op.Condition != nil {
		fmt.Fprintf(&sb, "IF (%s) THEN ", op.Condition)
	}
	sb.WriteString(op.bare())
	return sb.String()
}

// bare renders the operation without its condition prefix.
func (op Operation) bare() string {
	if op.Type.IsFlow() {
		switch op.Type {
		case Branch:
			return "Branch " + op.Target + " " + op.Bits[0].String()
		case Goto:
			return "Goto " + op.Target
		case Label:
			return "Label " + op.Target
		default:
			return "Stop"
		}
	}

	var sb strings.Builder
	sb.WriteString(op.Type.String())
	if op.Type == BoxOp {
		sb.WriteString("<" + strconv.FormatUint(uint64(op.Box), 10) + ">")
	}
	if len(op.Params) > 0 {
		sb.WriteByte('(')
		for i, p := range op.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
		}
		sb.WriteByte(')')
	}
	if op.Type == Measure {
		fmt.Fprintf(&sb, " %s -> %s;", op.Qubits[0], op.Bits[0])
		return sb.String()
	}
	for i, q := range op.Qubits {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(q.String())
	}
	for i, b := range op.Bits {
		if i > 0 || len(op.Qubits) > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(b.String())
	}
	sb.WriteByte(';')
	return sb.String()
}

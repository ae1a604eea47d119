// Package qasm exports circuits to OpenQASM 2.0.
//
// OpenQASM 2.0 conditionals only support whole-register equality, so a
// condition is exported as `if(c==v)` exactly when its bits span one whole
// named classical register in ascending index order; any other condition is
// rejected with ErrUnalignedCondition. This is a compatibility boundary of
// the format, not of the IR.
package qasm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hapel-cqc/pytket/circuit"
)

var (
	// ErrUnalignedCondition marks a condition whose bits do not span one
	// whole classical register.
	ErrUnalignedCondition = errors.New("condition does not span a whole classical register")

	// ErrUnsupportedOp marks an operation with no OpenQASM 2.0
	// representation, including boxes that were not decomposed first.
	ErrUnsupportedOp = errors.New("operation not representable in OpenQASM 2.0")
)

var gateNames = map[circuit.OpType]string{
	circuit.H:       "h",
	circuit.X:       "x",
	circuit.Y:       "y",
	circuit.Z:       "z",
	circuit.S:       "s",
	circuit.Sdg:     "sdg",
	circuit.T:       "t",
	circuit.Tdg:     "tdg",
	circuit.Rx:      "rx",
	circuit.Ry:      "ry",
	circuit.Rz:      "rz",
	circuit.U1:      "u1",
	circuit.U2:      "u2",
	circuit.U3:      "u3",
	circuit.CX:      "cx",
	circuit.CY:      "cy",
	circuit.CZ:      "cz",
	circuit.SWAP:    "swap",
	circuit.CCX:     "ccx",
	circuit.Reset:   "reset",
	circuit.Barrier: "barrier",
}

// Export writes c as an OpenQASM 2.0 program.
func Export(c *circuit.Circuit, w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")

	for _, decl := range registerDecls("qreg", qubitRegs(c)) {
		sb.WriteString(decl)
	}
	for _, decl := range registerDecls("creg", bitRegs(c)) {
		sb.WriteString(decl)
	}
	sb.WriteByte('\n')

	for _, op := range c.Operations() {
		line, err := render(c, op)
		if err != nil {
			return err
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func render(c *circuit.Circuit, op circuit.Operation) (string, error) {
	var sb strings.Builder
	if op.Condition != nil && !op.Condition.IsTrivial() {
		reg, err := alignedRegister(c, *op.Condition)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "if(%s==%d) ", reg, op.Condition.Value)
	}

	switch {
	case op.Type == circuit.Measure:
		fmt.Fprintf(&sb, "measure %s -> %s;", op.Qubits[0], op.Bits[0])
	case op.Type == circuit.BoxOp:
		return "", fmt.Errorf("%w: box call (run DecomposeBoxes first)", ErrUnsupportedOp)
	default:
		name, ok := gateNames[op.Type]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedOp, op.Type)
		}
		sb.WriteString(name)
		if len(op.Params) > 0 {
			sb.WriteByte('(')
			for i, p := range op.Params {
				if i > 0 {
					sb.WriteByte(',')
				}
				// parameters are half-turns; qelib1 gates take radians
				sb.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
				sb.WriteString("*pi")
			}
			sb.WriteByte(')')
		}
		for i, q := range op.Qubits {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte(' ')
			sb.WriteString(q.String())
		}
		sb.WriteByte(';')
	}
	return sb.String(), nil
}

// alignedRegister returns the register name when cond's bits are exactly the
// whole register in ascending index order, so the LSB-first condition value
// matches the format's register comparison.
func alignedRegister(c *circuit.Circuit, cond circuit.Condition) (string, error) {
	if len(cond.Bits) == 0 {
		return "", fmt.Errorf("%w: empty condition", ErrUnalignedCondition)
	}
	reg := cond.Bits[0].Reg
	whole := c.RegisterBits(reg)
	if len(whole) != len(cond.Bits) {
		return "", fmt.Errorf("%w: %s covers %d of %d bits of %q", ErrUnalignedCondition, cond, len(cond.Bits), len(whole), reg)
	}
	for i, b := range cond.Bits {
		if b != whole[i] {
			return "", fmt.Errorf("%w: %s is not %q in ascending order", ErrUnalignedCondition, cond, reg)
		}
	}
	return reg, nil
}

type regDecl struct {
	name string
	size int
}

func qubitRegs(c *circuit.Circuit) []regDecl {
	return collectRegs(func(yield func(string, int)) {
		for _, q := range c.Qubits() {
			yield(q.Reg, q.Index)
		}
	})
}

func bitRegs(c *circuit.Circuit) []regDecl {
	return collectRegs(func(yield func(string, int)) {
		for _, b := range c.Bits() {
			yield(b.Reg, b.Index)
		}
	})
}

// collectRegs derives register declarations from unit identifiers, sized by
// the highest index seen, in first-appearance order.
func collectRegs(units func(yield func(string, int))) []regDecl {
	idx := make(map[string]int)
	var order []string
	units(func(name string, index int) {
		if _, ok := idx[name]; !ok {
			order = append(order, name)
			idx[name] = 0
		}
		if index+1 > idx[name] {
			idx[name] = index + 1
		}
	})
	out := make([]regDecl, len(order))
	for i, name := range order {
		out[i] = regDecl{name: name, size: idx[name]}
	}
	return out
}

func registerDecls(kind string, regs []regDecl) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = fmt.Sprintf("%s %s[%d];\n", kind, r.name, r.size)
	}
	return out
}

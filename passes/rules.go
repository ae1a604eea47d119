package passes

import "github.com/hapel-cqc/pytket/circuit"

// Predefined rebase targets. All angles are half-turns; decompositions hold
// up to global phase.

// RzRxCXGateSet is the {Rz, Rx, CX} rotation-family target.
func RzRxCXGateSet() GateSet {
	return NewGateSet(circuit.Rz, circuit.Rx, circuit.CX)
}

// U3CXGateSet is the {U1, U2, U3, CX} target.
func U3CXGateSet() GateSet {
	return NewGateSet(circuit.U1, circuit.U2, circuit.U3, circuit.CX)
}

func g1(t circuit.OpType, q circuit.Qubit, params ...float64) circuit.Operation {
	return circuit.Operation{Type: t, Qubits: []circuit.Qubit{q}, Params: params}
}

func g2(t circuit.OpType, a, b circuit.Qubit) circuit.Operation {
	return circuit.Operation{Type: t, Qubits: []circuit.Qubit{a, b}}
}

// toffoli is the standard 15-operation CCX decomposition over
// {H, T, Tdg, CX}; the enclosing rebase recurses on the non-target members.
func toffoli(op circuit.Operation) []circuit.Operation {
	a, b, t := op.Qubits[0], op.Qubits[1], op.Qubits[2]
	return []circuit.Operation{
		g1(circuit.H, t),
		g2(circuit.CX, b, t),
		g1(circuit.Tdg, t),
		g2(circuit.CX, a, t),
		g1(circuit.T, t),
		g2(circuit.CX, b, t),
		g1(circuit.Tdg, t),
		g2(circuit.CX, a, t),
		g1(circuit.T, b),
		g1(circuit.T, t),
		g1(circuit.H, t),
		g2(circuit.CX, a, b),
		g1(circuit.T, a),
		g1(circuit.Tdg, b),
		g2(circuit.CX, a, b),
	}
}

func swapRule(op circuit.Operation) []circuit.Operation {
	a, b := op.Qubits[0], op.Qubits[1]
	return []circuit.Operation{
		g2(circuit.CX, a, b),
		g2(circuit.CX, b, a),
		g2(circuit.CX, a, b),
	}
}

func cyRule(op circuit.Operation) []circuit.Operation {
	c, t := op.Qubits[0], op.Qubits[1]
	return []circuit.Operation{
		g1(circuit.Sdg, t),
		g2(circuit.CX, c, t),
		g1(circuit.S, t),
	}
}

func czRule(op circuit.Operation) []circuit.Operation {
	c, t := op.Qubits[0], op.Qubits[1]
	return []circuit.Operation{
		g1(circuit.H, t),
		g2(circuit.CX, c, t),
		g1(circuit.H, t),
	}
}

// RebaseRzRxCX rewrites circuits onto the {Rz, Rx, CX} target.
func RebaseRzRxCX() Pass {
	rz := func(alpha float64) func(op circuit.Operation) []circuit.Operation {
		return func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.Rz, op.Qubits[0], alpha)}
		}
	}
	rules := map[circuit.OpType]Rule{
		circuit.H: func(op circuit.Operation) []circuit.Operation {
			q := op.Qubits[0]
			return []circuit.Operation{g1(circuit.Rz, q, 0.5), g1(circuit.Rx, q, 0.5), g1(circuit.Rz, q, 0.5)}
		},
		circuit.X: func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.Rx, op.Qubits[0], 1)}
		},
		circuit.Y: func(op circuit.Operation) []circuit.Operation {
			q := op.Qubits[0]
			return []circuit.Operation{g1(circuit.Rz, q, -0.5), g1(circuit.Rx, q, 1), g1(circuit.Rz, q, 0.5)}
		},
		circuit.Z:   rz(1),
		circuit.S:   rz(0.5),
		circuit.Sdg: rz(-0.5),
		circuit.T:   rz(0.25),
		circuit.Tdg: rz(-0.25),
		circuit.Ry: func(op circuit.Operation) []circuit.Operation {
			q := op.Qubits[0]
			return []circuit.Operation{g1(circuit.Rz, q, -0.5), g1(circuit.Rx, q, op.Params[0]), g1(circuit.Rz, q, 0.5)}
		},
		circuit.U1: func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.Rz, op.Qubits[0], op.Params[0])}
		},
		circuit.U2: func(op circuit.Operation) []circuit.Operation {
			q, phi, lambda := op.Qubits[0], op.Params[0], op.Params[1]
			return []circuit.Operation{g1(circuit.Rz, q, lambda-0.5), g1(circuit.Rx, q, 0.5), g1(circuit.Rz, q, phi+0.5)}
		},
		circuit.U3: func(op circuit.Operation) []circuit.Operation {
			q, theta, phi, lambda := op.Qubits[0], op.Params[0], op.Params[1], op.Params[2]
			return []circuit.Operation{g1(circuit.Rz, q, lambda), g1(circuit.Ry, q, theta), g1(circuit.Rz, q, phi)}
		},
		circuit.CY:   cyRule,
		circuit.CZ:   czRule,
		circuit.SWAP: swapRule,
		circuit.CCX:  toffoli,
	}
	return NewRebase("RebaseRzRxCX", RzRxCXGateSet(), rules)
}

// RebaseU3CX rewrites circuits onto the {U1, U2, U3, CX} target.
func RebaseU3CX() Pass {
	u1 := func(alpha float64) func(op circuit.Operation) []circuit.Operation {
		return func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.U1, op.Qubits[0], alpha)}
		}
	}
	rules := map[circuit.OpType]Rule{
		circuit.H: func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.U2, op.Qubits[0], 0, 1)}
		},
		circuit.X: func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.U3, op.Qubits[0], 1, 0, 1)}
		},
		circuit.Y: func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.U3, op.Qubits[0], 1, 0.5, 0.5)}
		},
		circuit.Z:   u1(1),
		circuit.S:   u1(0.5),
		circuit.Sdg: u1(-0.5),
		circuit.T:   u1(0.25),
		circuit.Tdg: u1(-0.25),
		circuit.Rx: func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.U3, op.Qubits[0], op.Params[0], -0.5, 0.5)}
		},
		circuit.Ry: func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.U3, op.Qubits[0], op.Params[0], 0, 0)}
		},
		circuit.Rz: func(op circuit.Operation) []circuit.Operation {
			return []circuit.Operation{g1(circuit.U1, op.Qubits[0], op.Params[0])}
		},
		circuit.CY:   cyRule,
		circuit.CZ:   czRule,
		circuit.SWAP: swapRule,
		circuit.CCX:  toffoli,
	}
	return NewRebase("RebaseU3CX", U3CXGateSet(), rules)
}

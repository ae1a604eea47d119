// Package pytket provides a mixed quantum/classical circuit intermediate
// representation and its compilation pipeline: conditional operations, box
// decomposition, gate rebasing, and a basic-block control-flow graph.
//
// The building blocks live in sub-packages:
//   - circuit: qubit/bit registers, conditions, operations, boxes
//   - passes: DecomposeBoxes, Rebase, Sequence
//   - program: control-flow graphs of basic blocks
//   - backend: the execution boundary and shot results
//   - qasm: OpenQASM 2.0 export
package pytket

import (
	"github.com/blang/semver/v4"
	"github.com/hapel-cqc/pytket/circuit"
)

var Version = semver.MustParse("0.1.0")

// StandardGates returns the primitive gate vocabulary understood by the
// builders and the predefined rebases.
func StandardGates() []circuit.OpType {
	return []circuit.OpType{
		circuit.H,
		circuit.X,
		circuit.Y,
		circuit.Z,
		circuit.S,
		circuit.Sdg,
		circuit.T,
		circuit.Tdg,
		circuit.Rx,
		circuit.Ry,
		circuit.Rz,
		circuit.U1,
		circuit.U2,
		circuit.U3,
		circuit.CX,
		circuit.CY,
		circuit.CZ,
		circuit.SWAP,
		circuit.CCX,
	}
}

// Package backend defines the execution boundary of the compilation
// pipeline.
//
// A Backend consumes compiled circuits and produces shot counts. Execution
// engines (simulators, hardware) are external collaborators and may be slow,
// asynchronous or remote; the core only guarantees that a circuit compiled
// through the backend's default passes contains gate kinds the backend
// accepts.
package backend

import "github.com/hapel-cqc/pytket/circuit"

// Backend executes circuits. Implementations are injected by the caller;
// there is no global backend registry.
type Backend interface {
	// Compile applies the backend-mandated default passes and returns a
	// circuit acceptable to Run.
	Compile(c *circuit.Circuit) (*circuit.Circuit, error)

	// Run executes the compiled circuit for the given number of shots and
	// returns the observed outcome counts.
	Run(c *circuit.Circuit, shots int) (*Result, error)
}

// Package circuit implements a mixed quantum/classical circuit intermediate
// representation.
//
// A Circuit is an ordered, append-only sequence of operations over typed
// qubit and bit identifiers grouped into named registers. Any operation may
// carry a classical Condition guarding its execution. Reusable sub-circuits
// (boxes) are registered in an explicit Registry and embedded as single
// compound operations; compilation passes (see the passes package) inline
// and rewrite them while preserving conditional semantics.
//
// Circuit values are not safe for concurrent mutation; distinct circuits may
// be built and compiled concurrently without cross-talk.
package circuit

import (
	"fmt"
	"strconv"
)

// DefaultQRegName is the register name used by convenience constructors for
// qubits.
const DefaultQRegName = "q"

// DefaultCRegName is the register name used by convenience constructors for
// classical bits.
const DefaultCRegName = "c"

// Qubit identifies a single qubit as (register name, index). Qubits and Bits
// are disjoint identifier spaces; two qubits are equal iff both fields match.
type Qubit struct {
	Reg   string
	Index int
}

func (q Qubit) String() string {
	return q.Reg + "[" + strconv.Itoa(q.Index) + "]"
}

// Bit identifies a single classical bit as (register name, index).
type Bit struct {
	Reg   string
	Index int
}

func (b Bit) String() string {
	return b.Reg + "[" + strconv.Itoa(b.Index) + "]"
}

// Q is shorthand for a qubit in the default quantum register.
func Q(index int) Qubit {
	return Qubit{Reg: DefaultQRegName, Index: index}
}

// C is shorthand for a bit in the default classical register.
func C(index int) Bit {
	return Bit{Reg: DefaultCRegName, Index: index}
}

func validUnit(reg string, index int) error {
	if reg == "" {
		return fmt.Errorf("%w: empty register name", ErrArgument)
	}
	if index < 0 {
		return fmt.Errorf("%w: negative index %d in register %s", ErrArgument, index, reg)
	}
	return nil
}

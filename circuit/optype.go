package circuit

// OpType identifies the kind of an Operation. Gate parameters are expressed
// in half-turns (multiples of pi).
type OpType uint8

const (
	Invalid OpType = iota

	// single-qubit gates
	H
	X
	Y
	Z
	S
	Sdg
	T
	Tdg
	Rx
	Ry
	Rz
	U1
	U2
	U3

	// multi-qubit gates
	CX
	CY
	CZ
	SWAP
	CCX

	// non-gate instructions
	Measure
	Reset
	Barrier

	// BoxOp embeds a registered sub-circuit as a single compound operation.
	BoxOp

	// flow-control markers, used by program basic blocks
	Label
	Branch
	Goto
	Stop

	maxOpType
)

// signature fixes the arity of an operation kind. A negative qubit count
// marks a variadic kind (Barrier).
type signature struct {
	qubits, bits, params int
}

var signatures = [maxOpType]signature{
	H:       {1, 0, 0},
	X:       {1, 0, 0},
	Y:       {1, 0, 0},
	Z:       {1, 0, 0},
	S:       {1, 0, 0},
	Sdg:     {1, 0, 0},
	T:       {1, 0, 0},
	Tdg:     {1, 0, 0},
	Rx:      {1, 0, 1},
	Ry:      {1, 0, 1},
	Rz:      {1, 0, 1},
	U1:      {1, 0, 1},
	U2:      {1, 0, 2},
	U3:      {1, 0, 3},
	CX:      {2, 0, 0},
	CY:      {2, 0, 0},
	CZ:      {2, 0, 0},
	SWAP:    {2, 0, 0},
	CCX:     {3, 0, 0},
	Measure: {1, 1, 0},
	Reset:   {1, 0, 0},
	Barrier: {-1, 0, 0},
	BoxOp:   {-1, -1, 0},
	Branch:  {0, 1, 0},
}

var opNames = [maxOpType]string{
	Invalid: "Invalid",
	H:       "H",
	X:       "X",
	Y:       "Y",
	Z:       "Z",
	S:       "S",
	Sdg:     "Sdg",
	T:       "T",
	Tdg:     "Tdg",
	Rx:      "Rx",
	Ry:      "Ry",
	Rz:      "Rz",
	U1:      "U1",
	U2:      "U2",
	U3:      "U3",
	CX:      "CX",
	CY:      "CY",
	CZ:      "CZ",
	SWAP:    "SWAP",
	CCX:     "CCX",
	Measure: "Measure",
	Reset:   "Reset",
	Barrier: "Barrier",
	BoxOp:   "Box",
	Label:   "Label",
	Branch:  "Branch",
	Goto:    "Goto",
	Stop:    "Stop",
}

func (t OpType) String() string {
	if t >= maxOpType {
		return opNames[Invalid]
	}
	return opNames[t]
}

// IsGate reports whether t is a primitive unitary gate, i.e. subject to
// rebasing. Measurements, resets, barriers, boxes and flow markers are not
// gates.
func (t OpType) IsGate() bool {
	return t >= H && t <= CCX
}

// IsFlow reports whether t is a flow-control marker. Flow markers belong to
// program graphs, not circuits.
func (t OpType) IsFlow() bool {
	return t >= Label && t <= Stop
}

func (t OpType) signature() (signature, bool) {
	if t == Invalid || t >= maxOpType {
		return signature{}, false
	}
	return signatures[t], true
}

package qasm

import (
	"bytes"
	"testing"

	"github.com/hapel-cqc/pytket/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportConditionalCircuit(t *testing.T) {
	c := circuit.New("export")
	q, err := c.AddQRegister("q", 2)
	require.NoError(t, err)
	m, err := c.AddCRegister("c", 1)
	require.NoError(t, err)

	require.NoError(t, c.AddGate(circuit.H, nil, []circuit.Qubit{q[0]}))
	require.NoError(t, c.AddGate(circuit.CX, nil, []circuit.Qubit{q[0], q[1]}))
	require.NoError(t, c.AddGate(circuit.Rz, []float64{0.5}, []circuit.Qubit{q[1]}))
	require.NoError(t, c.AddMeasure(q[0], m[0]))
	require.NoError(t, c.AddGate(circuit.X, nil, []circuit.Qubit{q[1]}, circuit.OnBits(m, 1)))

	var buf bytes.Buffer
	require.NoError(t, Export(c, &buf))

	want := "OPENQASM 2.0;\n" +
		"include \"qelib1.inc\";\n\n" +
		"qreg q[2];\n" +
		"creg c[1];\n\n" +
		"h q[0];\n" +
		"cx q[0], q[1];\n" +
		"rz(0.5*pi) q[1];\n" +
		"measure q[0] -> c[0];\n" +
		"if(c==1) x q[1];\n"
	assert.Equal(t, want, buf.String())
}

// a whole multi-bit register in ascending order maps to register equality.
func TestExportWholeRegisterCondition(t *testing.T) {
	c := circuit.New("aligned")
	q, err := c.AddQRegister("q", 1)
	require.NoError(t, err)
	m, err := c.AddCRegister("c", 2)
	require.NoError(t, err)

	require.NoError(t, c.AddGate(circuit.X, nil, []circuit.Qubit{q[0]}, circuit.OnBits(m, 2)))

	var buf bytes.Buffer
	require.NoError(t, Export(c, &buf))
	assert.Contains(t, buf.String(), "if(c==2) x q[0];")
}

func TestExportUnalignedCondition(t *testing.T) {
	c := circuit.New("unaligned")
	q, err := c.AddQRegister("q", 1)
	require.NoError(t, err)
	m, err := c.AddCRegister("c", 2)
	require.NoError(t, err)

	// a strict subset of the register cannot be represented
	require.NoError(t, c.AddGate(circuit.X, nil, []circuit.Qubit{q[0]},
		circuit.OnBits([]circuit.Bit{m[1]}, 1)))

	err = Export(c, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrUnalignedCondition)
}

func TestExportDescendingConditionRejected(t *testing.T) {
	c := circuit.New("descending")
	q, err := c.AddQRegister("q", 1)
	require.NoError(t, err)
	m, err := c.AddCRegister("c", 2)
	require.NoError(t, err)

	// full register but reversed order: the LSB-first value would not match
	// the register comparison
	require.NoError(t, c.AddGate(circuit.X, nil, []circuit.Qubit{q[0]},
		circuit.OnBits([]circuit.Bit{m[1], m[0]}, 1)))

	err = Export(c, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrUnalignedCondition)
}

func TestExportRejectsBox(t *testing.T) {
	reg := circuit.NewRegistry()
	def, err := circuit.NewSimple("noop", 1, 0)
	require.NoError(t, err)
	require.NoError(t, def.AddGate(circuit.X, nil, []circuit.Qubit{circuit.Q(0)}))
	id, err := reg.Register("noop", def)
	require.NoError(t, err)

	c, err := circuit.NewSimple("boxed", 1, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddBox(reg, id, []circuit.Qubit{circuit.Q(0)}, nil))

	err = Export(c, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrUnsupportedOp)
}

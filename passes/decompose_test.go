package passes

import (
	"testing"

	"github.com/hapel-cqc/pytket/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boxed sub-circuit [CX(0,1), X(0), CX(0,1), Measure(1, 0)]
func measureBoxDef(t *testing.T) *circuit.Circuit {
	t.Helper()
	def, err := circuit.NewSimple("repeat", 2, 1)
	require.NoError(t, err)
	require.NoError(t, def.AddGate(circuit.CX, nil, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}))
	require.NoError(t, def.AddGate(circuit.X, nil, []circuit.Qubit{circuit.Q(0)}))
	require.NoError(t, def.AddGate(circuit.CX, nil, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}))
	require.NoError(t, def.AddMeasure(circuit.Q(1), circuit.C(0)))
	return def
}

func TestDecomposeBoxesScenario(t *testing.T) {
	reg := circuit.NewRegistry()
	id, err := reg.Register("repeat", measureBoxDef(t))
	require.NoError(t, err)

	c, err := circuit.NewSimple("host", 2, 1)
	require.NoError(t, err)
	s, err := c.AddCRegister("s", 1)
	require.NoError(t, err)

	args := []circuit.Qubit{circuit.Q(0), circuit.Q(1)}
	bits := []circuit.Bit{circuit.C(0)}
	require.NoError(t, c.AddBox(reg, id, args, bits))
	require.NoError(t, c.AddBox(reg, id, args, bits, circuit.OnBits(s, 0)))

	out, err := DecomposeBoxes(reg).Apply(c)
	require.NoError(t, err)

	ops := out.Operations()
	require.Len(t, ops, 8)

	wantTypes := []circuit.OpType{
		circuit.CX, circuit.X, circuit.CX, circuit.Measure,
		circuit.CX, circuit.X, circuit.CX, circuit.Measure,
	}
	for i, op := range ops {
		assert.Equal(t, wantTypes[i], op.Type, "op %d", i)
	}
	for i := 0; i < 4; i++ {
		assert.Nil(t, ops[i].Condition, "op %d must stay unconditional", i)
	}
	for i := 4; i < 8; i++ {
		require.NotNil(t, ops[i].Condition, "op %d must be conditioned", i)
		assert.Equal(t, []circuit.Bit{s[0]}, ops[i].Condition.Bits, "op %d", i)
		assert.Equal(t, uint64(0), ops[i].Condition.Value, "op %d", i)
	}
}

func TestDecomposeBoxesIdempotent(t *testing.T) {
	reg := circuit.NewRegistry()
	id, err := reg.Register("repeat", measureBoxDef(t))
	require.NoError(t, err)

	c, err := circuit.NewSimple("host", 2, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddBox(reg, id, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}, []circuit.Bit{circuit.C(0)}))

	pass := DecomposeBoxes(reg)
	once, err := pass.Apply(c)
	require.NoError(t, err)
	twice, err := pass.Apply(once)
	require.NoError(t, err)

	f1, err := once.Fingerprint()
	require.NoError(t, err)
	f2, err := twice.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
}

func TestDecomposeBoxesConservation(t *testing.T) {
	reg := circuit.NewRegistry()
	def := measureBoxDef(t)
	id, err := reg.Register("repeat", def)
	require.NoError(t, err)

	c, err := circuit.NewSimple("host", 2, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(0)}))
	require.NoError(t, c.AddBox(reg, id, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}, []circuit.Bit{circuit.C(0)}))
	require.NoError(t, c.AddMeasure(circuit.Q(0), circuit.C(0)))

	out, err := DecomposeBoxes(reg).Apply(c)
	require.NoError(t, err)

	// 1 (H) + def ops + 1 (Measure)
	assert.Equal(t, 2+def.NumOperations(), out.NumOperations())
}

// an unsatisfiable guard on the box call must stay unsatisfiable on every
// inlined operation, even when the inlined operation carries its own guard.
func TestDecomposeBoxesConjunction(t *testing.T) {
	reg := circuit.NewRegistry()

	def, err := circuit.NewSimple("guarded", 1, 1)
	require.NoError(t, err)
	require.NoError(t, def.AddGate(circuit.X, nil, []circuit.Qubit{circuit.Q(0)},
		circuit.OnBits([]circuit.Bit{circuit.C(0)}, 1)))
	id, err := reg.Register("guarded", def)
	require.NoError(t, err)

	c, err := circuit.NewSimple("host", 1, 0)
	require.NoError(t, err)
	s, err := c.AddCRegister("s", 1)
	require.NoError(t, err)

	// the call binds the definition's bit to s[0] and also guards on s[0]==0:
	// the inlined guard requires s[0]==1 and s[0]==0 at once
	require.NoError(t, c.AddBox(reg, id, []circuit.Qubit{circuit.Q(0)}, []circuit.Bit{s[0]},
		circuit.OnBits(s, 0)))

	out, err := DecomposeBoxes(reg).Apply(c)
	require.NoError(t, err)

	ops := out.Operations()
	require.Len(t, ops, 1)
	require.NotNil(t, ops[0].Condition)
	assert.False(t, ops[0].Condition.Satisfiable())
}

func TestDecomposeBoxesNested(t *testing.T) {
	reg := circuit.NewRegistry()

	inner, err := circuit.NewSimple("inner", 1, 0)
	require.NoError(t, err)
	require.NoError(t, inner.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(0)}))
	innerID, err := reg.Register("inner", inner)
	require.NoError(t, err)

	outer, err := circuit.NewSimple("outer", 2, 0)
	require.NoError(t, err)
	require.NoError(t, outer.AddBox(reg, innerID, []circuit.Qubit{circuit.Q(1)}, nil))
	require.NoError(t, outer.AddGate(circuit.CX, nil, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}))
	outerID, err := reg.Register("outer", outer)
	require.NoError(t, err)

	c, err := circuit.NewSimple("host", 2, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddBox(reg, outerID, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}, nil,
		circuit.OnBits([]circuit.Bit{circuit.C(0)}, 1)))

	out, err := DecomposeBoxes(reg).Apply(c)
	require.NoError(t, err)

	ops := out.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, circuit.H, ops[0].Type)
	assert.Equal(t, []circuit.Qubit{circuit.Q(1)}, ops[0].Qubits)
	assert.Equal(t, circuit.CX, ops[1].Type)
	for i, op := range ops {
		require.NotNil(t, op.Condition, "op %d", i)
		assert.Equal(t, []circuit.Bit{circuit.C(0)}, op.Condition.Bits)
		assert.Equal(t, uint64(1), op.Condition.Value)
	}
}

func TestDecomposeBoxesUnresolved(t *testing.T) {
	reg := circuit.NewRegistry()
	id, err := reg.Register("repeat", measureBoxDef(t))
	require.NoError(t, err)

	c, err := circuit.NewSimple("host", 2, 1)
	require.NoError(t, err)
	// bypass AddBox's eager check to exercise the pass-time binding failure
	require.NoError(t, c.AddOperation(circuit.Operation{
		Type:   circuit.BoxOp,
		Qubits: []circuit.Qubit{circuit.Q(0)},
		Box:    id,
	}))

	_, err = DecomposeBoxes(reg).Apply(c)
	require.ErrorIs(t, err, circuit.ErrUnresolvedBox)
}

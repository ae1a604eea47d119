package passes

import (
	"testing"

	"github.com/hapel-cqc/pytket/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func inGateSet(t *testing.T, c *circuit.Circuit, target GateSet) {
	t.Helper()
	for i, op := range c.Operations() {
		if !op.Type.IsGate() {
			continue
		}
		assert.True(t, target.Contains(op.Type), "op %d (%s) outside target %s", i, op.Type, target)
	}
}

func TestGateSet(t *testing.T) {
	g := NewGateSet(circuit.Rz, circuit.Rx, circuit.CX)
	assert.True(t, g.Contains(circuit.Rz))
	assert.False(t, g.Contains(circuit.H))
	assert.Equal(t, []circuit.OpType{circuit.Rx, circuit.Rz, circuit.CX}, g.Types())
	assert.Equal(t, "{Rx, Rz, CX}", g.String())
}

func TestRebaseRzRxCX(t *testing.T) {
	c, err := circuit.NewSimple("mixed", 3, 2)
	require.NoError(t, err)
	require.NoError(t, c.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(0)}))
	require.NoError(t, c.AddGate(circuit.T, nil, []circuit.Qubit{circuit.Q(1)}))
	require.NoError(t, c.AddGate(circuit.CZ, nil, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}))
	require.NoError(t, c.AddGate(circuit.CCX, nil, []circuit.Qubit{circuit.Q(0), circuit.Q(1), circuit.Q(2)}))
	require.NoError(t, c.AddMeasure(circuit.Q(0), circuit.C(0)))

	out, err := RebaseRzRxCX().Apply(c)
	require.NoError(t, err)
	inGateSet(t, out, RzRxCXGateSet())

	// the measurement passes through unmodified, in sequence position
	ops := out.Operations()
	assert.Equal(t, circuit.Measure, ops[len(ops)-1].Type)
}

func TestRebaseCopiesConditions(t *testing.T) {
	c, err := circuit.NewSimple("cond", 1, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(0)},
		circuit.OnBits([]circuit.Bit{circuit.C(0)}, 1)))

	out, err := RebaseRzRxCX().Apply(c)
	require.NoError(t, err)

	ops := out.Operations()
	require.Len(t, ops, 3) // H -> Rz, Rx, Rz
	for i, op := range ops {
		require.NotNil(t, op.Condition, "op %d lost its condition", i)
		assert.Equal(t, []circuit.Bit{circuit.C(0)}, op.Condition.Bits)
		assert.Equal(t, uint64(1), op.Condition.Value)
	}
}

func TestRebaseIdempotentOnTarget(t *testing.T) {
	c, err := circuit.NewSimple("native", 2, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddGate(circuit.Rz, []float64{0.25}, []circuit.Qubit{circuit.Q(0)}))
	require.NoError(t, c.AddGate(circuit.Rx, []float64{1}, []circuit.Qubit{circuit.Q(1)}))
	require.NoError(t, c.AddGate(circuit.CX, nil, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}))

	out, err := RebaseRzRxCX().Apply(c)
	require.NoError(t, err)

	fin, err := c.Fingerprint()
	require.NoError(t, err)
	fout, err := out.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fin, fout)
}

func TestRebaseU3CX(t *testing.T) {
	c, err := circuit.NewSimple("mixed", 2, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(0)}))
	require.NoError(t, c.AddGate(circuit.Ry, []float64{0.3}, []circuit.Qubit{circuit.Q(1)}))
	require.NoError(t, c.AddGate(circuit.SWAP, nil, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}))

	out, err := RebaseU3CX().Apply(c)
	require.NoError(t, err)
	inGateSet(t, out, U3CXGateSet())

	ops := out.Operations()
	assert.Equal(t, circuit.U2, ops[0].Type)
	assert.Equal(t, []float64{0, 1}, ops[0].Params)
}

func TestRebaseUnsupportedGate(t *testing.T) {
	c, err := circuit.NewSimple("nohope", 1, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(0)}))

	pass := NewRebase("Empty", NewGateSet(circuit.CX), nil)
	_, err = pass.Apply(c)
	require.ErrorIs(t, err, circuit.ErrUnsupportedGate)
}

func TestSequenceDecomposeThenRebase(t *testing.T) {
	reg := circuit.NewRegistry()
	def, err := circuit.NewSimple("bell", 2, 0)
	require.NoError(t, err)
	require.NoError(t, def.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(0)}))
	require.NoError(t, def.AddGate(circuit.CX, nil, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}))
	id, err := reg.Register("bell", def)
	require.NoError(t, err)

	c, err := circuit.NewSimple("host", 2, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddBox(reg, id, []circuit.Qubit{circuit.Q(0), circuit.Q(1)}, nil,
		circuit.OnBits([]circuit.Bit{circuit.C(0)}, 1)))

	out, err := Sequence(DecomposeBoxes(reg), RebaseRzRxCX()).Apply(c)
	require.NoError(t, err)
	inGateSet(t, out, RzRxCXGateSet())

	for i, op := range out.Operations() {
		require.NotNil(t, op.Condition, "op %d lost the box condition", i)
	}
}

func TestSequenceErrorNamesPass(t *testing.T) {
	c, err := circuit.NewSimple("nohope", 1, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(0)}))

	_, err = Sequence(NewRebase("Empty", NewGateSet(circuit.CX), nil)).Apply(c)
	require.ErrorIs(t, err, circuit.ErrUnsupportedGate)
	assert.Contains(t, err.Error(), "Empty")
}

// independent circuits may be compiled concurrently with no cross-talk.
func TestConcurrentCompilation(t *testing.T) {
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			c, err := circuit.NewSimple("worker", 3, 1)
			if err != nil {
				return err
			}
			for j := 0; j < 50; j++ {
				if err := c.AddGate(circuit.H, nil, []circuit.Qubit{circuit.Q(j % 3)}); err != nil {
					return err
				}
				if err := c.AddGate(circuit.CCX, nil,
					[]circuit.Qubit{circuit.Q(0), circuit.Q(1), circuit.Q(2)}); err != nil {
					return err
				}
			}
			_, err = RebaseRzRxCX().Apply(c)
			return err
		})
	}
	require.NoError(t, g.Wait())
}

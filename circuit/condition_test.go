package circuit

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func condBits(k int) []Bit {
	bits := make([]Bit, k)
	for i := range bits {
		bits[i] = C(i)
	}
	return bits
}

func TestConditionValueBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	properties.Property("NewCondition accepts value iff value < 2^k", prop.ForAll(
		func(k int, value uint64) bool {
			_, err := NewCondition(condBits(k), value)
			if value < 1<<uint(k) {
				return err == nil
			}
			return errors.Is(err, ErrArgument)
		},
		gen.IntRange(0, 8),
		gen.UInt64Range(0, 1<<10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestConditionDegenerateForm(t *testing.T) {
	cond, err := NewCondition(nil, 0)
	require.NoError(t, err)
	assert.True(t, cond.IsTrivial())
	assert.True(t, cond.Satisfiable())

	_, err = NewCondition(nil, 1)
	require.ErrorIs(t, err, ErrArgument)
}

func TestConditionAnd(t *testing.T) {
	a, err := NewCondition([]Bit{C(0)}, 1)
	require.NoError(t, err)
	b, err := NewCondition([]Bit{C(1), C(2)}, 2)
	require.NoError(t, err)

	both, err := a.And(b)
	require.NoError(t, err)
	assert.Equal(t, []Bit{C(0), C(1), C(2)}, both.Bits)
	// 1 | 2<<1
	assert.Equal(t, uint64(5), both.Value)
	assert.True(t, both.Satisfiable())

	// conjunction with the trivial condition is the identity
	id, err := a.And(Condition{})
	require.NoError(t, err)
	assert.Equal(t, a, id)
}

func TestConditionConflictUnsatisfiable(t *testing.T) {
	one, err := NewCondition([]Bit{C(0)}, 1)
	require.NoError(t, err)
	zero, err := NewCondition([]Bit{C(0)}, 0)
	require.NoError(t, err)

	both, err := one.And(zero)
	require.NoError(t, err)
	assert.False(t, both.Satisfiable())
}

func TestConditionString(t *testing.T) {
	cond, err := NewCondition([]Bit{C(0), C(1)}, 2)
	require.NoError(t, err)
	assert.Equal(t, "[c[0], c[1]] == 2", cond.String())

	assert.Equal(t, "[] == 0", Condition{}.String())
}

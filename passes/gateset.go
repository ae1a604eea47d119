package passes

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/hapel-cqc/pytket/circuit"
)

// GateSet is a closed set of primitive gate kinds, used as a rebase target.
type GateSet struct {
	b *bitset.BitSet
}

// NewGateSet builds a gate set from the given kinds.
func NewGateSet(types ...circuit.OpType) GateSet {
	g := GateSet{b: bitset.New(64)}
	for _, t := range types {
		g.b.Set(uint(t))
	}
	return g
}

// Contains reports whether t is in the set.
func (g GateSet) Contains(t circuit.OpType) bool {
	return g.b != nil && g.b.Test(uint(t))
}

// Types returns the members of the set in OpType order.
func (g GateSet) Types() []circuit.OpType {
	var out []circuit.OpType
	if g.b == nil {
		return out
	}
	for i, ok := g.b.NextSet(0); ok; i, ok = g.b.NextSet(i + 1) {
		out = append(out, circuit.OpType(i))
	}
	return out
}

func (g GateSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, t := range g.Types() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

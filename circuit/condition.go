package circuit

import (
	"fmt"
	"strings"
)

// MaxConditionBits bounds the width of a single condition so its value fits
// a uint64. Conjunctions exceeding this width are rejected.
const MaxConditionBits = 64

// Condition guards an operation on the exact equality of a set of classical
// bit values to a target integer. The bits are read in the given order and
// interpreted LSB-first: bit 0 of Value corresponds to Bits[0]. A condition
// is evaluated at the moment its operation would execute, using the most
// recent values written to those bits.
//
// The degenerate form (no bits, value 0) is equivalent to an unconditional
// operation and is preserved as-is by all passes.
type Condition struct {
	Bits  []Bit
	Value uint64
}

// NewCondition builds a condition over bits with the given target value.
// Returns ErrArgument if the value is out of range for the bit count, or if
// the bit list is wider than MaxConditionBits.
func NewCondition(bits []Bit, value uint64) (Condition, error) {
	if len(bits) > MaxConditionBits {
		return Condition{}, fmt.Errorf("%w: condition over %d bits exceeds the %d bit limit", ErrArgument, len(bits), MaxConditionBits)
	}
	if len(bits) < MaxConditionBits && value >= 1<<uint(len(bits)) {
		return Condition{}, fmt.Errorf("%w: condition value %d out of range for %d bits", ErrArgument, value, len(bits))
	}
	for _, b := range bits {
		if err := validUnit(b.Reg, b.Index); err != nil {
			return Condition{}, err
		}
	}
	c := Condition{Bits: make([]Bit, len(bits)), Value: value}
	copy(c.Bits, bits)
	return c, nil
}

// IsTrivial reports whether the condition is the degenerate always-true
// form.
func (c Condition) IsTrivial() bool {
	return len(c.Bits) == 0 && c.Value == 0
}

// And returns the conjunction of two conditions as a single condition: the
// bit lists are concatenated and the values combined, so both equalities
// must hold independently. If the same bit appears with conflicting required
// values the result is unsatisfiable, never silently dropped.
func (c Condition) And(other Condition) (Condition, error) {
	if c.IsTrivial() {
		return other.clone(), nil
	}
	if other.IsTrivial() {
		return c.clone(), nil
	}
	if len(c.Bits)+len(other.Bits) > MaxConditionBits {
		return Condition{}, fmt.Errorf("%w: conjunction over %d bits exceeds the %d bit limit",
			ErrArgument, len(c.Bits)+len(other.Bits), MaxConditionBits)
	}
	out := Condition{
		Bits:  make([]Bit, 0, len(c.Bits)+len(other.Bits)),
		Value: c.Value | other.Value<<uint(len(c.Bits)),
	}
	out.Bits = append(out.Bits, c.Bits...)
	out.Bits = append(out.Bits, other.Bits...)
	return out, nil
}

// Satisfiable reports whether some assignment of bit values meets the
// condition. A condition is unsatisfiable only when the same bit is required
// to read both 0 and 1.
func (c Condition) Satisfiable() bool {
	required := make(map[Bit]uint64, len(c.Bits))
	for i, b := range c.Bits {
		v := (c.Value >> uint(i)) & 1
		if prev, ok := required[b]; ok && prev != v {
			return false
		}
		required[b] = v
	}
	return true
}

func (c Condition) clone() Condition {
	out := Condition{Bits: make([]Bit, len(c.Bits)), Value: c.Value}
	copy(out.Bits, c.Bits)
	return out
}

// String renders the condition in the form "[c[0], c[1]] == 2".
func (c Condition) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, b := range c.Bits {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.String())
	}
	fmt.Fprintf(&sb, "] == %d", c.Value)
	return sb.String()
}

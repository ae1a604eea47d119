package circuit

import (
	"fmt"
	"strings"

	"github.com/hapel-cqc/pytket/profile"
)

// Circuit is an ordered sequence of operations over a set of qubits and
// bits. It is mutated only by append-style calls; compilation passes never
// edit a circuit in place, they construct a replacement. Builder calls are
// atomic: a failing call commits no partial mutation.
type Circuit struct {
	name string

	qubits []Qubit
	bits   []Bit
	qset   map[Qubit]struct{}
	bset   map[Bit]struct{}

	ops []Operation
}

// New returns an empty named circuit with no registers.
func New(name string) *Circuit {
	return &Circuit{
		name: name,
		qset: make(map[Qubit]struct{}),
		bset: make(map[Bit]struct{}),
	}
}

// NewSimple returns a circuit with nbQubits qubits in register "q" and
// nbBits bits in register "c".
func NewSimple(name string, nbQubits, nbBits int) (*Circuit, error) {
	c := New(name)
	if _, err := c.AddQRegister(DefaultQRegName, nbQubits); err != nil {
		return nil, err
	}
	if nbBits > 0 {
		if _, err := c.AddCRegister(DefaultCRegName, nbBits); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Name returns the circuit name.
func (c *Circuit) Name() string { return c.name }

// NumQubits returns the number of qubits owned by the circuit.
func (c *Circuit) NumQubits() int { return len(c.qubits) }

// NumBits returns the number of classical bits owned by the circuit.
func (c *Circuit) NumBits() int { return len(c.bits) }

// NumOperations returns the number of appended operations.
func (c *Circuit) NumOperations() int { return len(c.ops) }

// Qubits returns the circuit's qubits in registration order.
func (c *Circuit) Qubits() []Qubit {
	return append([]Qubit(nil), c.qubits...)
}

// Bits returns the circuit's bits in registration order.
func (c *Circuit) Bits() []Bit {
	return append([]Bit(nil), c.bits...)
}

// Operations returns a read-only ordered view of the circuit's operations.
// Callers must not mutate the returned operations.
func (c *Circuit) Operations() []Operation {
	return append([]Operation(nil), c.ops...)
}

// AddQubit registers a single qubit. Returns ErrDuplicateID if the
// identifier already exists.
func (c *Circuit) AddQubit(q Qubit) error {
	if err := validUnit(q.Reg, q.Index); err != nil {
		return annotate(err)
	}
	if _, ok := c.qset[q]; ok {
		return annotate(fmt.Errorf("%w: qubit %s", ErrDuplicateID, q))
	}
	c.qset[q] = struct{}{}
	c.qubits = append(c.qubits, q)
	return nil
}

// AddBit registers a single classical bit. Returns ErrDuplicateID if the
// identifier already exists.
func (c *Circuit) AddBit(b Bit) error {
	if err := validUnit(b.Reg, b.Index); err != nil {
		return annotate(err)
	}
	if _, ok := c.bset[b]; ok {
		return annotate(fmt.Errorf("%w: bit %s", ErrDuplicateID, b))
	}
	c.bset[b] = struct{}{}
	c.bits = append(c.bits, b)
	return nil
}

// AddQRegister creates a named quantum register of the given size with
// indices 0..size-1 and returns its qubits. Registers are created by
// explicit request only and never silently expanded.
func (c *Circuit) AddQRegister(name string, size int) ([]Qubit, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: register %s size %d", ErrArgument, name, size)
	}
	qs := make([]Qubit, size)
	for i := range qs {
		qs[i] = Qubit{Reg: name, Index: i}
		if _, ok := c.qset[qs[i]]; ok {
			return nil, fmt.Errorf("%w: qubit %s", ErrDuplicateID, qs[i])
		}
	}
	for _, q := range qs {
		c.qset[q] = struct{}{}
	}
	c.qubits = append(c.qubits, qs...)
	return qs, nil
}

// AddCRegister creates a named classical register of the given size with
// indices 0..size-1 and returns its bits.
func (c *Circuit) AddCRegister(name string, size int) ([]Bit, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: register %s size %d", ErrArgument, name, size)
	}
	bs := make([]Bit, size)
	for i := range bs {
		bs[i] = Bit{Reg: name, Index: i}
		if _, ok := c.bset[bs[i]]; ok {
			return nil, fmt.Errorf("%w: bit %s", ErrDuplicateID, bs[i])
		}
	}
	for _, b := range bs {
		c.bset[b] = struct{}{}
	}
	c.bits = append(c.bits, bs...)
	return bs, nil
}

// HasQubit reports whether q belongs to the circuit.
func (c *Circuit) HasQubit(q Qubit) bool {
	_, ok := c.qset[q]
	return ok
}

// HasBit reports whether b belongs to the circuit.
func (c *Circuit) HasBit(b Bit) bool {
	_, ok := c.bset[b]
	return ok
}

// RegisterBits returns the bits of the named classical register in ascending
// index order.
func (c *Circuit) RegisterBits(name string) []Bit {
	var out []Bit
	for _, b := range c.bits {
		if b.Reg == name {
			out = append(out, b)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Index < out[j-1].Index; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// AddOperation validates and appends an operation. This is the single entry
// point all gate, measurement and box helpers route through. Returns
// ErrArgument on arity mismatch or when any argument (including condition
// bits) is not registered in the circuit.
func (c *Circuit) AddOperation(op Operation) error {
	if err := c.checkOperation(op); err != nil {
		return annotate(err)
	}

	c.ops = append(c.ops, op.Clone())
	if op.Type.IsGate() {
		profile.RecordGate()
	}
	return nil
}

func (c *Circuit) checkOperation(op Operation) error {
	sig, ok := op.Type.signature()
	if !ok {
		return fmt.Errorf("%w: unknown operation kind", ErrArgument)
	}
	if op.Type.IsFlow() {
		return fmt.Errorf("%w: flow marker %s cannot be appended to a circuit", ErrArgument, op.Type)
	}
	if sig.qubits >= 0 && len(op.Qubits) != sig.qubits {
		return fmt.Errorf("%w: %s expects %d qubits, got %d", ErrArgument, op.Type, sig.qubits, len(op.Qubits))
	}
	if sig.bits >= 0 && len(op.Bits) != sig.bits {
		return fmt.Errorf("%w: %s expects %d bits, got %d", ErrArgument, op.Type, sig.bits, len(op.Bits))
	}
	if len(op.Params) != sig.params && sig.params >= 0 {
		return fmt.Errorf("%w: %s expects %d parameters, got %d", ErrArgument, op.Type, sig.params, len(op.Params))
	}
	for _, q := range op.Qubits {
		if !c.HasQubit(q) {
			return fmt.Errorf("%w: qubit %s not in circuit", ErrArgument, q)
		}
	}
	for _, b := range op.Bits {
		if !c.HasBit(b) {
			return fmt.Errorf("%w: bit %s not in circuit", ErrArgument, b)
		}
	}
	if op.Condition != nil {
		if len(op.Condition.Bits) > MaxConditionBits {
			return fmt.Errorf("%w: condition over %d bits, at most %d supported", ErrArgument, len(op.Condition.Bits), MaxConditionBits)
		}
		if len(op.Condition.Bits) < MaxConditionBits && op.Condition.Value >= 1<<uint(len(op.Condition.Bits)) {
			return fmt.Errorf("%w: condition value %d out of range for %d bits", ErrArgument, op.Condition.Value, len(op.Condition.Bits))
		}
		for _, b := range op.Condition.Bits {
			if !c.HasBit(b) {
				return fmt.Errorf("%w: condition bit %s not in circuit", ErrArgument, b)
			}
		}
	}
	return nil
}

// AddGate appends a primitive gate over the given qubits. An optional
// condition is attached through the WithCondition option.
func (c *Circuit) AddGate(t OpType, params []float64, qubits []Qubit, opts ...OpOption) error {
	if !t.IsGate() && t != Barrier && t != Reset {
		return fmt.Errorf("%w: %s is not a gate", ErrArgument, t)
	}
	cfg, err := newOpConfig(opts...)
	if err != nil {
		return err
	}
	return c.AddOperation(Operation{
		Type:      t,
		Params:    params,
		Qubits:    qubits,
		Condition: cfg.condition,
	})
}

// AddMeasure appends a measurement of q into b.
func (c *Circuit) AddMeasure(q Qubit, b Bit, opts ...OpOption) error {
	cfg, err := newOpConfig(opts...)
	if err != nil {
		return err
	}
	return c.AddOperation(Operation{
		Type:      Measure,
		Qubits:    []Qubit{q},
		Bits:      []Bit{b},
		Condition: cfg.condition,
	})
}

// AddBox appends a call to a registered box, binding the definition's
// internal qubits and bits positionally to the supplied arguments. Returns
// ErrUnresolvedBox if the argument counts do not match the definition.
func (c *Circuit) AddBox(reg *Registry, id BoxID, qubits []Qubit, bits []Bit, opts ...OpOption) error {
	def, err := reg.Get(id)
	if err != nil {
		return err
	}
	if len(qubits) != def.NumQubits() || len(bits) != def.NumBits() {
		return fmt.Errorf("%w: box %s expects %d qubits and %d bits, got %d and %d",
			ErrUnresolvedBox, reg.BoxName(id), def.NumQubits(), def.NumBits(), len(qubits), len(bits))
	}
	cfg, err := newOpConfig(opts...)
	if err != nil {
		return err
	}
	return c.AddOperation(Operation{
		Type:      BoxOp,
		Qubits:    qubits,
		Bits:      bits,
		Box:       id,
		Condition: cfg.condition,
	})
}

// EmptyLike returns a new circuit with the same name, qubits and bits, and
// no operations. Passes use it to build replacement circuits preserving
// external identifiers.
func (c *Circuit) EmptyLike() *Circuit {
	out := New(c.name)
	out.qubits = append(out.qubits, c.qubits...)
	out.bits = append(out.bits, c.bits...)
	for _, q := range c.qubits {
		out.qset[q] = struct{}{}
	}
	for _, b := range c.bits {
		out.bset[b] = struct{}{}
	}
	return out
}

// Clone returns a deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	out := c.EmptyLike()
	out.ops = make([]Operation, 0, len(c.ops))
	for _, op := range c.ops {
		out.ops = append(out.ops, op.Clone())
	}
	return out
}

// String renders the circuit's operations in order, one per line, each
// annotated with its condition if present.
func (c *Circuit) String() string {
	var sb strings.Builder
	for _, op := range c.ops {
		sb.WriteString(op.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// OpOption configures an appended operation.
type OpOption func(*opConfig) error

type opConfig struct {
	condition *Condition
}

func newOpConfig(opts ...OpOption) (opConfig, error) {
	var cfg opConfig
	for _, o := range opts {
		if err := o(&cfg); err != nil {
			return opConfig{}, err
		}
	}
	return cfg, nil
}

// WithCondition guards the operation on cond. One condition per operation;
// conjunctions are expressed by selecting multiple bits into a single
// condition.
func WithCondition(cond Condition) OpOption {
	return func(cfg *opConfig) error {
		if cfg.condition != nil {
			return fmt.Errorf("%w: operation already has a condition", ErrArgument)
		}
		c := cond.clone()
		cfg.condition = &c
		return nil
	}
}

// OnBits guards the operation on the given bits reading (LSB-first) the
// given value.
func OnBits(bits []Bit, value uint64) OpOption {
	return func(cfg *opConfig) error {
		cond, err := NewCondition(bits, value)
		if err != nil {
			return err
		}
		return WithCondition(cond)(cfg)
	}
}

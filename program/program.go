// Package program implements a control-flow graph of basic blocks.
//
// Each block wraps exactly one circuit; edges are unconditional gotos or
// single-bit conditional branches. A Branch jumps to its target label when
// the bit reads 1 and takes its fall-through edge when the bit reads 0. The
// fall-through edge is explicit (rendered as a Goto), so program semantics
// never depend on physical block adjacency.
//
// Programs are built incrementally by structured appends (sequencing,
// if/else, while) or by placing labels and raw branch/goto edges, then
// checked by Finalize. Like circuits, a program is privately owned by its
// builder and not internally synchronized.
package program

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/hapel-cqc/pytket/circuit"
	"github.com/hapel-cqc/pytket/logger"
)

type exitKind uint8

const (
	// exitNext falls through to the next block in layout order, or Stop
	// after the last block.
	exitNext exitKind = iota
	exitGoto
	exitBranch
	exitStop
)

type block struct {
	label string
	circ  *circuit.Circuit
	kind  exitKind
	bit   circuit.Bit // branch condition
	taken string      // branch target (bit == 1) or goto target
	next  string      // branch fall-through target (bit == 0)
}

// Program is a directed graph of basic blocks with one entry (the first
// block) and an implicit Stop terminator after the last control path.
type Program struct {
	name      string
	blocks    []*block
	placed    map[string]int // label -> block index
	reserved  map[string]struct{}
	nextLabel int
	finalized bool
}

// New returns an empty named program.
func New(name string) *Program {
	return &Program{
		name:     name,
		placed:   make(map[string]int),
		reserved: make(map[string]struct{}),
	}
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// NumBlocks returns the number of blocks in the graph.
func (p *Program) NumBlocks() int { return len(p.blocks) }

// NewLabel reserves a fresh label for later placement.
func (p *Program) NewLabel() string {
	l := "L" + strconv.Itoa(p.nextLabel)
	p.nextLabel++
	p.reserved[l] = struct{}{}
	return l
}

// AddCircuit appends a block wrapping c at the end of the program; control
// falls through from the previous block.
func (p *Program) AddCircuit(c *circuit.Circuit) {
	p.PlaceLabel(p.NewLabel(), c)
}

// PlaceLabel appends a block wrapping c under the given label. Control falls
// through from the previous block.
func (p *Program) PlaceLabel(label string, c *circuit.Circuit) {
	if c == nil {
		c = circuit.New("")
	}
	p.reserved[label] = struct{}{}
	p.placed[label] = len(p.blocks)
	p.blocks = append(p.blocks, &block{label: label, circ: c})
	p.finalized = false
}

// AddGoto makes the last block jump unconditionally to label. The label must
// be placed by Finalize time.
func (p *Program) AddGoto(label string) {
	b := p.tail()
	b.kind = exitGoto
	b.taken = label
	p.finalized = false
}

// AddBranch makes the last block branch to label when bit reads 1; when it
// reads 0 control falls through to the next block in layout order.
func (p *Program) AddBranch(label string, bit circuit.Bit) {
	b := p.tail()
	b.kind = exitBranch
	b.bit = bit
	b.taken = label
	b.next = "" // resolved to the following block at finalize
	p.finalized = false
}

// AddStop terminates the last block's control path explicitly.
func (p *Program) AddStop() {
	b := p.tail()
	b.kind = exitStop
	p.finalized = false
}

// tail returns the last block, creating an empty entry block if the program
// has none.
func (p *Program) tail() *block {
	if len(p.blocks) == 0 {
		p.AddCircuit(nil)
	}
	return p.blocks[len(p.blocks)-1]
}

// Append splices other's blocks after the current last block; other's entry
// is reached by fall-through and its terminating Stop is elided so control
// continues in the host graph. The spliced blocks are relabeled; other is
// not mutated.
func (p *Program) Append(other *Program) error {
	_, err := p.splice(other)
	return err
}

// splice copies other's blocks into p with fresh labels, rewriting internal
// edges. Returns the label of the first spliced block, or "" if other is
// empty. Stop exits become fall-through exits so the host graph decides what
// follows.
func (p *Program) splice(other *Program) (string, error) {
	if other == nil || len(other.blocks) == 0 {
		return "", nil
	}
	relabel := make(map[string]string, len(other.blocks))
	for _, b := range other.blocks {
		relabel[b.label] = p.NewLabel()
	}
	first := relabel[other.blocks[0].label]
	for _, b := range other.blocks {
		nb := &block{
			label: relabel[b.label],
			circ:  b.circ.Clone(),
			kind:  b.kind,
			bit:   b.bit,
		}
		if b.kind == exitStop {
			nb.kind = exitNext
		}
		if b.taken != "" {
			t, ok := relabel[b.taken]
			if !ok {
				return "", fmt.Errorf("%w: %q in appended program %q", circuit.ErrUnknownLabel, b.taken, other.name)
			}
			nb.taken = t
		}
		if b.next != "" {
			t, ok := relabel[b.next]
			if !ok {
				return "", fmt.Errorf("%w: %q in appended program %q", circuit.ErrUnknownLabel, b.next, other.name)
			}
			nb.next = t
		}
		p.placed[nb.label] = len(p.blocks)
		p.blocks = append(p.blocks, nb)
	}
	p.finalized = false
	return first, nil
}

// AppendIfElse inserts a two-way branch on bit: the then-program's blocks
// run when the bit reads 1, the else-program's when it reads 0, and both
// paths converge on a shared join block before the program continues.
func (p *Program) AppendIfElse(bit circuit.Bit, then, els *Program) error {
	head := p.tail()
	if head.kind != exitNext {
		// previous block already has an explicit exit; branch from a fresh one
		p.AddCircuit(nil)
		head = p.blocks[len(p.blocks)-1]
	}
	join := p.NewLabel()

	thenFirst, err := p.splice(then)
	if err != nil {
		return err
	}
	if thenFirst == "" {
		thenFirst = join
	} else {
		p.blocks[len(p.blocks)-1].ensureExit(join)
	}

	elseFirst, err := p.splice(els)
	if err != nil {
		return err
	}
	if elseFirst == "" {
		elseFirst = join
	} else {
		p.blocks[len(p.blocks)-1].ensureExit(join)
	}

	head.kind = exitBranch
	head.bit = bit
	head.taken = thenFirst
	head.next = elseFirst

	p.PlaceLabel(join, nil)
	return nil
}

// AppendIf is AppendIfElse with an empty else-program.
func (p *Program) AppendIf(bit circuit.Bit, then *Program) error {
	return p.AppendIfElse(bit, then, nil)
}

// AppendWhile runs body repeatedly as long as bit reads 1: a header block
// branches into the body, and the body's last block jumps back to the
// header, forming a deliberate graph cycle.
func (p *Program) AppendWhile(bit circuit.Bit, body *Program) error {
	p.tail() // ensure an entry exists so the header has a predecessor
	headLabel := p.NewLabel()
	done := p.NewLabel()
	p.PlaceLabel(headLabel, nil)
	head := p.blocks[len(p.blocks)-1]

	bodyFirst, err := p.splice(body)
	if err != nil {
		return err
	}
	if bodyFirst == "" {
		bodyFirst = headLabel
	} else {
		p.blocks[len(p.blocks)-1].ensureExit(headLabel)
	}

	head.kind = exitBranch
	head.bit = bit
	head.taken = bodyFirst
	head.next = done

	p.PlaceLabel(done, nil)
	return nil
}

// ensureExit routes a block's unresolved continuation to label: a plain
// fall-through becomes a goto, and a branch with a dangling fall-through has
// it resolved. Blocks whose exits are fully explicit are left alone, so a
// spliced sub-program never falls through into whatever happens to be laid
// out after it.
func (b *block) ensureExit(label string) {
	switch {
	case b.kind == exitNext:
		b.kind = exitGoto
		b.taken = label
	case b.kind == exitBranch && b.next == "":
		b.next = label
	}
}

// Finalize resolves fall-through edges, verifies every referenced label is
// placed (ErrUnknownLabel otherwise) and checks reachability from the entry
// block. The last control path terminates in Stop.
func (p *Program) Finalize() error {
	for i, b := range p.blocks {
		if b.kind == exitNext || b.kind == exitBranch && b.next == "" {
			next := ""
			if i+1 < len(p.blocks) {
				next = p.blocks[i+1].label
			}
			if b.kind == exitNext {
				if next == "" {
					b.kind = exitStop
				} else {
					b.kind = exitGoto
					b.taken = next
				}
			} else if next == "" {
				return fmt.Errorf("%w: branch in final block %q has no fall-through target", circuit.ErrUnknownLabel, b.label)
			} else {
				b.next = next
			}
		}

		targets := make([]string, 0, 2)
		if b.kind == exitGoto || b.kind == exitBranch {
			targets = append(targets, b.taken)
		}
		if b.kind == exitBranch {
			targets = append(targets, b.next)
		}
		for _, t := range targets {
			if _, ok := p.placed[t]; !ok {
				return fmt.Errorf("%w: %q referenced from block %q", circuit.ErrUnknownLabel, t, b.label)
			}
		}
	}

	// reachability from the entry block
	if len(p.blocks) > 0 {
		visited := bitset.New(uint(len(p.blocks)))
		stack := []int{0}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited.Test(uint(i)) {
				continue
			}
			visited.Set(uint(i))
			b := p.blocks[i]
			switch b.kind {
			case exitGoto:
				stack = append(stack, p.placed[b.taken])
			case exitBranch:
				stack = append(stack, p.placed[b.taken], p.placed[b.next])
			}
		}
		if unreachable := uint(len(p.blocks)) - visited.Count(); unreachable > 0 {
			log := logger.Logger()
			log.Warn().Str("program", p.name).Uint("nbBlocks", unreachable).Msg("unreachable blocks")
		}
	}

	p.finalized = true

	log := logger.Logger()
	log.Debug().Str("program", p.name).Int("nbBlocks", len(p.blocks)).Msg("finalized program")
	return nil
}

// String renders the program block by block using the stable textual forms
// Label, Branch <label> <bit>, Goto <label> and Stop.
func (p *Program) String() string {
	var sb strings.Builder
	for i, b := range p.blocks {
		sb.WriteString("Label " + b.label + "\n")
		for _, op := range b.circ.Operations() {
			sb.WriteString(op.String())
			sb.WriteByte('\n')
		}
		switch b.kind {
		case exitStop:
			sb.WriteString("Stop\n")
		case exitGoto:
			sb.WriteString("Goto " + b.taken + "\n")
		case exitBranch:
			sb.WriteString("Branch " + b.taken + " " + b.bit.String() + "\n")
			next := b.next
			if next == "" && i+1 < len(p.blocks) {
				next = p.blocks[i+1].label
			}
			if next == "" {
				sb.WriteString("Stop\n")
			} else {
				sb.WriteString("Goto " + next + "\n")
			}
		default: // exitNext
			if i+1 == len(p.blocks) {
				sb.WriteString("Stop\n")
			}
		}
	}
	return sb.String()
}

package backend

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/hapel-cqc/pytket/circuit"
	"github.com/icza/bitio"
)

// Result maps readout outcomes to shot counts. An outcome is a string of
// '0'/'1' runes, one per readout bit in order: outcome[i] is the value read
// on Bits()[i].
type Result struct {
	bits   []circuit.Bit
	counts map[string]uint64
}

// NewResult returns an empty result over the given readout bits.
func NewResult(bits []circuit.Bit) *Result {
	return &Result{
		bits:   append([]circuit.Bit(nil), bits...),
		counts: make(map[string]uint64),
	}
}

// Bits returns the readout bits in order.
func (r *Result) Bits() []circuit.Bit {
	return append([]circuit.Bit(nil), r.bits...)
}

// Add accumulates count shots for the given outcome.
func (r *Result) Add(outcome string, count uint64) error {
	if len(outcome) != len(r.bits) {
		return fmt.Errorf("%w: outcome %q over %d readout bits", circuit.ErrArgument, outcome, len(r.bits))
	}
	for _, c := range outcome {
		if c != '0' && c != '1' {
			return fmt.Errorf("%w: outcome %q is not a bit string", circuit.ErrArgument, outcome)
		}
	}
	r.counts[outcome] += count
	return nil
}

// Count returns the number of shots recorded for outcome.
func (r *Result) Count(outcome string) uint64 {
	return r.counts[outcome]
}

// Counts returns a copy of the outcome table.
func (r *Result) Counts() map[string]uint64 {
	out := make(map[string]uint64, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Shots returns the total number of recorded shots.
func (r *Result) Shots() uint64 {
	var total uint64
	for _, v := range r.counts {
		total += v
	}
	return total
}

type resultHeader struct {
	Bits       []circuit.Bit
	NbOutcomes uint32
}

// WriteTo serializes the result: a cbor header describing the readout bits,
// then the outcomes bit-packed in lexicographic order, each followed by its
// 64-bit count.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	hdr, err := enc.Marshal(resultHeader{Bits: r.bits, NbOutcomes: uint32(len(r.counts))})
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(hdr)))
	buf.Write(lenPrefix[:])
	buf.Write(hdr)

	outcomes := make([]string, 0, len(r.counts))
	for k := range r.counts {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)

	bw := bitio.NewWriter(&buf)
	for _, outcome := range outcomes {
		for _, c := range outcome {
			if err := bw.WriteBool(c == '1'); err != nil {
				return 0, err
			}
		}
		if err := bw.WriteBits(r.counts[outcome], 64); err != nil {
			return 0, err
		}
	}
	if err := bw.Close(); err != nil {
		return 0, err
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// ReadFrom deserializes a result written with WriteTo, replacing the
// receiver's contents.
func (r *Result) ReadFrom(rd io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(rd)
	if err != nil {
		return n, err
	}
	data := buf.Bytes()
	if len(data) < 4 {
		return n, fmt.Errorf("%w: truncated result data", circuit.ErrArgument)
	}
	hdrLen := binary.LittleEndian.Uint32(data[:4])
	if uint64(hdrLen) > uint64(len(data)-4) {
		return n, fmt.Errorf("%w: truncated result data", circuit.ErrArgument)
	}

	var hdr resultHeader
	if err := cbor.Unmarshal(data[4:4+hdrLen], &hdr); err != nil {
		return n, err
	}

	out := NewResult(hdr.Bits)
	br := bitio.NewReader(bytes.NewReader(data[4+hdrLen:]))
	for i := uint32(0); i < hdr.NbOutcomes; i++ {
		outcome := make([]byte, len(hdr.Bits))
		for j := range outcome {
			set, err := br.ReadBool()
			if err != nil {
				return n, err
			}
			if set {
				outcome[j] = '1'
			} else {
				outcome[j] = '0'
			}
		}
		count, err := br.ReadBits(64)
		if err != nil {
			return n, err
		}
		if err := out.Add(string(outcome), count); err != nil {
			return n, err
		}
	}

	*r = *out
	return n, nil
}

package circuit

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"
)

// serialization layout: a fixed-size header with the byte length of the two
// cbor blocks (units, operations), followed by the blocks themselves. The
// blocks are encoded (and decoded) in parallel.

const headerLen = 16 // 2 * uint64

type header struct {
	unitsLen uint64
	opsLen   uint64
}

func (h header) toBytes() []byte {
	buf := make([]byte, headerLen)
	binary.LittleEndian.PutUint64(buf[:8], h.unitsLen)
	binary.LittleEndian.PutUint64(buf[8:], h.opsLen)
	return buf
}

func (h *header) fromBytes(buf []byte) {
	h.unitsLen = binary.LittleEndian.Uint64(buf[:8])
	h.opsLen = binary.LittleEndian.Uint64(buf[8:])
}

type serializedUnits struct {
	Name   string
	Qubits []Qubit
	Bits   []Bit
}

// ToBytes serializes the circuit deterministically; two circuits with the
// same name, registers and operation sequence produce identical bytes.
func (c *Circuit) ToBytes() ([]byte, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}

	var units, ops []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		units, err = enc.Marshal(serializedUnits{Name: c.name, Qubits: c.qubits, Bits: c.bits})
		return err
	})
	g.Go(func() error {
		var err error
		ops, err = enc.Marshal(c.ops)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := header{unitsLen: uint64(len(units)), opsLen: uint64(len(ops))}
	buf := h.toBytes()
	buf = append(buf, units...)
	buf = append(buf, ops...)
	return buf, nil
}

// FromBytes deserializes a circuit previously written with ToBytes,
// replacing the receiver's contents. Every unit and operation is re-admitted
// through the builder entry points so the circuit invariants hold after
// decoding. Returns the number of bytes read.
func (c *Circuit) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, fmt.Errorf("%w: truncated circuit data", ErrArgument)
	}
	var h header
	h.fromBytes(data)
	// bound the untrusted lengths before any int conversion
	payload := uint64(len(data) - headerLen)
	if h.unitsLen > payload || h.opsLen > payload-h.unitsLen {
		return 0, fmt.Errorf("%w: truncated circuit data", ErrArgument)
	}
	total := headerLen + int(h.unitsLen) + int(h.opsLen)

	var su serializedUnits
	var ops []Operation
	var g errgroup.Group
	g.Go(func() error {
		return cbor.Unmarshal(data[headerLen:headerLen+int(h.unitsLen)], &su)
	})
	g.Go(func() error {
		return cbor.Unmarshal(data[headerLen+int(h.unitsLen):total], &ops)
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	out := New(su.Name)
	for _, q := range su.Qubits {
		if err := out.AddQubit(q); err != nil {
			return 0, err
		}
	}
	for _, b := range su.Bits {
		if err := out.AddBit(b); err != nil {
			return 0, err
		}
	}
	for _, op := range ops {
		if err := out.AddOperation(op); err != nil {
			return 0, err
		}
	}

	*c = *out
	return total, nil
}

// WriteTo implements io.WriterTo.
func (c *Circuit) WriteTo(w io.Writer) (int64, error) {
	buf, err := c.ToBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom.
func (c *Circuit) ReadFrom(r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, err
	}
	if _, err := c.FromBytes(buf.Bytes()); err != nil {
		return n, err
	}
	return n, nil
}

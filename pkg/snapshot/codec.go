// Package snapshot implements the low-level reversible binary codec that
// every instruction and value in the VM is built out of (spec §6.2):
//
//	usize  -> little-endian u64
//	bool   -> one byte
//	string -> length-prefixed UTF-8
//	[]T    -> length followed by elements
//
// This mirrors the teacher's own binary image codec (vm/image.go, vm/mem.go
// use encoding/binary.{Read,Write} with explicit LittleEndian byte order for
// a reversible Cell-stream format); the higher-level Instruction and
// ObjectValue codecs (pkg/bytecode, pkg/value) are built on these
// primitives rather than on a third-party serialization library, because
// the wire format here is a hand-rolled discriminant-prefixed layout
// dictated entirely by spec §6.2, which is exactly the shape
// encoding/binary already handles for the teacher.
package snapshot

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Writer accumulates an encoded byte stream.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteUsize(v int) { w.WriteUint64(uint64(v)) }

func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(mathFloat64bits(v)) }

func (w *Writer) WriteString(s string) {
	w.WriteUsize(len(s))
	w.buf = append(w.buf, s...)
}

func (w *Writer) WriteRaw(b []byte) { w.buf = append(w.buf, b...) }

// Reader consumes an encoded byte stream, tracking position for error
// messages the way asm.parser tracks scanner.Position for ErrAsm.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

func (r *Reader) Pos() int { return r.pos }

func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, errors.Errorf("snapshot: unexpected end of stream at byte %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, errors.Wrap(err, "snapshot: reading bool")
	}
	return b != 0, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, errors.Errorf("snapshot: unexpected end of stream at byte %d reading u64", r.pos)
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadUsize() (int, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, errors.Wrap(err, "snapshot: reading usize")
	}
	return int(v), nil
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, errors.Wrap(err, "snapshot: reading int64")
	}
	return int64(v), nil
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, errors.Wrap(err, "snapshot: reading float64")
	}
	return mathFloat64frombits(v), nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUsize()
	if err != nil {
		return "", errors.Wrap(err, "snapshot: reading string length")
	}
	if r.pos+n > len(r.buf) {
		return "", errors.Errorf("snapshot: unexpected end of stream at byte %d reading %d-byte string", r.pos, n)
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, errors.Errorf("snapshot: unexpected end of stream at byte %d reading %d raw bytes", r.pos, n)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

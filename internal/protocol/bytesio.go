package protocol

import (
	"encoding/binary"

	"github.com/aerovent/ventcore/internal/wire"
)

// bodyReader reads the big-endian, tab-separated, length-prefixed body
// grammar described in §6.1. Its u8/u16/u32/u64/bytesN/str/byteArray
// methods return ok=false only when the buffer runs out mid-field; that
// condition is NeedMore, never a malformed-grammar error, since the caller
// cannot yet tell whether more bytes would complete the field.
type bodyReader struct {
	buf []byte
	pos int
	// malformed is set by sep()/end() when the buffer held a byte but it
	// was the wrong value, as opposed to the buffer simply running out.
	// needMoreOrMalformed consults and clears it to tell the two cases
	// apart.
	malformed bool
}

func newBodyReader(buf []byte) *bodyReader {
	return &bodyReader{buf: buf}
}

// consumed returns how many bytes have been read so far.
func (r *bodyReader) consumed() int { return r.pos }

func (r *bodyReader) u8() (uint8, bool) {
	if r.pos >= len(r.buf) {
		return 0, false
	}
	v := r.buf[r.pos]
	r.pos++
	return v, true
}

func (r *bodyReader) u16() (uint16, bool) {
	if r.pos+2 > len(r.buf) {
		return 0, false
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, true
}

func (r *bodyReader) u32() (uint32, bool) {
	if r.pos+4 > len(r.buf) {
		return 0, false
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, true
}

func (r *bodyReader) u64() (uint64, bool) {
	if r.pos+8 > len(r.buf) {
		return 0, false
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, true
}

func (r *bodyReader) i16() (int16, bool) {
	v, ok := r.u16()
	return int16(v), ok
}

func (r *bodyReader) bytesN(n int) ([]byte, bool) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, false
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, true
}

func (r *bodyReader) str() (string, bool) {
	n, ok := r.u8()
	if !ok {
		return "", false
	}
	b, ok := r.bytesN(int(n))
	if !ok {
		return "", false
	}
	return string(b), true
}

func (r *bodyReader) byteArray() ([]byte, bool) {
	n, ok := r.u8()
	if !ok {
		return nil, false
	}
	b, ok := r.bytesN(int(n))
	if !ok {
		return nil, false
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true
}

func (r *bodyReader) deviceID() (wire.DeviceID, bool) {
	a, ok := r.u32()
	if !ok {
		return wire.DeviceID{}, false
	}
	b, ok := r.u32()
	if !ok {
		return wire.DeviceID{}, false
	}
	c, ok := r.u32()
	if !ok {
		return wire.DeviceID{}, false
	}
	return wire.DeviceID{A: a, B: b, C: c}, true
}

// sep consumes the tab separator. It checks atEOF first so that a byte
// which is present but wrong is reported as malformed, not as NeedMore —
// only a genuinely exhausted buffer is NeedMore.
func (r *bodyReader) sep() bool {
	if r.atEOF() {
		return false
	}
	v, _ := r.u8()
	if v != 0x09 {
		r.malformed = true
		return false
	}
	return true
}

// end consumes the body terminator, with the same EOF-vs-wrong-value
// distinction as sep.
func (r *bodyReader) end() bool {
	if r.atEOF() {
		return false
	}
	v, _ := r.u8()
	if v != 0x0A {
		r.malformed = true
		return false
	}
	return true
}

// atEOF reports whether the buffer is exhausted at the current position,
// i.e. whether the next read would fail from truncation rather than from a
// wrong value.
func (r *bodyReader) atEOF() bool {
	return r.pos >= len(r.buf)
}

// bodyWriter builds a body in the same grammar bodyReader parses.
type bodyWriter struct {
	buf []byte
}

func (w *bodyWriter) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *bodyWriter) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *bodyWriter) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *bodyWriter) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *bodyWriter) i16(v int16) { w.u16(uint16(v)) }

func (w *bodyWriter) bytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *bodyWriter) str(s string) {
	w.u8(uint8(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *bodyWriter) byteArray(b []byte) {
	w.u8(uint8(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *bodyWriter) deviceID(d wire.DeviceID) {
	w.u32(d.A)
	w.u32(d.B)
	w.u32(d.C)
}

func (w *bodyWriter) sep() { w.u8(0x09) }
func (w *bodyWriter) end() { w.u8(0x0A) }

func (w *bodyWriter) bytesOut() []byte { return w.buf }

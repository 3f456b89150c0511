// Package buffer provides the minimal byte-level read/write primitives
// the serialization routines in this module build on, in the style of
// lattigo's own utils/buffer package (see core/rlwe/params.go's WriteTo
// and ring/poly.go's WriteTo/ReadFrom, which type-switch an io.Writer/
// io.Reader to these interfaces to avoid the allocation a bufio wrapper
// would cost on a hot path).
package buffer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer is implemented by io.Writer values that can be written to
// without the extra allocation/indirection of wrapping them in a
// bufio.Writer first.
type Writer interface {
	io.Writer
	Flush() error
}

// Reader is implemented by io.Reader values that can be read from
// without the extra allocation/indirection of wrapping them in a
// bufio.Reader first.
type Reader interface {
	io.Reader
}

// Buffer is an in-memory Writer and Reader over a growable byte slice.
type Buffer struct {
	buf *bytes.Buffer
}

// NewBuffer wraps b for reading and writing. Bytes written are appended
// after b's existing content; bytes read are consumed from the front.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{buf: bytes.NewBuffer(b)}
}

// NewBufferSize returns an empty Buffer with capacity n pre-allocated.
func NewBufferSize(n int) *Buffer {
	return &Buffer{buf: bytes.NewBuffer(make([]byte, 0, n))}
}

func (b *Buffer) Write(p []byte) (int, error) { return b.buf.Write(p) }
func (b *Buffer) Read(p []byte) (int, error)  { return b.buf.Read(p) }

// Flush is a no-op: Buffer has no underlying stream to flush to.
func (b *Buffer) Flush() error { return nil }

// Bytes returns the unread portion of the buffer's content.
func (b *Buffer) Bytes() []byte { return b.buf.Bytes() }

// WriteInt writes n as a fixed-width 8-byte little-endian integer.
func WriteInt(w Writer, n int) (int, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(n)))
	return w.Write(buf[:])
}

// ReadInt reads an integer written by WriteInt.
func ReadInt(r Reader, n *int) (int, error) {
	var buf [8]byte
	inc, err := io.ReadFull(r, buf[:])
	if err != nil {
		return inc, fmt.Errorf("buffer.ReadInt: %w", err)
	}
	*n = int(int64(binary.LittleEndian.Uint64(buf[:])))
	return inc, nil
}

// WriteAsUint32 writes n as a fixed-width 4-byte little-endian integer.
// Intended for lengths/counts known to fit in 32 bits.
func WriteAsUint32(w Writer, n int) (int, error) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	return w.Write(buf[:])
}

// ReadAsUint32 reads a count written by WriteAsUint32.
func ReadAsUint32(r Reader, n *int) (int, error) {
	var buf [4]byte
	inc, err := io.ReadFull(r, buf[:])
	if err != nil {
		return inc, fmt.Errorf("buffer.ReadAsUint32: %w", err)
	}
	*n = int(binary.LittleEndian.Uint32(buf[:]))
	return inc, nil
}

// WriteFloat64 writes f as its raw 8-byte little-endian bit pattern.
func WriteFloat64(w Writer, f float64) (int, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	return w.Write(buf[:])
}

// ReadFloat64 reads a value written by WriteFloat64.
func ReadFloat64(r Reader, f *float64) (int, error) {
	var buf [8]byte
	inc, err := io.ReadFull(r, buf[:])
	if err != nil {
		return inc, fmt.Errorf("buffer.ReadFloat64: %w", err)
	}
	*f = math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
	return inc, nil
}

// WriteUint64Slice writes s as |s| consecutive 8-byte little-endian words.
func WriteUint64Slice(w Writer, s []uint64) (int, error) {
	buf := make([]byte, 8*len(s))
	for i, v := range s {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return w.Write(buf)
}

// ReadUint64Slice fills s from consecutive 8-byte little-endian words.
func ReadUint64Slice(r Reader, s []uint64) (int, error) {
	buf := make([]byte, 8*len(s))
	inc, err := io.ReadFull(r, buf)
	if err != nil {
		return inc, fmt.Errorf("buffer.ReadUint64Slice: %w", err)
	}
	for i := range s {
		s[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return inc, nil
}

// WriteBytes writes the raw contents of p, with no length prefix.
func WriteBytes(w Writer, p []byte) (int, error) {
	return w.Write(p)
}

// ReadBytes reads len(p) raw bytes into p.
func ReadBytes(r Reader, p []byte) (int, error) {
	inc, err := io.ReadFull(r, p)
	if err != nil {
		return inc, fmt.Errorf("buffer.ReadBytes: %w", err)
	}
	return inc, nil
}

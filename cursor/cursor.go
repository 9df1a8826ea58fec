// Package cursor centralizes the untyped-memory arithmetic the decoder and
// encoder need: walking a raw byte buffer in lockstep with a tag,
// respecting alignment, without resorting to unsafe pointer casts.
package cursor

import "encoding/binary"

// Cursor walks a byte buffer that represents kernel-side value storage. Its
// interpretation at any point is entirely driven by whatever tag the
// decoder or encoder is currently processing.
type Cursor struct {
	buf []byte
	off int
}

// New wraps buf in a Cursor starting at offset 0. The cursor does not copy
// buf; callers must not retain a separate mutable view of it while the
// cursor is live.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the cursor's current byte offset into its backing buffer.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the unconsumed tail of the backing buffer.
func (c *Cursor) Remaining() []byte {
	return c.buf[c.off:]
}

// AlignTo advances the cursor up to the next multiple of alignment.
func (c *Cursor) AlignTo(alignment int) {
	maxRem := alignment - 1
	c.off = (c.off + maxRem) &^ maxRem
}

// Advance moves the cursor forward by n bytes without reading anything.
func (c *Cursor) Advance(n int) {
	c.off += n
}

// ReadU8 reads one byte at the cursor and advances past it.
func (c *Cursor) ReadU8() uint8 {
	v := c.buf[c.off]
	c.off++
	return v
}

// WriteU8 writes one byte at the cursor and advances past it.
func (c *Cursor) WriteU8(v uint8) {
	c.buf[c.off] = v
	c.off++
}

// ReadU32 reads a native-endian 32-bit word at the cursor and advances past
// it. This is in-memory layout, not wire framing -- the wire package owns
// big-endian scalar framing separately.
func (c *Cursor) ReadU32() uint32 {
	v := binary.NativeEndian.Uint32(c.buf[c.off : c.off+4])
	c.off += 4
	return v
}

// WriteU32 writes a native-endian 32-bit word at the cursor and advances
// past it.
func (c *Cursor) WriteU32(v uint32) {
	binary.NativeEndian.PutUint32(c.buf[c.off:c.off+4], v)
	c.off += 4
}

// ReadU64 reads a native-endian 64-bit word at the cursor and advances past
// it.
func (c *Cursor) ReadU64() uint64 {
	v := binary.NativeEndian.Uint64(c.buf[c.off : c.off+8])
	c.off += 8
	return v
}

// WriteU64 writes a native-endian 64-bit word at the cursor and advances
// past it.
func (c *Cursor) WriteU64(v uint64) {
	binary.NativeEndian.PutUint64(c.buf[c.off:c.off+8], v)
	c.off += 8
}

// WriteU32At writes a native-endian 32-bit word at an explicit offset
// without disturbing the cursor's current position. It exists for
// headers whose leading field (e.g. an array's element pointer) is only
// known after the fields that follow it have been written.
func (c *Cursor) WriteU32At(offset int, v uint32) {
	binary.NativeEndian.PutUint32(c.buf[offset:offset+4], v)
}

// ReadU32At reads a native-endian 32-bit word at an explicit offset
// without disturbing the cursor's current position.
func (c *Cursor) ReadU32At(offset int) uint32 {
	return binary.NativeEndian.Uint32(c.buf[offset : offset+4])
}

// ReadBlock returns a slice view of the next n bytes at the cursor and
// advances past them, for the bulk fast path over scalar element arrays.
func (c *Cursor) ReadBlock(n int) []byte {
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v
}

// WriteBlock copies src into the cursor's backing buffer starting at the
// current offset, and advances past it.
func (c *Cursor) WriteBlock(src []byte) {
	n := copy(c.buf[c.off:], src)
	c.off += n
}

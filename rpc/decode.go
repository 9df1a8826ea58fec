package rpc

import (
	"math"

	"github.com/embedded-rpc/kernrpc/alloc"
	"github.com/embedded-rpc/kernrpc/cursor"
	"github.com/embedded-rpc/kernrpc/layout"
	"github.com/embedded-rpc/kernrpc/tag"
	"github.com/embedded-rpc/kernrpc/wire"
)

// RecvValue reads one value described by t from r, writing it into c at
// c's current offset and advancing c past it. Any indirect storage the
// value needs (a string's bytes, a list or array's elements) is obtained
// from al.
//
// RecvValue never reads a leading tag byte from r: t is already known
// from the caller's tag string, not rediscovered on the wire.
//
// layout.Alignment/Size panic with a tag.StructuralError on a malformed
// tag (e.g. a non-scalar Range element); RecvValue recovers that specific
// panic and returns it as an error instead, since Go has no
// error-returning equivalent of Rust's unreachable!(). Any other panic
// propagates uncaught.
func RecvValue(r wire.Reader, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) (err error) {
	defer recoverStructural(&err)
	return recvValue(r, t, c, al)
}

func recvValue(r wire.Reader, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	switch t.Kind {
	case tag.None:
		return nil

	case tag.Bool:
		v, err := r.ReadU8()
		if err != nil {
			return err
		}
		c.WriteU8(v)
		return nil

	case tag.Int32:
		c.AlignTo(4)
		v, err := r.ReadU32()
		if err != nil {
			return err
		}
		c.WriteU32(v)
		return nil

	case tag.Int64, tag.Float64:
		c.AlignTo(8)
		v, err := r.ReadU64()
		if err != nil {
			return err
		}
		c.WriteU64(v)
		return nil

	case tag.String, tag.Bytes, tag.ByteArray:
		return recvSlice(r, c, al)

	case tag.Tuple:
		return recvTuple(r, t, c, al)

	case tag.List:
		return recvList(r, t, c, al)

	case tag.Array:
		return recvArray(r, t, c, al)

	case tag.Range:
		return recvRange(r, t, c, al)

	default:
		return tag.StructuralError{Reason: "cannot receive a " + t.Kind.String() + " value"}
	}
}

func recvSlice(r wire.Reader, c *cursor.Cursor, al alloc.Allocator) error {
	c.AlignTo(8)

	length, err := r.ReadU32()
	if err != nil {
		return err
	}

	ref, err := al.Alloc(int(length))
	if err != nil {
		return &alloc.Error{Err: err}
	}
	if err := r.ReadExact(al.Bytes(ref, int(length))); err != nil {
		return err
	}

	c.WriteRef(ref)
	c.WriteU32(length)
	return nil
}

func recvTuple(r wire.Reader, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	alignment := layout.Alignment(t)
	c.AlignTo(alignment)

	children := t.Sub
	for i := 0; i < int(t.Arity); i++ {
		child, err := children.Next()
		if err != nil {
			return tagErr(err)
		}
		if err := recvValue(r, child, c, al); err != nil {
			return err
		}
	}

	c.AlignTo(alignment)
	return nil
}

// recvList decodes the length, allocates storage for the header region
// plus the elements in one call, fills the elements, and writes a
// {ref, length} header into c -- the same shape as a string or bytes
// value, so List needs no extra indirection on the caller's side.
//
// The allocation still reserves round_up(8, alignment(T)) bytes ahead of
// the element region even though nothing is written there or read back
// from it; keeping that reservation makes the one allocation exactly
// round_up(8, alignment(T)) + length*size(T) bytes.
func recvList(r wire.Reader, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	c.AlignTo(8)

	length, err := r.ReadU32()
	if err != nil {
		return err
	}

	children := t.Sub
	eltTag, err := children.Next()
	if err != nil {
		return tagErr(err)
	}
	eltSize := layout.Size(eltTag)
	eltAlign := layout.Alignment(eltTag)

	const headerSize = 8
	storageOff := roundUp(headerSize, eltAlign)
	base, err := al.Alloc(storageOff + eltSize*int(length))
	if err != nil {
		return &alloc.Error{Err: err}
	}
	elements := alloc.Offset(base, storageOff)

	if err := recvElements(r, eltTag, int(length), elements, al); err != nil {
		return err
	}

	c.WriteRef(elements)
	c.WriteU32(length)
	return nil
}

// recvArray decodes the per-dimension lengths, allocates exactly
// size(T)*product(dims) bytes for the elements (a product or byte size
// that would overflow int is rejected with an alloc.Error), fills them,
// and patches
// the leading pointer field once the allocation is known -- the array
// header's pointer field is written before its length, but the
// allocation it names can only be made after all lengths are read.
func recvArray(r wire.Reader, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	c.AlignTo(8)
	bufferPos := c.Offset()
	c.Advance(4)

	totalLen := 1
	for i := 0; i < int(t.Arity); i++ {
		dim, err := r.ReadU32()
		if err != nil {
			return err
		}
		if dim != 0 && uint64(totalLen) > uint64(math.MaxInt)/uint64(dim) {
			return &alloc.Error{Err: alloc.ErrArenaExhausted}
		}
		totalLen *= int(dim)
		c.WriteU32(dim)
	}

	children := t.Sub
	eltTag, err := children.Next()
	if err != nil {
		return tagErr(err)
	}

	eltSize := layout.Size(eltTag)
	if eltSize != 0 && totalLen > math.MaxInt/eltSize {
		return &alloc.Error{Err: alloc.ErrArenaExhausted}
	}
	ref, err := al.Alloc(eltSize * totalLen)
	if err != nil {
		return &alloc.Error{Err: err}
	}
	if err := recvElements(r, eltTag, totalLen, ref, al); err != nil {
		return err
	}

	c.WriteU32At(bufferPos, uint32(ref))
	return nil
}

func recvRange(r wire.Reader, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	children := t.Sub
	eltTag, err := children.Next()
	if err != nil {
		return tagErr(err)
	}

	c.AlignTo(layout.Alignment(eltTag))
	for i := 0; i < 3; i++ {
		if err := recvValue(r, eltTag, c, al); err != nil {
			return err
		}
	}
	return nil
}

// recvElements reads length consecutive values of type elt from r into
// storage. Fixed-width scalar element types are read as one bulk,
// unswapped byte copy -- the wire carries bulk arrays in the target's
// native byte order, unlike individually framed scalars.
func recvElements(r wire.Reader, elt tag.Tag, length int, storage alloc.Ref, al alloc.Allocator) error {
	switch elt.Kind {
	case tag.Bool:
		return r.ReadExact(al.Bytes(storage, length))
	case tag.Int32:
		return r.ReadExact(al.Bytes(storage, length*4))
	case tag.Int64, tag.Float64:
		return r.ReadExact(al.Bytes(storage, length*8))
	default:
		eltSize := layout.Size(elt)
		c := cursor.New(al.Bytes(storage, length*eltSize))
		for i := 0; i < length; i++ {
			if err := recvValue(r, elt, c, al); err != nil {
				return err
			}
		}
		return nil
	}
}

func tagErr(err error) error {
	return err
}

func roundUp(val, powerOfTwo int) int {
	maxRem := powerOfTwo - 1
	return (val + maxRem) &^ maxRem
}

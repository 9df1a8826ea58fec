package rpc

import (
	"github.com/embedded-rpc/kernrpc/alloc"
	"github.com/embedded-rpc/kernrpc/cursor"
	"github.com/embedded-rpc/kernrpc/layout"
	"github.com/embedded-rpc/kernrpc/tag"
	"github.com/embedded-rpc/kernrpc/wire"
)

// SendValue reads one value of type t from c (advancing c past it) and
// writes it to w, preceded by its own tag byte. Unlike RecvValue, every
// value SendValue writes is self-describing on the wire: the host side
// decoding an RPC call needs to recover argument types from the stream
// itself, not from a compiled-in signature.
//
// See RecvValue's doc comment: SendValue recovers the same
// tag.StructuralError panic class raised by layout.Alignment/Size.
func SendValue(w wire.Writer, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) (err error) {
	defer recoverStructural(&err)
	return sendValue(w, t, c, al)
}

func sendValue(w wire.Writer, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	if err := w.WriteU8(t.Kind.Byte()); err != nil {
		return err
	}

	switch t.Kind {
	case tag.None:
		return nil

	case tag.Bool:
		return w.WriteU8(c.ReadU8())

	case tag.Int32:
		c.AlignTo(4)
		return w.WriteU32(c.ReadU32())

	case tag.Int64, tag.Float64:
		c.AlignTo(8)
		return w.WriteU64(c.ReadU64())

	case tag.String:
		data, err := readSlice(c, al)
		if err != nil {
			return err
		}
		return w.WriteString(string(data))

	case tag.Bytes, tag.ByteArray:
		data, err := readSlice(c, al)
		if err != nil {
			return err
		}
		return w.WriteBytes(data)

	case tag.Tuple:
		return sendTuple(w, t, c, al)

	case tag.List:
		return sendList(w, t, c, al)

	case tag.Array:
		return sendArray(w, t, c, al)

	case tag.Range:
		return sendRange(w, t, c, al)

	case tag.Keyword:
		return sendKeyword(w, t, c, al)

	case tag.Object:
		c.AlignTo(4)
		return w.WriteU32(c.ReadU32())

	default:
		return tag.StructuralError{Reason: "cannot send a " + t.Kind.String() + " value"}
	}
}

func readSlice(c *cursor.Cursor, al alloc.Allocator) ([]byte, error) {
	c.AlignTo(8)
	ref := c.ReadRef()
	length := c.ReadU32()
	return al.Bytes(ref, int(length)), nil
}

func sendTuple(w wire.Writer, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	if err := w.WriteU8(t.Arity); err != nil {
		return err
	}

	children := t.Sub
	for i := 0; i < int(t.Arity); i++ {
		child, err := children.Next()
		if err != nil {
			return tagErr(err)
		}
		if err := sendValue(w, child, c, al); err != nil {
			return err
		}
	}

	// Send relies on the cursor already being aligned on entry (the
	// matching RecvValue call produced it that way); only the trailing
	// padding needs to be skipped here.
	c.AlignTo(layout.Alignment(t))
	return nil
}

func sendList(w wire.Writer, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	c.AlignTo(8)
	elements := c.ReadRef()
	length := c.ReadU32()

	if err := w.WriteU32(length); err != nil {
		return err
	}

	children := t.Sub
	eltTag, err := children.Next()
	if err != nil {
		return tagErr(err)
	}
	return sendElements(w, eltTag, int(length), elements, al)
}

func sendArray(w wire.Writer, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	if err := w.WriteU8(t.Arity); err != nil {
		return err
	}

	c.AlignTo(8)
	buffer := c.ReadRef()

	totalLen := 1
	for i := 0; i < int(t.Arity); i++ {
		dim := c.ReadU32()
		if err := w.WriteU32(dim); err != nil {
			return err
		}
		totalLen *= int(dim)
	}

	children := t.Sub
	eltTag, err := children.Next()
	if err != nil {
		return tagErr(err)
	}
	return sendElements(w, eltTag, totalLen, buffer, al)
}

func sendRange(w wire.Writer, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	children := t.Sub
	eltTag, err := children.Next()
	if err != nil {
		return tagErr(err)
	}

	for i := 0; i < 3; i++ {
		if err := sendValue(w, eltTag, c, al); err != nil {
			return err
		}
	}
	return nil
}

// sendKeyword encodes a **kwargs-style named argument: a name string
// followed by its value, with no tuple-style padding between them. It
// only ever appears at the top level of an argument list, never nested
// inside another composite.
func sendKeyword(w wire.Writer, t tag.Tag, c *cursor.Cursor, al alloc.Allocator) error {
	name, err := readSlice(c, al)
	if err != nil {
		return err
	}
	if err := w.WriteString(string(name)); err != nil {
		return err
	}

	children := t.Sub
	valueTag, err := children.Next()
	if err != nil {
		return tagErr(err)
	}
	return sendValue(w, valueTag, c, al)
}

// sendElements writes length consecutive values of type elt read from
// storage. Fixed-width scalar element types are written as one bulk,
// unswapped byte copy, matching recvElements' fast path.
func sendElements(w wire.Writer, elt tag.Tag, length int, storage alloc.Ref, al alloc.Allocator) error {
	if err := w.WriteU8(elt.Kind.Byte()); err != nil {
		return err
	}

	switch elt.Kind {
	case tag.Bool:
		return w.WriteRaw(al.Bytes(storage, length))
	case tag.Int32:
		return w.WriteRaw(al.Bytes(storage, length*4))
	case tag.Int64, tag.Float64:
		return w.WriteRaw(al.Bytes(storage, length*8))
	default:
		eltSize := layout.Size(elt)
		c := cursor.New(al.Bytes(storage, length*eltSize))
		for i := 0; i < length; i++ {
			if err := sendValue(w, elt, c, al); err != nil {
				return err
			}
		}
		return nil
	}
}

// Package rpc implements the value codec at the center of the protocol:
// translating tag-described values between the host's wire framing and
// the kernel's in-memory layout, in both directions.
//
// Every exported entry point here is a direct translation of the three
// kinds of traversal the protocol performs: reading an RPC's arguments
// into kernel memory (RecvValue, with its unexported recvElements
// helper), writing a kernel return value back to the host (SendValue,
// with sendElements), and the call-level
// wrappers around them (RecvReturn, SendArgs). The tag grammar, the
// layout oracle and the allocator are deliberately kept in their own
// packages; this one only sequences them.
package rpc

import (
	"github.com/embedded-rpc/kernrpc/alloc"
	"github.com/embedded-rpc/kernrpc/cursor"
	"github.com/embedded-rpc/kernrpc/tag"
	"github.com/embedded-rpc/kernrpc/wire"
)

// RecvReturn decodes a single return value described by tagBytes (a bare
// tag, not a full "args:return" signature) from r, writing it into dst at
// its current offset using al for any indirect storage the value needs.
//
// dst must already be aligned for the value's own alignment relative to
// whatever structure it lives in; RecvReturn only aligns relative to
// dst's current offset.
func RecvReturn(r wire.Reader, tagBytes []byte, dst *cursor.Cursor, al alloc.Allocator) (err error) {
	defer recoverStructural(&err)

	it := tag.NewIterator(tagBytes)
	t, nextErr := it.Next()
	if nextErr != nil {
		return wrapTagError(nextErr)
	}
	return recvValue(r, t, dst, al)
}

// SendArgs encodes serviceID followed by the values in args (each typed
// by the corresponding element of the argument tag string within
// signature), a zero terminator byte, and finally the return tag string
// itself -- the exact framing the kernel's RPC dispatcher expects to find
// on the wire for one call. signature is a full "args:return" tag
// string.
func SendArgs(w wire.Writer, serviceID uint32, signature []byte, args []*cursor.Cursor, al alloc.Allocator) (err error) {
	defer recoverStructural(&err)

	argTags, returnTag, splitErr := tag.SplitSignature(signature)
	if splitErr != nil {
		return wrapTagError(splitErr)
	}

	if err := w.WriteU32(serviceID); err != nil {
		return err
	}

	it := tag.NewIterator(argTags)
	for _, c := range args {
		t, nextErr := it.Next()
		if nextErr != nil {
			return wrapTagError(nextErr)
		}
		if err := sendValue(w, t, c, al); err != nil {
			return err
		}
	}

	// 0 is not a valid leading tag byte, so it unambiguously marks the
	// end of the argument list for the reader on the other side.
	if err := w.WriteU8(0); err != nil {
		return err
	}

	// The return tag trailer is an echo, not framed data: the host
	// already knows its own length (it compiled the signature this call
	// is using), so it is written verbatim with no length prefix, unlike
	// a String/Bytes value.
	return w.WriteRaw(returnTag)
}

func wrapTagError(err error) error {
	return err
}

// recoverStructural recovers a tag.StructuralError panic raised by
// layout.Alignment/Size (the Go stand-in for Rust's unreachable!() on a
// grammar violation the caller's tag string shouldn't have produced) and
// assigns it to *err so the exported entry point returns it normally
// instead of crashing the process. Any other panic value is re-raised
// unchanged -- this never swallows a real bug.
func recoverStructural(err *error) {
	if r := recover(); r != nil {
		if se, ok := r.(tag.StructuralError); ok {
			*err = se
			return
		}
		panic(r)
	}
}

// Package layout computes the in-memory size and alignment implied by a
// tag, without performing any I/O. The rpc package's decoder and encoder
// consult it for composite layout: tuple alignment and tail padding, list
// and array element strides, and range element alignment. The widths and
// alignments of scalars and of the slice and array headers are written as
// literals in those traversals instead; they equal the values here.
package layout

import (
	"io"

	"github.com/embedded-rpc/kernrpc/tag"
)

// refAlignment is the alignment of a slice header (pointer + u32 length)
// on the target: treated as 8 bytes regardless of host pointer width, per
// the protocol's fixed slice-header layout.
const refAlignment = 8

// Alignment returns the in-memory alignment, in bytes, of a value
// described by t.
//
// Alignment panics with a tag.StructuralError if t is Keyword or Object,
// or any other tag the grammar forbids outside the top level of an
// argument list -- sizing/aligning them is a programmer error, per the
// protocol's invariants. Callers that walk caller-supplied tag strings
// should recover at the package boundary; see rpc.RecvValue/SendValue.
func Alignment(t tag.Tag) int {
	switch t.Kind {
	case tag.None:
		return 1
	case tag.Bool:
		return 1
	case tag.Int32:
		return 4
	case tag.Int64, tag.Float64:
		return 8
	case tag.String, tag.Bytes, tag.ByteArray, tag.List, tag.Array:
		return refAlignment
	case tag.Tuple:
		return maxChildAlignment(t.Sub, int(t.Arity))
	case tag.Range:
		assertScalarRangeChild(t)
		return Alignment(mustChild(&t.Sub))
	default:
		panic(tag.StructuralError{Reason: "cannot align " + t.Kind.String() + " tag"})
	}
}

// Size returns the in-memory size, in bytes, of a value described by t --
// the stride between consecutive values of that type in a list or array,
// and the offset from a struct field of this type to the next one.
//
// Size panics under the same conditions as Alignment.
func Size(t tag.Tag) int {
	switch t.Kind {
	case tag.None:
		return 0
	case tag.Bool:
		return 1
	case tag.Int32:
		return 4
	case tag.Int64, tag.Float64:
		return 8
	case tag.String, tag.Bytes, tag.ByteArray, tag.List:
		return 8
	case tag.Array:
		return 4 * (1 + int(t.Arity))
	case tag.Tuple:
		return tupleSize(t.Sub, int(t.Arity))
	case tag.Range:
		assertScalarRangeChild(t)
		child := mustChild(&t.Sub)
		return Size(child) * 3
	default:
		panic(tag.StructuralError{Reason: "cannot size " + t.Kind.String() + " tag"})
	}
}

// tupleSize implements the composite packing rule: fields are laid out in
// declaration order, the offset of each field is the running size rounded
// up to that field's alignment, and the final size is rounded up to the
// tuple's own (maximum child) alignment so arrays of tuples get the
// correct stride.
func tupleSize(children tag.Iterator, arity int) int {
	size := 0
	maxAlignment := 1
	for i := 0; i < arity; i++ {
		child := mustChild(&children)
		alignment := Alignment(child)
		if alignment > maxAlignment {
			maxAlignment = alignment
		}
		size = roundUp(size, alignment)
		size += Size(child)
	}
	return roundUp(size, maxAlignment)
}

func maxChildAlignment(children tag.Iterator, count int) int {
	best := 1
	for i := 0; i < count; i++ {
		child := mustChild(&children)
		if a := Alignment(child); a > best {
			best = a
		}
	}
	return best
}

// assertScalarRangeChild resolves the "size() for Range(T)" open question:
// 3*size(T) is only correct when T's size already equals its own aligned
// stride, which holds for scalars but not for tuples. Reject non-scalar
// range elements rather than silently miscomputing their stride.
func assertScalarRangeChild(t tag.Tag) {
	child := mustChild(&t.Sub)
	switch child.Kind {
	case tag.None, tag.Bool, tag.Int32, tag.Int64, tag.Float64:
		return
	default:
		panic(tag.StructuralError{Reason: "Range element type must be scalar, got " + child.Kind.String()})
	}
}

func mustChild(it *tag.Iterator) tag.Tag {
	child, err := it.Next()
	if err != nil {
		if err == io.EOF {
			panic(tag.StructuralError{Reason: "truncated tag: expected child tag"})
		}
		panic(err)
	}
	return child
}

func roundUp(val, powerOfTwo int) int {
	maxRem := powerOfTwo - 1
	return (val + maxRem) &^ maxRem
}

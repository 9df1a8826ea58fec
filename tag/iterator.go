package tag

import (
	"io"
	"strings"
)

// Iterator walks a tag byte string, yielding one Tag per call to Next. It
// is single-pass but cheap to copy (one slice header), which lets callers
// fork an independent cursor before reading a composite's child tags twice
// (once for layout, once for traversal) -- the common pattern in this
// codec.
type Iterator struct {
	data []byte
}

// NewIterator returns an Iterator over tagBytes. The iterator borrows the
// slice; it must not be mutated while the iterator (or any sub-iterator
// derived from it) is in use.
func NewIterator(tagBytes []byte) Iterator {
	return Iterator{data: tagBytes}
}

// Next consumes and returns the next tag. It returns io.EOF once the
// iterator is exhausted, and a StructuralError if the tag bytes are
// malformed.
func (it *Iterator) Next() (Tag, error) {
	if len(it.data) == 0 {
		return Tag{}, io.EOF
	}

	b := it.data[0]
	it.data = it.data[1:]

	switch b {
	case 'n':
		return Tag{Kind: None}, nil
	case 'b':
		return Tag{Kind: Bool}, nil
	case 'i':
		return Tag{Kind: Int32}, nil
	case 'I':
		return Tag{Kind: Int64}, nil
	case 'f':
		return Tag{Kind: Float64}, nil
	case 's':
		return Tag{Kind: String}, nil
	case 'B':
		return Tag{Kind: Bytes}, nil
	case 'A':
		return Tag{Kind: ByteArray}, nil
	case 't':
		arity, err := it.byte("tuple arity")
		if err != nil {
			return Tag{}, err
		}
		sub, err := it.sub(int(arity))
		if err != nil {
			return Tag{}, err
		}
		return Tag{Kind: Tuple, Arity: arity, Sub: sub}, nil
	case 'l':
		sub, err := it.sub(1)
		if err != nil {
			return Tag{}, err
		}
		return Tag{Kind: List, Sub: sub}, nil
	case 'a':
		numDims, err := it.byte("array dimension count")
		if err != nil {
			return Tag{}, err
		}
		sub, err := it.sub(1)
		if err != nil {
			return Tag{}, err
		}
		return Tag{Kind: Array, Arity: numDims, Sub: sub}, nil
	case 'r':
		sub, err := it.sub(1)
		if err != nil {
			return Tag{}, err
		}
		return Tag{Kind: Range, Sub: sub}, nil
	case 'k':
		sub, err := it.sub(1)
		if err != nil {
			return Tag{}, err
		}
		return Tag{Kind: Keyword, Sub: sub}, nil
	case 'O':
		return Tag{Kind: Object}, nil
	default:
		return Tag{}, StructuralError{Reason: "unknown tag byte " + quoteByte(b)}
	}
}

// byte consumes one raw length/count byte, reporting what was being parsed
// if the tag string runs out early.
func (it *Iterator) byte(what string) (uint8, error) {
	if len(it.data) == 0 {
		return 0, StructuralError{Reason: "truncated tag: expected " + what}
	}
	b := it.data[0]
	it.data = it.data[1:]
	return b, nil
}

// sub forks an independent sub-iterator spanning exactly the count child
// tags that follow, leaving the receiver positioned after them.
func (it *Iterator) sub(count int) (Iterator, error) {
	start := it.data
	for i := 0; i < count; i++ {
		if _, err := it.Next(); err != nil {
			if err == io.EOF {
				return Iterator{}, StructuralError{Reason: "truncated tag: expected child tag"}
			}
			return Iterator{}, err
		}
	}
	return Iterator{data: start[:len(start)-len(it.data)]}, nil
}

// String renders the remaining tags in the iterator, comma-separated, for
// diagnostics only.
func (it Iterator) String() string {
	clone := it
	var parts []string
	for {
		t, err := clone.Next()
		if err != nil {
			break
		}
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

func quoteByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return "'" + string(b) + "'"
	}
	return "0x" + hexByte(b)
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xf]})
}

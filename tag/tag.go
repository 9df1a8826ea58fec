// Package tag implements the compact tag grammar used to describe RPC
// argument and return types between a host process and the embedded
// runtime it controls.
//
// A tag string is a sequence of one-byte constructors, some of which embed
// further tag bytes for their element types (Tuple, List, Array, Range,
// Keyword). Parsing never allocates beyond the returned Tag/Iterator
// values, which all borrow the original byte slice.
package tag

import (
	"bytes"
	"fmt"
)

// Kind identifies one of the type constructors in the grammar.
type Kind uint8

// The full set of tag constructors, see the wire byte table in the
// protocol documentation.
const (
	None Kind = iota
	Bool
	Int32
	Int64
	Float64
	String
	Bytes
	ByteArray
	Tuple
	List
	Array
	Range
	Keyword
	Object
)

// Byte returns the wire byte for the constructor.
func (k Kind) Byte() byte {
	switch k {
	case None:
		return 'n'
	case Bool:
		return 'b'
	case Int32:
		return 'i'
	case Int64:
		return 'I'
	case Float64:
		return 'f'
	case String:
		return 's'
	case Bytes:
		return 'B'
	case ByteArray:
		return 'A'
	case Tuple:
		return 't'
	case List:
		return 'l'
	case Array:
		return 'a'
	case Range:
		return 'r'
	case Keyword:
		return 'k'
	case Object:
		return 'O'
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case Bool:
		return "Bool"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Float64:
		return "Float64"
	case String:
		return "String"
	case Bytes:
		return "Bytes"
	case ByteArray:
		return "ByteArray"
	case Tuple:
		return "Tuple"
	case List:
		return "List"
	case Array:
		return "Array"
	case Range:
		return "Range"
	case Keyword:
		return "Keyword"
	case Object:
		return "Object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Tag describes one value type in the schema grammar. It is cheap to copy:
// Sub only borrows a slice of the original tag bytes.
//
// Arity holds the tuple field count for Tuple, or the number of dimensions
// for Array; it is unused for every other Kind.
type Tag struct {
	Kind  Kind
	Arity uint8
	Sub   Iterator
}

// Byte returns the wire byte for the tag's constructor.
func (t Tag) Byte() byte {
	return t.Kind.Byte()
}

// String renders the tag for diagnostics, e.g. "Tuple(Int32, List(Float64))".
// It has no semantic role in the protocol.
func (t Tag) String() string {
	switch t.Kind {
	case Tuple:
		return fmt.Sprintf("Tuple(%s)", t.Sub.String())
	case List:
		return fmt.Sprintf("List(%s)", t.Sub.String())
	case Array:
		return fmt.Sprintf("Array(%s, %d)", t.Sub.String(), t.Arity)
	case Range:
		return fmt.Sprintf("Range(%s)", t.Sub.String())
	case Keyword:
		return fmt.Sprintf("Keyword(%s)", t.Sub.String())
	default:
		return t.Kind.String()
	}
}

// StructuralError reports a tag-grammar contract violation: an unknown tag
// byte, a truncated composite, a missing return-tag separator, or a
// Keyword/Object tag used somewhere the grammar disallows it.
//
// This always indicates a protocol mismatch between host and kernel; the
// caller is expected to abort the current RPC rather than attempt
// recovery.
type StructuralError struct {
	Reason string
}

func (e StructuralError) Error() string {
	return fmt.Sprintf("tag: structural error: %s", e.Reason)
}

// SplitSignature splits a full RPC signature "arg_tags:return_tag" at its
// first ':' separator. A signature without a separator is a structural
// error.
func SplitSignature(tagBytes []byte) (argTags, returnTag []byte, err error) {
	idx := bytes.IndexByte(tagBytes, ':')
	if idx < 0 {
		return nil, nil, StructuralError{Reason: "tag signature missing ':' return separator"}
	}
	return tagBytes[:idx], tagBytes[idx+1:], nil
}

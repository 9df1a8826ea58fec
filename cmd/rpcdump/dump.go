package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/embedded-rpc/kernrpc/wire"
)

func nativeUint32(b []byte) uint32 { return binary.NativeEndian.Uint32(b) }
func nativeUint64(b []byte) uint64 { return binary.NativeEndian.Uint64(b) }

// dumpArgs decodes one captured send_args frame: a service id, followed
// by each argument as a self-describing value (its own tag byte leading
// the body, per spec.md §6's "Argument wire format"), a 0x00 end-of-args
// sentinel, and the verbatim return-tag bytes.
//
// Unlike rpc.RecvValue, which is handed its tag out of band from a
// compiled schema, this walks values whose type is discovered on the
// wire as it goes -- the same self-describing framing a host-side
// protocol trace would see, which is what makes this useful as a
// standalone debugging aid independent of a live kernel connection.
func dumpArgs(r wire.Reader) (serviceID uint32, args []string, returnTag string, err error) {
	serviceID, err = r.ReadU32()
	if err != nil {
		return 0, nil, "", fmt.Errorf("rpcdump: reading service id: %w", err)
	}

	for {
		tagByte, err := r.ReadU8()
		if err != nil {
			return 0, nil, "", fmt.Errorf("rpcdump: reading arg tag: %w", err)
		}
		if tagByte == 0 {
			break
		}

		rendered, err := dumpValue(r, tagByte)
		if err != nil {
			return 0, nil, "", fmt.Errorf("rpcdump: arg %d: %w", len(args), err)
		}
		args = append(args, rendered)
	}

	var rt []byte
	for {
		b, err := r.ReadU8()
		if err != nil {
			// The return tag runs to the end of the captured frame; any
			// read error here (expected: io.EOF) just marks that end.
			break
		}
		rt = append(rt, b)
	}
	return serviceID, args, string(rt), nil
}

// dumpValue renders one self-describing value whose leading tag byte has
// already been consumed as tagByte. It mirrors rpc.sendValue's framing
// exactly, in reverse.
func dumpValue(r wire.Reader, tagByte byte) (string, error) {
	switch tagByte {
	case 'n':
		return "None", nil

	case 'b':
		v, err := r.ReadU8()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Bool(%t)", v != 0), nil

	case 'i':
		v, err := r.ReadU32()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Int32(%d)", int32(v)), nil

	case 'I':
		v, err := r.ReadU64()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Int64(%d)", int64(v)), nil

	case 'f':
		v, err := r.ReadU64()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Float64(%v)", math.Float64frombits(v)), nil

	case 's':
		v, err := r.ReadString()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("String(%q)", v), nil

	case 'B', 'A':
		n, err := r.ReadU32()
		if err != nil {
			return "", err
		}
		data, err := r.ReadBytes(int(n))
		if err != nil {
			return "", err
		}
		kind := "Bytes"
		if tagByte == 'A' {
			kind = "ByteArray"
		}
		return fmt.Sprintf("%s(%s)", kind, hex.EncodeToString(data)), nil

	case 't':
		return dumpTuple(r)

	case 'l':
		return dumpList(r)

	case 'a':
		return dumpArray(r)

	case 'r':
		return dumpRange(r)

	case 'k':
		return dumpKeyword(r)

	case 'O':
		v, err := r.ReadU32()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Object(#%d)", v), nil

	default:
		return "", fmt.Errorf("unknown tag byte 0x%02x", tagByte)
	}
}

func dumpTuple(r wire.Reader) (string, error) {
	arity, err := r.ReadU8()
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, arity)
	for i := 0; i < int(arity); i++ {
		childTag, err := r.ReadU8()
		if err != nil {
			return "", err
		}
		v, err := dumpValue(r, childTag)
		if err != nil {
			return "", err
		}
		parts = append(parts, v)
	}
	return "Tuple(" + joinComma(parts) + ")", nil
}

func dumpList(r wire.Reader) (string, error) {
	length, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	eltTag, err := r.ReadU8()
	if err != nil {
		return "", err
	}

	parts, err := dumpElements(r, eltTag, int(length))
	if err != nil {
		return "", err
	}
	return "List[" + joinComma(parts) + "]", nil
}

func dumpArray(r wire.Reader) (string, error) {
	numDims, err := r.ReadU8()
	if err != nil {
		return "", err
	}

	dims := make([]uint32, numDims)
	total := 1
	for i := range dims {
		d, err := r.ReadU32()
		if err != nil {
			return "", err
		}
		dims[i] = d
		total *= int(d)
	}

	eltTag, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	parts, err := dumpElements(r, eltTag, total)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Array%v[%s]", dims, joinComma(parts)), nil
}

func dumpRange(r wire.Reader) (string, error) {
	parts := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		childTag, err := r.ReadU8()
		if err != nil {
			return "", err
		}
		v, err := dumpValue(r, childTag)
		if err != nil {
			return "", err
		}
		parts = append(parts, v)
	}
	return "Range(" + joinComma(parts) + ")", nil
}

func dumpKeyword(r wire.Reader) (string, error) {
	name, err := r.ReadString()
	if err != nil {
		return "", err
	}
	valueTag, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	v, err := dumpValue(r, valueTag)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Keyword(%s=%s)", name, v), nil
}

// dumpElements renders length consecutive elements of the same tag byte.
// Scalar element types were transferred as one unframed, native-endian
// block (rpc.sendElements' fast path); every other element type carries
// its own (redundant, but present on the wire) leading tag byte per
// rpc.sendValue.
func dumpElements(r wire.Reader, eltTag byte, length int) ([]string, error) {
	switch eltTag {
	case 'b':
		data, err := r.ReadBytes(length)
		if err != nil {
			return nil, err
		}
		parts := make([]string, length)
		for i, b := range data {
			parts[i] = fmt.Sprintf("%t", b != 0)
		}
		return parts, nil

	case 'i':
		data, err := r.ReadBytes(length * 4)
		if err != nil {
			return nil, err
		}
		parts := make([]string, length)
		for i := 0; i < length; i++ {
			parts[i] = fmt.Sprintf("%d", int32(nativeUint32(data[i*4:])))
		}
		return parts, nil

	case 'I', 'f':
		data, err := r.ReadBytes(length * 8)
		if err != nil {
			return nil, err
		}
		parts := make([]string, length)
		for i := 0; i < length; i++ {
			v := nativeUint64(data[i*8:])
			if eltTag == 'I' {
				parts[i] = fmt.Sprintf("%d", int64(v))
			} else {
				parts[i] = fmt.Sprintf("%v", math.Float64frombits(v))
			}
		}
		return parts, nil

	default:
		parts := make([]string, 0, length)
		for i := 0; i < length; i++ {
			childTag, err := r.ReadU8()
			if err != nil {
				return nil, err
			}
			v, err := dumpValue(r, childTag)
			if err != nil {
				return nil, err
			}
			parts = append(parts, v)
		}
		return parts, nil
	}
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedded-rpc/kernrpc/wire"
)

func TestStreamScalarRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewStream(nil, &buf)

	require.NoError(t, w.WriteU8(0x7f))
	require.NoError(t, w.WriteU32(0x11223344))
	require.NoError(t, w.WriteU64(0x0102030405060708))
	require.NoError(t, w.WriteString("hi"))
	require.NoError(t, w.Flush())

	// Big-endian on the wire.
	data := buf.Bytes()
	assert.Equal(t, []byte{0x7f, 0x11, 0x22, 0x33, 0x44}, data[:5])

	r := wire.NewStream(bytes.NewReader(data), nil)
	b, err := r.ReadU8()
	require.NoError(t, err)
	assert.EqualValues(t, 0x7f, b)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.EqualValues(t, 0x11223344, u32)

	u64, err := r.ReadU64()
	require.NoError(t, err)
	assert.EqualValues(t, 0x0102030405060708, u64)

	str, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hi", str)
}

func TestStreamReadErrorWrapped(t *testing.T) {
	r := wire.NewStream(bytes.NewReader(nil), nil)
	_, err := r.ReadU8()
	require.Error(t, err)

	var wireErr *wire.Error
	assert.ErrorAs(t, err, &wireErr)
}

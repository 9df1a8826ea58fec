package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedded-rpc/kernrpc/alloc"
)

func TestArenaAllocAdvancesAndResolves(t *testing.T) {
	a := alloc.NewArena(64)

	r1, err := a.Alloc(8)
	require.NoError(t, err)
	r2, err := a.Alloc(16)
	require.NoError(t, err)

	assert.Equal(t, 24, a.Used())

	copy(a.Bytes(r1, 8), []byte{1, 2, 3, 4, 5, 6, 7, 8})
	copy(a.Bytes(r2, 16), make([]byte, 16))

	assert.Equal(t, byte(1), a.Bytes(r1, 8)[0])
}

func TestArenaExhausted(t *testing.T) {
	a := alloc.NewArena(4)
	_, err := a.Alloc(8)
	assert.ErrorIs(t, err, alloc.ErrArenaExhausted)
}

func TestArenaReset(t *testing.T) {
	a := alloc.NewArena(16)
	_, err := a.Alloc(16)
	require.NoError(t, err)

	_, err = a.Alloc(1)
	assert.Error(t, err)

	a.Reset()
	_, err = a.Alloc(16)
	assert.NoError(t, err)
}

func TestRefOffset(t *testing.T) {
	a := alloc.NewArena(32)
	base, err := a.Alloc(16)
	require.NoError(t, err)

	shifted := alloc.Offset(base, 8)
	copy(a.Bytes(shifted, 4), []byte{9, 9, 9, 9})
	assert.Equal(t, byte(9), a.Bytes(base, 16)[8])
}

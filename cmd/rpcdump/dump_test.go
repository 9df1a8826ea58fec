package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedded-rpc/kernrpc/alloc"
	"github.com/embedded-rpc/kernrpc/cursor"
	"github.com/embedded-rpc/kernrpc/rpc"
	"github.com/embedded-rpc/kernrpc/wire"
)

// A captured send_args frame for "ii:i" -- the real encoder, not a
// hand-built byte string, so the dumper is exercised against exactly
// what rpc.SendArgs actually produces.
func TestDumpArgsIntPair(t *testing.T) {
	arena := alloc.NewArena(64)

	aBuf, bBuf := make([]byte, 4), make([]byte, 4)
	cursor.New(aBuf).WriteU32(uint32(int32(11)))
	cursor.New(bBuf).WriteU32(uint32(int32(-7)))

	var out bytes.Buffer
	w := wire.NewStream(nil, &out)
	require.NoError(t, rpc.SendArgs(w, 7, []byte("ii:i"), []*cursor.Cursor{cursor.New(aBuf), cursor.New(bBuf)}, arena))
	require.NoError(t, w.Flush())

	r := wire.NewStream(bytes.NewReader(out.Bytes()), nil)
	serviceID, args, returnTag, err := dumpArgs(r)
	require.NoError(t, err)

	assert.EqualValues(t, 7, serviceID)
	assert.Equal(t, []string{"Int32(11)", "Int32(-7)"}, args)
	assert.Equal(t, "i", returnTag)
}

func TestDumpArgsListOfInt32(t *testing.T) {
	arena := alloc.NewArena(64)

	length := 3
	eltBuf := make([]byte, length*4)
	ec := cursor.New(eltBuf)
	ec.WriteU32(1)
	ec.WriteU32(2)
	ec.WriteU32(3)

	backing := make([]byte, 8)
	c := cursor.New(backing)
	ref, err := arena.Alloc(length * 4)
	require.NoError(t, err)
	copy(arena.Bytes(ref, length*4), eltBuf)
	c.WriteRef(ref)
	c.WriteU32(uint32(length))

	var out bytes.Buffer
	w := wire.NewStream(nil, &out)
	listC := cursor.New(append([]byte(nil), backing...))
	require.NoError(t, rpc.SendArgs(w, 1, []byte("li:n"), []*cursor.Cursor{listC}, arena))
	require.NoError(t, w.Flush())

	r := wire.NewStream(bytes.NewReader(out.Bytes()), nil)
	_, args, _, err := dumpArgs(r)
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, "List[1, 2, 3]", args[0])
}

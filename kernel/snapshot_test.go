package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedded-rpc/kernrpc/alloc"
	"github.com/embedded-rpc/kernrpc/cursor"
	"github.com/embedded-rpc/kernrpc/kernel"
)

func TestServiceTableSnapshotIsSortedByID(t *testing.T) {
	services := kernel.NewServiceTable()
	noop := func(args []*cursor.Cursor, al alloc.Allocator) (*cursor.Cursor, error) {
		return cursor.New(nil), nil
	}
	services.Register(9, "n:n", noop)
	services.Register(2, "i:n", noop)
	services.Register(5, "s:n", noop)

	snaps := services.Snapshot()
	require.Len(t, snaps, 3)
	assert.Equal(t, []kernel.ServiceSnapshot{
		{ServiceID: 2, Signature: "i:n"},
		{ServiceID: 5, Signature: "s:n"},
		{ServiceID: 9, Signature: "n:n"},
	}, snaps)
}

func TestSnapshotRoundTrip(t *testing.T) {
	snaps := []kernel.ServiceSnapshot{
		{ServiceID: 1, Signature: "ii:i"},
		{ServiceID: 2, Signature: "s:n"},
	}

	data, err := kernel.EncodeSnapshot(snaps)
	require.NoError(t, err)

	decoded, err := kernel.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, snaps, decoded)
}

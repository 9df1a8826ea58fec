package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedded-rpc/kernrpc/kernel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := kernel.DefaultConfig()
	assert.Equal(t, kernel.DefaultArenaSize, cfg.ArenaSize)
	assert.Equal(t, kernel.DefaultServiceCapacity, cfg.ServiceCapacity)
	assert.Empty(t, cfg.SerialPort)
	assert.Equal(t, kernel.DefaultSerialBaud, cfg.SerialBaud)
}

func TestFromEnvOverridesArenaSize(t *testing.T) {
	t.Setenv("KERNRPC_ARENA_SIZE", "4096")
	t.Setenv("KERNRPC_SERIAL_PORT", "/dev/ttyS0")

	cfg, err := kernel.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.ArenaSize)
	assert.Equal(t, "/dev/ttyS0", cfg.SerialPort)
}

func TestFromEnvRejectsMalformedInt(t *testing.T) {
	t.Setenv("KERNRPC_ARENA_SIZE", "not-a-number")

	_, err := kernel.FromEnv()
	assert.Error(t, err)
}

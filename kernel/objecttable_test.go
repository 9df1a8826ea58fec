package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/embedded-rpc/kernrpc/kernel"
)

func TestObjectTableRegisterLookupForget(t *testing.T) {
	ot := kernel.NewObjectTable()

	type widget struct{ name string }
	id := ot.Register(&widget{name: "a"})
	assert.NotZero(t, id)

	got, ok := ot.Lookup(id)
	assert.True(t, ok)
	assert.Equal(t, &widget{name: "a"}, got)

	ot.Forget(id)
	_, ok = ot.Lookup(id)
	assert.False(t, ok)
}

func TestObjectTableIssuesDistinctIDs(t *testing.T) {
	ot := kernel.NewObjectTable()
	a := ot.Register("x")
	b := ot.Register("y")
	assert.NotEqual(t, a, b)
}

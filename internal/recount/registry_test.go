package recount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arraypress/edd-register-recount-tools/internal/logger"
)

func newTestRegistry() (*Registry, *observer.ObservedLogs) {
	log, logs := logger.TestLogger()
	return NewRegistry(log), logs
}

func TestRegistry_Register_EmptySet(t *testing.T) {
	reg, _ := newTestRegistry()

	err := reg.Register(nil)
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	err = reg.Register(map[string]Definition{})
	assert.Error(t, err)
}

func TestRegistry_Register_EmptyKey(t *testing.T) {
	reg, _ := newTestRegistry()

	err := reg.Register(map[string]Definition{
		"": {Callback: noopCallback, Count: noopCount},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool key must not be empty")
}

func TestRegistry_Register_InvalidToolNamesKey(t *testing.T) {
	reg, _ := newTestRegistry()

	err := reg.Register(map[string]Definition{
		"recount-broken": {},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recount-broken")
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_Register_AllOrNothing(t *testing.T) {
	reg, _ := newTestRegistry()

	err := reg.Register(map[string]Definition{
		"recount-good": {Callback: noopCallback, Count: noopCount},
		"recount-bad":  {Callback: noopCallback},
	})
	require.Error(t, err)

	_, ok := reg.Lookup("recount-good")
	assert.False(t, ok, "valid entry must not survive a failed batch")
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_Register_Success(t *testing.T) {
	reg, logs := newTestRegistry()

	err := reg.Register(map[string]Definition{
		"recount-earnings": {Callback: noopCallback, Count: noopCount},
		"recount-custom":   {Class: "CustomRecount", File: "/tools/custom.go", Description: "Custom recount"},
	})
	require.NoError(t, err)

	def, ok := reg.Lookup("recount-earnings")
	require.True(t, ok)
	assert.Equal(t, "recount-earnings", def.Key)
	assert.Equal(t, "recount-earnings", def.Label)
	assert.Equal(t, int64(DefaultBatchSize), def.BatchSize)
	assert.Equal(t, TypeCallback, def.Type)

	assert.Equal(t, []string{"recount-custom", "recount-earnings"}, reg.Keys())

	entries := logs.FilterMessage("registered recount tools").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["count"])
}

func TestRegistry_Register_Overwrite(t *testing.T) {
	reg, _ := newTestRegistry()

	require.NoError(t, reg.Register(map[string]Definition{
		"recount-earnings": {Label: "First", Callback: noopCallback, Count: noopCount},
	}))
	require.NoError(t, reg.Register(map[string]Definition{
		"recount-earnings": {Label: "Second", BatchSize: 5, Callback: noopCallback, Count: noopCount},
	}))

	def, ok := reg.Lookup("recount-earnings")
	require.True(t, ok)
	assert.Equal(t, "Second", def.Label)
	assert.Equal(t, int64(5), def.BatchSize)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Lookup_Unknown(t *testing.T) {
	reg, _ := newTestRegistry()

	_, ok := reg.Lookup("recount-missing")
	assert.False(t, ok)
}

func TestRegistry_ConfiguredDefaults(t *testing.T) {
	log, _ := logger.TestLogger()
	reg := NewRegistryWithDefaults(log, Defaults{BatchSize: 30, MaxBatchSize: 100})

	require.NoError(t, reg.Register(map[string]Definition{
		"recount-unsized": {Callback: noopCallback, Count: noopCount},
		"recount-sized":   {BatchSize: 50, Callback: noopCallback, Count: noopCount},
		"recount-greedy":  {BatchSize: 5000, Callback: noopCallback, Count: noopCount},
	}))

	def, _ := reg.Lookup("recount-unsized")
	assert.Equal(t, int64(30), def.BatchSize)

	def, _ = reg.Lookup("recount-sized")
	assert.Equal(t, int64(50), def.BatchSize)

	def, _ = reg.Lookup("recount-greedy")
	assert.Equal(t, int64(100), def.BatchSize, "page size is capped at the configured maximum")
}

func TestRegistry_ZeroDefaultsFallBackToStock(t *testing.T) {
	log, _ := logger.TestLogger()
	reg := NewRegistryWithDefaults(log, Defaults{})

	require.NoError(t, reg.Register(map[string]Definition{
		"recount-unsized": {Callback: noopCallback, Count: noopCount},
	}))

	def, _ := reg.Lookup("recount-unsized")
	assert.Equal(t, int64(DefaultBatchSize), def.BatchSize)
}

func TestRegistry_Definitions_Sorted(t *testing.T) {
	reg, _ := newTestRegistry()

	require.NoError(t, reg.Register(map[string]Definition{
		"recount-b": {Callback: noopCallback, Count: noopCount},
		"recount-a": {Callback: noopCallback, Count: noopCount},
		"recount-c": {Callback: noopCallback, Count: noopCount},
	}))

	defs := reg.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "recount-a", defs[0].Key)
	assert.Equal(t, "recount-b", defs[1].Key)
	assert.Equal(t, "recount-c", defs[2].Key)
}

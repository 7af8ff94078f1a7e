package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arraypress/edd-register-recount-tools/internal/recount"
)

type stubClassJob struct {
	req Request
}

func (j *stubClassJob) ProcessStep(ctx context.Context) (bool, error) {
	return false, nil
}

func (j *stubClassJob) PercentComplete(ctx context.Context) (float64, error) {
	return 100, nil
}

func writeToolFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "custom_recount.go")
	require.NoError(t, os.WriteFile(path, []byte("package custom\n"), 0644))
	return path
}

func TestFactory_Resolve(t *testing.T) {
	factory := NewFactory()
	factory.RegisterClass("CustomRecount", func(req Request) Job {
		return &stubClassJob{req: req}
	})

	t.Run("registered class with existing file", func(t *testing.T) {
		ctor, ok := factory.Resolve("CustomRecount", writeToolFile(t))
		require.True(t, ok)
		assert.NotNil(t, ctor)
	})

	t.Run("unregistered class", func(t *testing.T) {
		_, ok := factory.Resolve("UnknownRecount", writeToolFile(t))
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, ok := factory.Resolve("CustomRecount", filepath.Join(t.TempDir(), "gone.go"))
		assert.False(t, ok)
	})
}

func TestNewJob_ClassTool(t *testing.T) {
	file := writeToolFile(t)

	reg := recount.NewRegistry(zap.NewNop())
	require.NoError(t, reg.Register(map[string]recount.Definition{
		"recount-custom": {Class: "CustomRecount", File: file},
	}))

	factory := NewFactory()
	factory.RegisterClass("CustomRecount", func(req Request) Job {
		return &stubClassJob{req: req}
	})

	job := NewJob(reg, factory, Request{ToolKey: "recount-custom", Step: 1})
	stub, ok := job.(*stubClassJob)
	require.True(t, ok, "class tool must resolve through the factory")
	assert.Equal(t, "recount-custom", stub.req.ToolKey)
}

func TestNewJob_ClassTool_MissingFileDegrades(t *testing.T) {
	reg := recount.NewRegistry(zap.NewNop())
	require.NoError(t, reg.Register(map[string]recount.Definition{
		"recount-custom": {Class: "CustomRecount", File: "/nonexistent/custom.go"},
	}))

	factory := NewFactory()
	factory.RegisterClass("CustomRecount", func(req Request) Job {
		return &stubClassJob{req: req}
	})

	job := NewJob(reg, factory, Request{ToolKey: "recount-custom", Step: 1})
	cont, err := job.ProcessStep(context.Background())
	require.NoError(t, err)
	assert.False(t, cont)

	pct, err := job.PercentComplete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)
}

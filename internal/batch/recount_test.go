package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arraypress/edd-register-recount-tools/internal/recount"
)

func registryWith(t *testing.T, defs map[string]recount.Definition) *recount.Registry {
	t.Helper()
	reg := recount.NewRegistry(zap.NewNop())
	require.NoError(t, reg.Register(defs))
	return reg
}

func fixedPage(items []string) recount.BatchFunc {
	return func(ctx context.Context, offset, limit int64) ([]string, error) {
		return items, nil
	}
}

func fixedCount(total int64) recount.CountFunc {
	return func(ctx context.Context) (int64, error) {
		return total, nil
	}
}

func TestRecountJob_UnknownToolKey(t *testing.T) {
	reg := recount.NewRegistry(zap.NewNop())
	job := NewJob(reg, NewFactory(), Request{ToolKey: "recount-missing", Step: 1})

	cont, err := job.ProcessStep(context.Background())
	require.NoError(t, err)
	assert.False(t, cont, "unresolvable tool must complete immediately")

	pct, err := job.PercentComplete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)
}

func TestRecountJob_OffsetComputation(t *testing.T) {
	var gotOffset, gotLimit int64
	reg := registryWith(t, map[string]recount.Definition{
		"recount-earnings": {
			BatchSize: 25,
			Callback: func(ctx context.Context, offset, limit int64) ([]string, error) {
				gotOffset, gotLimit = offset, limit
				return []string{"order-1"}, nil
			},
			Count: fixedCount(1000),
		},
	})

	job := NewJob(reg, NewFactory(), Request{ToolKey: "recount-earnings", Step: 4})
	cont, err := job.ProcessStep(context.Background())
	require.NoError(t, err)
	assert.True(t, cont)
	assert.Equal(t, int64(75), gotOffset)
	assert.Equal(t, int64(25), gotLimit)
}

func TestRecountJob_StepBelowOneClampsToFirstPage(t *testing.T) {
	var gotOffset int64 = -1
	reg := registryWith(t, map[string]recount.Definition{
		"recount-earnings": {
			Callback: func(ctx context.Context, offset, limit int64) ([]string, error) {
				gotOffset = offset
				return nil, nil
			},
			Count: fixedCount(10),
		},
	})

	job := NewJob(reg, NewFactory(), Request{ToolKey: "recount-earnings", Step: 0})
	_, err := job.ProcessStep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), gotOffset)
}

func TestRecountJob_ProcessStep_StopsOnEmptyPage(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  bool
	}{
		{"empty page stops", nil, false},
		{"zero-length page stops", []string{}, false},
		{"single item continues", []string{"order-1"}, true},
		{"contents are irrelevant", []string{"", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registryWith(t, map[string]recount.Definition{
				"recount-earnings": {Callback: fixedPage(tt.items), Count: fixedCount(100)},
			})

			job := NewJob(reg, NewFactory(), Request{ToolKey: "recount-earnings", Step: 1})
			cont, err := job.ProcessStep(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, cont)
		})
	}
}

func TestRecountJob_CallbackErrorPropagates(t *testing.T) {
	wantErr := errors.New("orders table unavailable")
	reg := registryWith(t, map[string]recount.Definition{
		"recount-earnings": {
			Callback: func(ctx context.Context, offset, limit int64) ([]string, error) {
				return nil, wantErr
			},
			Count: fixedCount(100),
		},
	})

	job := NewJob(reg, NewFactory(), Request{ToolKey: "recount-earnings", Step: 1})
	cont, err := job.ProcessStep(context.Background())
	assert.False(t, cont)
	assert.ErrorIs(t, err, wantErr)
}

func TestRecountJob_PercentComplete(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		batchSize int64
		step      int64
		want      float64
	}{
		{"zero total is always complete", 0, 20, 7, 100},
		{"negative total is always complete", -5, 20, 1, 100},
		{"first step has processed nothing", 100, 20, 1, 0},
		{"step three over one hundred", 100, 20, 3, 40},
		{"capped at one hundred", 10, 20, 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registryWith(t, map[string]recount.Definition{
				"recount-earnings": {
					BatchSize: tt.batchSize,
					Callback:  fixedPage([]string{"order-1"}),
					Count:     fixedCount(tt.total),
				},
			})

			job := NewJob(reg, NewFactory(), Request{ToolKey: "recount-earnings", Step: tt.step})
			pct, err := job.PercentComplete(context.Background())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, pct, 0.0001)
		})
	}
}

func TestRecountJob_CountErrorPropagates(t *testing.T) {
	wantErr := errors.New("count query failed")
	reg := registryWith(t, map[string]recount.Definition{
		"recount-earnings": {
			Callback: fixedPage(nil),
			Count: func(ctx context.Context) (int64, error) {
				return 0, wantErr
			},
		},
	})

	job := NewJob(reg, NewFactory(), Request{ToolKey: "recount-earnings", Step: 2})
	_, err := job.PercentComplete(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestRecountJob_FreshPerStep(t *testing.T) {
	// State between steps travels in the request only: two jobs built for
	// consecutive steps see consecutive offsets.
	var offsets []int64
	reg := registryWith(t, map[string]recount.Definition{
		"recount-earnings": {
			BatchSize: 20,
			Callback: func(ctx context.Context, offset, limit int64) ([]string, error) {
				offsets = append(offsets, offset)
				if offset >= 40 {
					return nil, nil
				}
				return []string{"order"}, nil
			},
			Count: fixedCount(60),
		},
	})

	factory := NewFactory()
	for step := int64(1); ; step++ {
		job := NewJob(reg, factory, Request{ToolKey: "recount-earnings", Step: step})
		cont, err := job.ProcessStep(context.Background())
		require.NoError(t, err)
		if !cont {
			break
		}
	}

	assert.Equal(t, []int64{0, 20, 40}, offsets)
}

package batch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/FormKey/pkg/core"
	"github.com/ChrisMcGann/FormKey/pkg/enumerate"
	"github.com/ChrisMcGann/FormKey/pkg/limits"
)

func newDriver(t *testing.T, cfg Config, log *bytes.Buffer) *Driver {
	t.Helper()
	resolver := limits.NewResolver(limits.DefaultTable(), limits.Overrides{})
	var d *Driver
	var err error
	if log == nil {
		d, err = NewDriver(cfg, resolver, enumerate.Default(), nil)
	} else {
		d, err = NewDriver(cfg, resolver, enumerate.Default(), log)
	}
	require.NoError(t, err)
	return d
}

func collect(results *[]*WindowResult) Sink {
	return SinkFunc(func(res *WindowResult) error {
		*results = append(*results, res)
		return nil
	})
}

func TestRunOrderAndSummary(t *testing.T) {
	d := newDriver(t, Config{Mode: core.Negative, Centers: []float64{250, 150}, HalfWidth: 50, Workers: 2}, nil)

	var results []*WindowResult
	sum, err := d.Run(context.Background(), collect(&results))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, core.Window{Low: 200, High: 300}, results[0].Window)
	assert.Equal(t, core.Window{Low: 100, High: 200}, results[1].Window)

	total := 0
	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, i, res.Index)
		assert.NotEmpty(t, res.Candidates)
		for j := 1; j < len(res.Candidates); j++ {
			require.LessOrEqual(t, res.Candidates[j-1].Mass, res.Candidates[j].Mass)
		}
		total += len(res.Candidates)
	}

	assert.Equal(t, 2, sum.Windows)
	assert.Zero(t, sum.Failed)
	assert.Equal(t, total, sum.Candidates)
	assert.Equal(t, limits.Bounds{MaxC: 16, MaxH: 64, MaxO: 12, MaxS: 2}, sum.Bounds)
}

func TestRunContinuesAfterFailedWindow(t *testing.T) {
	var log bytes.Buffer
	d := newDriver(t, Config{Mode: core.Positive, Centers: []float64{5, 150}, HalfWidth: 4}, &log)

	var results []*WindowResult
	sum, err := d.Run(context.Background(), collect(&results))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.ErrorIs(t, results[0].Err, limits.ErrInvalidBounds)
	assert.NotNil(t, results[0].Candidates)
	assert.Empty(t, results[0].Candidates)
	assert.NoError(t, results[1].Err)

	assert.Equal(t, 1, sum.Failed)
	assert.Contains(t, log.String(), "Warning: window 1-9 failed")
}

func TestRunParallelMatchesSequential(t *testing.T) {
	centers := []float64{150, 250, 350}
	var seq, par []*WindowResult

	_, err := newDriver(t, Config{Mode: core.Negative, Centers: centers, HalfWidth: 50, Workers: 1}, nil).
		Run(context.Background(), collect(&seq))
	require.NoError(t, err)
	_, err = newDriver(t, Config{Mode: core.Negative, Centers: centers, HalfWidth: 50, Workers: 3}, nil).
		Run(context.Background(), collect(&par))
	require.NoError(t, err)

	require.Len(t, par, len(seq))
	for i := range seq {
		assert.Equal(t, seq[i].Candidates, par[i].Candidates)
	}
}

func TestRunCache(t *testing.T) {
	d := newDriver(t, Config{Mode: core.Positive, Centers: []float64{150}, HalfWidth: 50, CacheSize: DefaultCacheSize}, nil)

	var first, second []*WindowResult
	_, err := d.Run(context.Background(), collect(&first))
	require.NoError(t, err)
	_, err = d.Run(context.Background(), collect(&second))
	require.NoError(t, err)

	assert.False(t, first[0].Cached)
	assert.True(t, second[0].Cached)
	assert.Equal(t, first[0].Candidates, second[0].Candidates)
}

func TestRunSinkError(t *testing.T) {
	d := newDriver(t, Config{Mode: core.Negative, Centers: []float64{150, 250}, HalfWidth: 50}, nil)
	boom := errors.New("disk full")

	calls := 0
	_, err := d.Run(context.Background(), SinkFunc(func(*WindowResult) error {
		calls++
		return boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRunCancelled(t *testing.T) {
	d := newDriver(t, Config{Mode: core.Negative, Centers: []float64{150}, HalfWidth: 50}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Run(ctx, SinkFunc(func(*WindowResult) error { return nil }))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMultiSink(t *testing.T) {
	var a, b []*WindowResult
	sink := MultiSink(collect(&a), collect(&b))
	require.NoError(t, sink.WriteWindow(&WindowResult{Index: 3}))
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

func TestNewDriverValidation(t *testing.T) {
	resolver := limits.NewResolver(limits.DefaultTable(), limits.Overrides{})

	_, err := NewDriver(Config{Centers: DefaultCenters, HalfWidth: DefaultHalfWidth}, resolver, enumerate.Default(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidMode)

	_, err = NewDriver(Config{Mode: core.Positive, HalfWidth: DefaultHalfWidth}, resolver, enumerate.Default(), nil)
	assert.Error(t, err)

	_, err = NewDriver(Config{Mode: core.Positive, Centers: DefaultCenters}, resolver, enumerate.Default(), nil)
	assert.Error(t, err)

	d, err := NewDriver(Config{Mode: core.Positive, Centers: DefaultCenters, HalfWidth: DefaultHalfWidth}, resolver, enumerate.Default(), nil)
	require.NoError(t, err)
	assert.Len(t, d.Windows(), 7)
	assert.Equal(t, core.Window{Low: 700, High: 800}, d.Windows()[6])
}

package xsampling

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConst(t *testing.T) {
	ctx := context.Background()
	assert.True(t, Always().ShouldSample(ctx))
	assert.False(t, Never().ShouldSample(ctx))
}

func TestRateSampler(t *testing.T) {
	ctx := context.Background()
	for _, bad := range []float64{-0.1, 1.1, math.NaN()} {
		_, err := NewRateSampler(bad)
		assert.ErrorIs(t, err, ErrInvalidRate)
	}

	zero, err := NewRateSampler(0)
	require.NoError(t, err)
	one, err := NewRateSampler(1)
	require.NoError(t, err)
	half, err := NewRateSampler(0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, half.Rate())

	hits := 0
	for range 10000 {
		assert.False(t, zero.ShouldSample(ctx))
		assert.True(t, one.ShouldSample(ctx))
		if half.ShouldSample(ctx) {
			hits++
		}
	}
	assert.InDelta(t, 5000, hits, 500)
}

func TestCountSampler(t *testing.T) {
	ctx := context.Background()
	_, err := NewCountSampler(0)
	assert.ErrorIs(t, err, ErrInvalidCount)

	s, err := NewCountSampler(3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.N())

	var got []bool
	for range 7 {
		got = append(got, s.ShouldSample(ctx))
	}
	assert.Equal(t, []bool{true, false, false, true, false, false, true}, got)

	s.Reset()
	assert.True(t, s.ShouldSample(ctx))

	var zero CountSampler
	assert.True(t, zero.ShouldSample(ctx))
}

func TestCountSampler_Concurrent(t *testing.T) {
	s, err := NewCountSampler(10)
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		hits int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if s.ShouldSample(context.Background()) {
					mu.Lock()
					hits++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, hits)
}

func TestComposite(t *testing.T) {
	ctx := context.Background()

	all, err := All(Always(), Always())
	require.NoError(t, err)
	assert.True(t, all.ShouldSample(ctx))

	all, err = All(Always(), Never())
	require.NoError(t, err)
	assert.False(t, all.ShouldSample(ctx))

	empty, err := All()
	require.NoError(t, err)
	assert.True(t, empty.ShouldSample(ctx))

	_, err = All(Always(), nil)
	assert.ErrorIs(t, err, ErrNilSampler)
}

func TestComposite_ShortCircuitAndReset(t *testing.T) {
	ctx := context.Background()
	count, err := NewCountSampler(2)
	require.NoError(t, err)

	s, err := All(Never(), count)
	require.NoError(t, err)
	for range 5 {
		assert.False(t, s.ShouldSample(ctx))
	}
	// Never 短路，count 未被求值
	assert.True(t, count.ShouldSample(ctx))

	s.Reset()
	assert.True(t, count.ShouldSample(ctx), "reset restarts the cycle")
}

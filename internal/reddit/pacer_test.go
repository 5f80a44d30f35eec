package reddit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_FirstCallImmediate(t *testing.T) {
	p := NewPacer(60) // one call per second
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPacer_SpacesSubsequentCalls(t *testing.T) {
	p := NewPacer(1200) // 50ms interval
	ctx := context.Background()

	require.NoError(t, p.Wait(ctx))
	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond, "second call must wait out the interval")
}

func TestPacer_DisabledWhenNonPositive(t *testing.T) {
	p := NewPacer(0)
	ctx := context.Background()
	start := time.Now()
	for range 10 {
		require.NoError(t, p.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestPacer_ContextCancellation(t *testing.T) {
	p := NewPacer(1) // one call per minute
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Wait(ctx))
	assert.Error(t, p.Wait(ctx), "second wait should fail once the context expires")
}
package dispatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsSubmittedTasks(t *testing.T) {
	p := NewPool(3, 10, time.Second, nil)
	var n atomic.Int32
	for range 10 {
		require.True(t, p.Submit(func(context.Context) { n.Add(1) }))
	}
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(10), n.Load())
}

func TestPool_DropsWhenQueueFull(t *testing.T) {
	p := NewPool(1, 1, time.Second, nil)
	release := make(chan struct{})
	started := make(chan struct{})

	require.True(t, p.Submit(func(context.Context) {
		close(started)
		<-release
	}))
	<-started
	require.True(t, p.Submit(func(context.Context) {}), "fills the single queue slot")
	assert.False(t, p.Submit(func(context.Context) {}), "queue is full")

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_RejectsAfterShutdown(t *testing.T) {
	p := NewPool(1, 1, time.Second, nil)
	require.NoError(t, p.Shutdown(context.Background()))
	assert.False(t, p.Submit(func(context.Context) {}))
	require.NoError(t, p.Shutdown(context.Background()), "second shutdown is a no-op")
}

func TestPool_TaskReceivesDeadline(t *testing.T) {
	p := NewPool(1, 1, 50*time.Millisecond, nil)
	got := make(chan error, 1)
	require.True(t, p.Submit(func(ctx context.Context) {
		<-ctx.Done()
		got <- ctx.Err()
	}))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.ErrorIs(t, <-got, context.DeadlineExceeded)
}

func TestPool_SurvivesPanickingTask(t *testing.T) {
	p := NewPool(1, 2, time.Second, nil)
	var ran atomic.Bool
	require.True(t, p.Submit(func(context.Context) { panic("boom") }))
	require.True(t, p.Submit(func(context.Context) { ran.Store(true) }))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, ran.Load())
}

func TestPool_ShutdownHonoursContext(t *testing.T) {
	p := NewPool(1, 1, 0, nil)
	release := make(chan struct{})
	require.True(t, p.Submit(func(context.Context) { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)
	close(release)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingWorker tracks how many times Run was called.
type countingWorker struct {
	runCount atomic.Int32
}

func (m *countingWorker) Run(context.Context) error {
	m.runCount.Add(1)
	return nil
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &countingWorker{}, &countingWorker{}, &countingWorker{}

	ws := New(2, w1, w2, w3)
	require.NoError(t, ws.Run(context.Background()))

	for i, w := range []*countingWorker{w1, w2, w3} {
		assert.Equal(t, int32(1), w.runCount.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	assert.NoError(t, New(4).Run(context.Background()))
	assert.NoError(t, (&Workers{}).Run(context.Background()))
}

func TestWorkers_Add(t *testing.T) {
	ws := New(1)
	w := &countingWorker{}
	ws.Add(w, w)

	assert.Equal(t, 2, ws.Len())
	require.NoError(t, ws.Run(context.Background()))
	assert.Equal(t, int32(2), w.runCount.Load())
}

func TestWorkers_Run_RespectsLimit(t *testing.T) {
	const limit = 2
	var inFlight, peak atomic.Int32

	ws := New(limit)
	for range 8 {
		ws.Add(WorkerFunc(func(context.Context) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		}))
	}

	require.NoError(t, ws.Run(context.Background()))
	assert.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestWorkers_Run_FirstErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	var cancelled atomic.Bool
	var started sync.WaitGroup
	started.Add(1)

	ws := New(0,
		WorkerFunc(func(ctx context.Context) error {
			started.Done()
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		}),
		WorkerFunc(func(context.Context) error {
			started.Wait()
			return boom
		}),
	)

	err := ws.Run(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.True(t, cancelled.Load())
}

func TestWorkers_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &countingWorker{}
	err := New(1, w).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), w.runCount.Load())
}

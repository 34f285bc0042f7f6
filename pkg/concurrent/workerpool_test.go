// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWorkerPool_Run(t *testing.T) {
	pool := NewWorkerPool(2)

	var counter int64
	jobs := []Job{
		func(context.Context) error { atomic.AddInt64(&counter, 1); return nil },
		func(context.Context) error { atomic.AddInt64(&counter, 2); return nil },
		func(context.Context) error { atomic.AddInt64(&counter, 3); return nil },
	}

	require.NoError(t, pool.Run(context.Background(), jobs...))
	assert.Equal(t, int64(6), atomic.LoadInt64(&counter))
}

func TestWorkerPool_Run_FirstErrorCancels(t *testing.T) {
	pool := NewWorkerPool(1)
	expected := errors.New("voter create failed")

	var ran int64
	jobs := []Job{
		func(context.Context) error { atomic.AddInt64(&ran, 1); return expected },
		func(context.Context) error { atomic.AddInt64(&ran, 1); return nil },
		func(context.Context) error { atomic.AddInt64(&ran, 1); return nil },
	}

	err := pool.Run(context.Background(), jobs...)
	assert.ErrorIs(t, err, expected)
	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
}

func TestWorkerPool_Run_PropagatesCancellation(t *testing.T) {
	pool := NewWorkerPool(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Run(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerPool_RunAll_CollectsEveryError(t *testing.T) {
	pool := NewWorkerPool(3)
	errA := errors.New("topic a")
	errB := errors.New("topic b")

	var ran int64
	jobs := []Job{
		func(context.Context) error { atomic.AddInt64(&ran, 1); return errA },
		func(context.Context) error { atomic.AddInt64(&ran, 1); return nil },
		func(context.Context) error { atomic.AddInt64(&ran, 1); return errB },
	}

	err := pool.RunAll(context.Background(), jobs...)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, int64(3), atomic.LoadInt64(&ran))
}

func TestWorkerPool_RunAll_NoErrors(t *testing.T) {
	pool := NewWorkerPool(0)
	assert.NoError(t, pool.RunAll(context.Background()))
	assert.NoError(t, pool.RunAll(context.Background(), func(context.Context) error { return nil }))
}

func TestWorkerPool_LimitsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)

	var inFlight, peak int64
	job := func(context.Context) error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return nil
	}

	require.NoError(t, pool.Run(context.Background(), job, job, job, job, job))
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

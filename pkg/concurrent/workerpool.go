// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package concurrent provides a bounded worker pool for fan-out work.
package concurrent

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Job is a unit of work run by the pool. It receives the pool context.
type Job func(ctx context.Context) error

// WorkerPool runs jobs with at most workerCount of them in flight.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// Run executes the jobs and returns the first error. The context handed to
// the remaining jobs is cancelled as soon as one fails, and jobs that have
// not started yet are skipped.
func (wp *WorkerPool) Run(ctx context.Context, jobs ...Job) error {
	if len(jobs) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, job := range jobs {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return job(groupCtx)
		})
	}

	return g.Wait()
}

// RunAll executes every job regardless of failures and returns all errors
// joined in job order, or nil when every job succeeded.
func (wp *WorkerPool) RunAll(ctx context.Context, jobs ...Job) error {
	if len(jobs) == 0 {
		return nil
	}

	// each job writes only its own slot
	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(wp.workerCount)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = job(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

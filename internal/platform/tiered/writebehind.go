// Copyright (c) 2026 Khatmah. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tiered

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a unit of durable-tier work. Its context is detached from the
// request that submitted it and carries its own deadline.
type Job func(ctx context.Context) error

type pendingJob struct {
	ctx context.Context
	op  string
	run Job
}

/*
WriteBehind runs durable-tier writes off the request path.

Jobs are grouped by key (one key per record, e.g. an owner id). For a single
key at most one job runs at a time and jobs run in submission order. When a
job is submitted while an older one for the same key is still waiting, the
older one is dropped: every job writes a whole record, so only the newest
matters.

Failures are logged and swallowed. The next reconcile repairs the durable tier.
*/
type WriteBehind struct {
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]pendingJob
	running map[string]bool
	wg      sync.WaitGroup
}

// NewWriteBehind creates a dispatcher whose jobs each get at most timeout to finish.
func NewWriteBehind(logger *slog.Logger, timeout time.Duration) *WriteBehind {
	return &WriteBehind{
		logger:  logger,
		timeout: timeout,
		pending: make(map[string]pendingJob),
		running: make(map[string]bool),
	}
}

// Submit schedules job under key and returns immediately.
//
// Values carried by ctx (request id, logger) are kept; its cancellation is not.
func (writer *WriteBehind) Submit(ctx context.Context, key, op string, job Job) {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if _, waiting := writer.pending[key]; waiting {
		writer.logger.Debug("durable_write_coalesced", slog.String("key", key), slog.String("op", op))
	} else {
		writer.wg.Add(1)
	}

	writer.pending[key] = pendingJob{ctx: context.WithoutCancel(ctx), op: op, run: job}

	if !writer.running[key] {
		writer.running[key] = true
		go writer.drain(key)
	}
}

// Wait blocks until every submitted job has run or been coalesced away.
func (writer *WriteBehind) Wait() {
	writer.wg.Wait()
}

// drain runs jobs for key until none are pending.
func (writer *WriteBehind) drain(key string) {
	for {
		writer.mu.Lock()
		job, ok := writer.pending[key]
		if !ok {
			delete(writer.running, key)
			writer.mu.Unlock()
			return
		}
		delete(writer.pending, key)
		writer.mu.Unlock()

		writer.execute(key, job)
		writer.wg.Done()
	}
}

func (writer *WriteBehind) execute(key string, job pendingJob) {
	ctx, cancel := context.WithTimeout(job.ctx, writer.timeout)
	defer cancel()

	defer func() {
		if recovered := recover(); recovered != nil {
			writer.logger.Error("durable_write_panic",
				slog.String("key", key),
				slog.String("op", job.op),
				slog.Any("panic", recovered),
			)
		}
	}()

	if err := job.run(ctx); err != nil {
		writer.logger.Warn("durable_write_failed",
			slog.String("key", key),
			slog.String("op", job.op),
			slog.Any("error", err),
		)
	}
}

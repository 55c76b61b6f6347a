// Package dispatch runs fire-and-forget tasks on a fixed set of workers.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a unit of background work. ctx carries the per-task timeout.
type Task func(ctx context.Context)

// Pool runs submitted tasks on N workers fed by a bounded queue.
// Submit never blocks: when the queue is full the task is dropped.
type Pool struct {
	tasks   chan Task
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts workers goroutines. Non-positive sizes fall back to 1 worker and a queue of 1.
func NewPool(workers, queueSize int, timeout time.Duration, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		tasks:   make(chan Task, queueSize),
		timeout: timeout,
		logger:  logger,
	}
	p.wg.Add(workers)
	for range workers {
		go p.work()
	}
	return p
}

// Submit enqueues task and reports whether it was accepted.
func (p *Pool) Submit(task func(ctx context.Context)) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.tasks <- task:
		return true
	default:
		p.logger.Warn("dispatch queue full, dropping task", slog.Int("capacity", cap(p.tasks)))
		return false
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish or for ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("dispatch task panicked", slog.Any("panic", r))
		}
	}()
	task(ctx)
}

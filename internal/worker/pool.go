// Package worker runs fire-and-forget side effects (webhooks, counters, profile writes)
// outside the request that triggered them.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/metrics"
)

// Job is one unit of background work.
type Job func(ctx context.Context) error

type task struct {
	name string
	run  Job
}

// Config contains worker pool configuration.
type Config struct {
	WorkerCount int
	QueueSize   int
	TaskTimeout time.Duration
}

// Pool is a bounded job queue served by a fixed number of workers. Dispatch never blocks:
// when the queue is full the job is dropped and counted.
type Pool struct {
	tasks       chan task
	workerCount int
	taskTimeout time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewPool creates a new worker pool.
func NewPool(cfg Config, log zerolog.Logger) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 15 * time.Second
	}
	return &Pool{
		tasks:       make(chan task, cfg.QueueSize),
		workerCount: cfg.WorkerCount,
		taskTimeout: cfg.TaskTimeout,
		log:         log.With().Str("component", "worker-pool").Logger(),
	}
}

// Start launches the workers. Jobs run on a context detached from ctx's cancellation so
// queued work still completes during shutdown.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	base := context.WithoutCancel(ctx)
	p.log.Info().Int("worker_count", p.workerCount).Int("queue_size", cap(p.tasks)).Msg("starting worker pool")
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.work(base, id)
		}(i + 1)
	}
}

// Dispatch enqueues job and reports whether it was accepted.
func (p *Pool) Dispatch(name string, job func(ctx context.Context) error) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		metrics.RecordJob(name, "rejected")
		p.log.Warn().Str("job", name).Msg("worker pool stopped, job rejected")
		return false
	}
	select {
	case p.tasks <- task{name: name, run: job}:
		metrics.JobQueueDepth.Set(float64(len(p.tasks)))
		return true
	default:
		metrics.RecordJob(name, "dropped")
		p.log.Warn().Str("job", name).Msg("worker queue full, job dropped")
		return false
	}
}

// Stop closes the queue and waits up to timeout for queued jobs to finish.
func (p *Pool) Stop(timeout time.Duration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	started := p.started
	p.mu.Unlock()

	if !started {
		return
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.log.Info().Msg("all workers stopped gracefully")
	case <-time.After(timeout):
		p.log.Warn().Int("pending", len(p.tasks)).Msg("worker pool shutdown timed out")
	}
}

func (p *Pool) work(ctx context.Context, id int) {
	log := p.log.With().Int("worker_id", id).Logger()
	for t := range p.tasks {
		metrics.JobQueueDepth.Set(float64(len(p.tasks)))
		p.run(ctx, log, t)
	}
}

func (p *Pool) run(ctx context.Context, log zerolog.Logger, t task) {
	jobCtx, cancel := context.WithTimeout(ctx, p.taskTimeout)
	defer cancel()

	start := time.Now()
	err := safeRun(jobCtx, t.run)
	if err != nil {
		metrics.RecordJob(t.name, "failed")
		log.Warn().Err(err).Str("job", t.name).Dur("duration", time.Since(start)).Msg("background job failed")
		return
	}
	metrics.RecordJob(t.name, "ok")
	log.Debug().Str("job", t.name).Dur("duration", time.Since(start)).Msg("background job done")
}

func safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job(ctx)
}

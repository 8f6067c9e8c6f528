package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/openphylo/sdk/recerr"
)

// DefaultConcurrency is the worker-pool size when none is configured.
const DefaultConcurrency = 4

// DefaultShutdownTimeout bounds a graceful Close.
const DefaultShutdownTimeout = 30 * time.Second

// Func is the body of a background job.
type Func func(ctx context.Context) error

// Handle tracks one submitted job.
type Handle struct {
	id     string
	name   string
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// ID returns the job's unique identifier.
func (h *Handle) ID() string { return h.id }

// Name returns the job's name.
func (h *Handle) Name() string { return h.name }

// Cancel requests cooperative cancellation. The job observes it between
// node visits and before service calls; partial tree mutations remain and
// rerunning completes the work.
func (h *Handle) Cancel() { h.cancel() }

// Done returns a channel closed when the job finishes.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the job finishes or ctx expires, returning the job's
// error.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the job's error; it is meaningful once Done is closed.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	close(h.done)
}

type job struct {
	handle *Handle
	ctx    context.Context
	fn     Func
}

// Options configures a Runner.
type Options struct {
	// Concurrency is the number of worker goroutines. Default 4.
	Concurrency int

	// ShutdownTimeout bounds a graceful Close. Default 30s.
	ShutdownTimeout time.Duration

	// Logger is the structured logger for job lifecycle events.
	Logger *slog.Logger

	// Tracer emits one span per job. Nil falls back to the global provider.
	Tracer trace.Tracer
}

// Runner is a fixed pool of background workers.
type Runner struct {
	opts  Options
	queue chan job
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewRunner starts the worker pool.
func NewRunner(opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("github.com/openphylo/sdk/jobs")
	}
	r := &Runner{
		opts:  opts,
		queue: make(chan job, opts.Concurrency*4),
	}
	for i := 0; i < opts.Concurrency; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Submit enqueues a job and returns its handle. The job's context derives
// from ctx, so cancelling either aborts the job.
func (r *Runner) Submit(ctx context.Context, name string, fn Func) (*Handle, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, recerr.New("jobs", recerr.CodeInvalidState, "runner is closed")
	}
	jobCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:     uuid.NewString(),
		name:   name,
		done:   make(chan struct{}),
		cancel: cancel,
	}
	r.queue <- job{handle: h, ctx: jobCtx, fn: fn}
	r.mu.Unlock()
	return h, nil
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for j := range r.queue {
		r.run(j)
	}
}

func (r *Runner) run(j job) {
	log := r.opts.Logger.With("job_id", j.handle.id, "job", j.handle.name)
	ctx, span := r.opts.Tracer.Start(j.ctx, "jobs."+j.handle.name,
		trace.WithAttributes(attribute.String("job.id", j.handle.id)))
	start := time.Now()
	log.Info("job starting")

	err := runGuarded(ctx, j.fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("job failed", "error", err, "elapsed", time.Since(start))
	} else {
		log.Info("job finished", "elapsed", time.Since(start))
	}
	span.End()
	j.handle.cancel()
	j.handle.finish(err)
}

func runGuarded(ctx context.Context, fn Func) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = recerr.Newf("jobs", recerr.CodeInvalidState, "job panicked: %v", rec)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Close stops accepting jobs and waits for in-flight ones to finish,
// bounded by the shutdown timeout.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.opts.ShutdownTimeout):
		return fmt.Errorf("shutdown timed out after %s", r.opts.ShutdownTimeout)
	}
}

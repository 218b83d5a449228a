package shell

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quillgo/logging"
)

var (
	// ErrDispatcherStopped is returned by Submit after Stop.
	ErrDispatcherStopped = errors.New("ui dispatcher stopped")
	// ErrQueueFull is returned by Submit when every worker is busy and the
	// queue has no room.
	ErrQueueFull = errors.New("ui dispatch queue full")
)

// Job is work run on a dispatcher worker. The context is cancelled by Stop.
type Job func(ctx context.Context) error

// Submitter accepts fire-and-forget jobs.
type Submitter interface {
	Submit(name string, job Job) error
}

type task struct {
	id   string
	name string
	run  Job
}

// Dispatcher runs page-facing work off the window's event loop on a fixed
// pool of workers. Submit never blocks.
type Dispatcher struct {
	logger *slog.Logger
	queue  chan task
	cancel context.CancelFunc
	group  *errgroup.Group

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher starts workers goroutines draining a queue of the given size.
func NewDispatcher(workers, queue int, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	workers = max(1, workers)
	queue = max(0, queue)

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan task, queue),
		cancel: cancel,
		group:  group,
	}
	for i := 0; i < workers; i++ {
		group.Go(func() error {
			d.work(ctx)
			return nil
		})
	}
	return d
}

// Submit queues job. It returns ErrQueueFull or ErrDispatcherStopped instead
// of waiting.
func (d *Dispatcher) Submit(name string, job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}
	t := task{id: uuid.NewString(), name: name, run: job}
	select {
	case d.queue <- t:
		d.logger.Debug("job queued", slog.String("job", name), slog.String("id", t.id))
		return nil
	default:
		d.logger.Warn("ui dispatch queue full, dropping job", slog.String("job", name))
		return ErrQueueFull
	}
}

// Stop cancels running jobs, discards queued ones, and waits for the workers.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.cancel()
	_ = d.group.Wait()
}

func (d *Dispatcher) work(ctx context.Context) {
	for t := range d.queue {
		if ctx.Err() != nil {
			continue
		}
		if err := t.run(ctx); err != nil {
			d.logger.Warn("ui job failed", slog.String("job", t.name), slog.String("id", t.id), slog.Any("error", err))
			continue
		}
		d.logger.Debug("ui job done", slog.String("job", t.name), slog.String("id", t.id))
	}
}

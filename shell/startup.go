package shell

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"quillgo/docio"
	"quillgo/logging"
)

// StartupToken is the one-shot launch file. Once Take has been called the
// token is spent for the life of the process.
type StartupToken struct {
	mu    sync.Mutex
	path  string
	set   bool
	taken bool
}

// NewStartupToken holds path, or nothing when path is empty.
func NewStartupToken(path string) *StartupToken {
	return &StartupToken{path: path, set: path != ""}
}

// Offer stores path if the token has never held a value and was never
// taken. It reports whether the page will pick the file up by pulling.
func (t *StartupToken) Offer(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.set || t.taken || path == "" {
		return false
	}
	t.path = path
	t.set = true
	return true
}

// Take returns the pending path and clears it. Only the first call can
// return a value.
func (t *StartupToken) Take() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.taken {
		return "", false
	}
	t.taken = true
	p := t.path
	t.path = ""
	return p, p != ""
}

// RetryPolicy bounds push delivery attempts with exponential backoff.
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetryPolicy tries for roughly ten seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:        30,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
		Multiplier:      1.5,
	}
}

// BackOff builds the retry schedule: at most Attempts tries spaced by a
// jitter-free exponential interval, stopped early when ctx ends.
func (p RetryPolicy) BackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	retries := max(p.Attempts-1, 0)
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// Deliverer pushes files into a page that may still be loading.
type Deliverer struct {
	dispatcher Submitter
	runner     ScriptRunner
	policy     RetryPolicy
	logger     *slog.Logger
	read       func(path string) (string, error)
}

// NewDeliverer creates a Deliverer that evaluates scripts via runner on
// dispatcher workers.
func NewDeliverer(dispatcher Submitter, runner ScriptRunner, policy RetryPolicy, logger *slog.Logger) *Deliverer {
	if logger == nil {
		logger = logging.Discard()
	}
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &Deliverer{
		dispatcher: dispatcher,
		runner:     runner,
		policy:     policy,
		logger:     logger,
		read:       docio.Read,
	}
}

// Deliver queues path for delivery and returns at once. Failures, including
// exhausting every attempt, are only logged.
func (d *Deliverer) Deliver(path string) {
	err := d.dispatcher.Submit("deliver-file", func(ctx context.Context) error {
		d.deliver(ctx, path)
		return nil
	})
	if err != nil {
		d.logger.Warn("could not queue file delivery", slog.String("path", path), slog.Any("error", err))
	}
}

func (d *Deliverer) deliver(ctx context.Context, path string) {
	content, err := d.read(path)
	if err != nil {
		d.logger.Warn("could not read pushed file", slog.String("path", path), slog.Any("error", err))
		return
	}
	script := OpenFileScript(path, content)

	attempts := 0
	err = backoff.Retry(func() error {
		attempts++
		return d.runner.EvalJS(ctx, script)
	}, d.policy.BackOff(ctx))
	switch {
	case err == nil:
		d.logger.Info("delivered file to page", slog.String("path", path), slog.Int("attempt", attempts))
	case ctx.Err() != nil:
		d.logger.Debug("file delivery cancelled", slog.String("path", path))
	default:
		d.logger.Warn("gave up delivering file to page",
			slog.String("path", path),
			slog.Int("attempts", attempts),
			slog.Any("error", err))
	}
}

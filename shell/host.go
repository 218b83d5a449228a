// Package shell coordinates the native window with the hosted editor page:
// OS events, the close handshake, startup file delivery and off-loop script
// dispatch.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quillgo/docio"
	"quillgo/logging"
)

// EventKind identifies an OS lifecycle event.
type EventKind int

const (
	EventMoved EventKind = iota
	EventResized
	EventFileOpened
	EventLoaded
)

func (k EventKind) String() string {
	switch k {
	case EventMoved:
		return "moved"
	case EventResized:
		return "resized"
	case EventFileOpened:
		return "file-opened"
	case EventLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is posted by the platform from whatever goroutine observed it.
type Event struct {
	Kind   EventKind
	Path   string
	X, Y   int
	Width  int
	Height int
}

// DefaultQueueSize bounds the event queue.
const DefaultQueueSize = 64

// ErrQueueClosed is returned by OpenFiles once Run has returned.
var ErrQueueClosed = errors.New("shell host stopped")

// HostOptions wires a Host.
type HostOptions struct {
	Token     *StartupToken
	Deliverer *Deliverer
	Closer    *CloseController
	QueueSize int
	Logger    *slog.Logger
}

// Host consumes OS events and routes them to the startup loader and the
// close controller.
type Host struct {
	token     *StartupToken
	deliverer *Deliverer
	closer    *CloseController
	logger    *slog.Logger
	events    chan Event
	done      chan struct{}
}

// NewHost creates a Host. Run must be called to process events.
func NewHost(opts HostOptions) *Host {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	return &Host{
		token:     opts.Token,
		deliverer: opts.Deliverer,
		closer:    opts.Closer,
		logger:    opts.Logger,
		events:    make(chan Event, opts.QueueSize),
		done:      make(chan struct{}),
	}
}

// Post enqueues ev without blocking. It reports false when the queue is
// full or the host has stopped.
func (h *Host) Post(ev Event) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.events <- ev:
		return true
	default:
		h.logger.Warn("event queue full, dropping event", slog.String("kind", ev.Kind.String()))
		return false
	}
}

// OpenFiles posts a file-open event per path. It serves file handoffs from
// other instances.
func (h *Host) OpenFiles(paths []string) error {
	for _, p := range paths {
		if !h.Post(Event{Kind: EventFileOpened, Path: p}) {
			select {
			case <-h.done:
				return ErrQueueClosed
			default:
				return fmt.Errorf("could not queue %s", p)
			}
		}
	}
	return nil
}

// HandleClose answers a native close request; true allows the window to
// close. It must be called synchronously from the window's close hook.
func (h *Host) HandleClose() bool {
	return h.closer.OnCloseRequested()
}

// Run processes events until ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-h.events:
			h.handle(ev)
		}
	}
}

func (h *Host) handle(ev Event) {
	switch ev.Kind {
	case EventMoved, EventResized:
		h.logger.Debug("window geometry changed",
			slog.String("kind", ev.Kind.String()),
			slog.Int("x", ev.X), slog.Int("y", ev.Y),
			slog.Int("width", ev.Width), slog.Int("height", ev.Height))
		if ev.Kind == EventResized {
			h.trackBounds()
		}
	case EventLoaded:
		h.logger.Info("page loaded")
		h.trackBounds()
	case EventFileOpened:
		h.openFile(ev.Path)
	default:
		h.logger.Warn("unknown event", slog.String("kind", ev.Kind.String()))
	}
}

func (h *Host) trackBounds() {
	if h.closer != nil {
		h.closer.TrackBounds()
	}
}

func (h *Host) openFile(path string) {
	if !docio.IsDocument(path) {
		h.logger.Debug("ignoring non-document open event", slog.String("path", path))
		return
	}
	if h.token != nil && h.token.Offer(path) {
		h.logger.Info("file queued for startup pull", slog.String("path", path))
		return
	}
	if h.deliverer == nil {
		h.logger.Warn("no deliverer for open event", slog.String("path", path))
		return
	}
	h.deliverer.Deliver(path)
}

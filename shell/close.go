package shell

import (
	"context"
	"log/slog"
	"sync"

	"quillgo/logging"
	"quillgo/settings"
)

// CloseState is a step of the close handshake.
type CloseState int

const (
	CloseIdle CloseState = iota
	CloseRequested
	CloseForced
	CloseTerminated
)

func (s CloseState) String() string {
	switch s {
	case CloseIdle:
		return "idle"
	case CloseRequested:
		return "close-requested"
	case CloseForced:
		return "force-close"
	case CloseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

//go:generate mockgen -package=shell -destination=mock_window_test.go quillgo/shell NativeWindow,GeometryStore

// NativeWindow is the window surface the close handshake needs.
type NativeWindow interface {
	Bounds() (settings.Geometry, error)
	RequestClose() error
}

// GeometryStore persists the final window rectangle.
type GeometryStore interface {
	SetGeometry(g settings.Geometry)
}

// CloseController runs the deny-then-confirm close handshake. The first
// native close is always denied and the page is asked to settle unsaved
// work; only ConfirmClose lets a later close through.
type CloseController struct {
	window     NativeWindow
	runner     ScriptRunner
	store      GeometryStore
	dispatcher Submitter
	logger     *slog.Logger

	mu        sync.Mutex
	state     CloseState
	confirmed bool
	last      settings.Geometry
	tracked   bool
}

// NewCloseController wires the handshake.
func NewCloseController(window NativeWindow, runner ScriptRunner, store GeometryStore, dispatcher Submitter, logger *slog.Logger) *CloseController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CloseController{
		window:     window,
		runner:     runner,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// State returns the current handshake state.
func (c *CloseController) State() CloseState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnCloseRequested is called on the window's event loop for every native
// close. It never blocks on the page and returns true only once the close
// has been confirmed.
func (c *CloseController) OnCloseRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CloseTerminated {
		return true
	}
	if c.confirmed {
		c.saveGeometry()
		c.state = CloseTerminated
		c.logger.Info("close confirmed")
		return true
	}

	c.state = CloseRequested
	err := c.dispatcher.Submit("app-close", func(ctx context.Context) error {
		return c.runner.EvalJS(ctx, HandleAppCloseScript())
	})
	if err != nil {
		c.logger.Warn("could not signal page about close", slog.Any("error", err))
	}
	// No timeout: the window stays open until the page confirms.
	c.state = CloseIdle
	return false
}

// ConfirmClose records the page's consent and re-issues the native close
// from a worker.
func (c *CloseController) ConfirmClose() {
	c.mu.Lock()
	if c.state == CloseTerminated {
		c.mu.Unlock()
		return
	}
	c.confirmed = true
	c.state = CloseForced
	c.mu.Unlock()

	err := c.dispatcher.Submit("force-close", func(context.Context) error {
		return c.window.RequestClose()
	})
	if err != nil {
		c.logger.Warn("could not request close", slog.Any("error", err))
	}
}

// TrackBounds reads the window rectangle on a worker and keeps it in memory.
// Finish falls back to it when the window goes away without a confirmed
// close.
func (c *CloseController) TrackBounds() {
	err := c.dispatcher.Submit("track-bounds", func(context.Context) error {
		g, err := c.window.Bounds()
		if err != nil || g.Width <= 0 || g.Height <= 0 {
			return nil
		}
		c.mu.Lock()
		c.last = g
		c.tracked = true
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		c.logger.Debug("could not track window bounds", slog.Any("error", err))
	}
}

// LastBounds returns the most recently tracked window rectangle.
func (c *CloseController) LastBounds() (settings.Geometry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.tracked
}

// Finish is called once the window is gone. When it closed without the
// handshake, the last tracked rectangle is persisted instead.
func (c *CloseController) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == CloseTerminated {
		return
	}
	if c.tracked {
		c.store.SetGeometry(c.last)
		c.logger.Info("window closed without handshake, kept last bounds")
	}
	c.state = CloseTerminated
}

// saveGeometry is best effort; a failure never blocks the close.
func (c *CloseController) saveGeometry() {
	g, err := c.window.Bounds()
	if err != nil {
		c.logger.Warn("could not read window bounds", slog.Any("error", err))
		return
	}
	if g.Width <= 0 || g.Height <= 0 {
		c.logger.Debug("ignoring empty window bounds")
		return
	}
	c.store.SetGeometry(g)
}

package main

import (
	"context"

	"quillgo/settings"
	"quillgo/shell"
)

// WindowOptions describes the editor window to open.
type WindowOptions struct {
	Title  string
	URL    string
	Width  int
	Height int
	X, Y   *int // nil lets the OS place the window
	Debug  bool
}

// PlatformHandlers receive native window callbacks. OnClose is called
// synchronously for every close attempt and decides whether it proceeds.
// OnEvent may be called from any goroutine.
type PlatformHandlers struct {
	OnClose func() bool
	OnEvent func(shell.Event)
}

// Platform abstracts the native window hosting the editor page.
type Platform interface {
	SetHandlers(h PlatformHandlers)
	Open(ctx context.Context, opts WindowOptions) error
	// Wait blocks until the window is gone or ctx is cancelled.
	Wait(ctx context.Context) error
	SetTitle(title string)
	EvalJS(ctx context.Context, script string) error
	Bounds() (settings.Geometry, error)
	RequestClose() error
	Shutdown()
}

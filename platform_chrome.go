package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"quillgo/config"
	"quillgo/settings"
	"quillgo/shell"
)

const evalTimeout = 5 * time.Second

// closeGuardJS turns every window close into a beforeunload dialog, which
// the platform answers on behalf of the close handshake.
const closeGuardJS = `window.addEventListener('beforeunload', function (e) {
	e.preventDefault();
	e.returnValue = '';
});`

var errWindowClosed = errors.New("window is closed")

// chromePlatform hosts the page in an app-mode Chromium window driven over
// the DevTools protocol.
type chromePlatform struct {
	cfg    config.BrowserConfig
	logger *slog.Logger

	mu       sync.Mutex
	handlers PlatformHandlers
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
}

// NewPlatform creates the Chromium platform.
func NewPlatform(cfg config.BrowserConfig, logger *slog.Logger) Platform {
	return &chromePlatform{
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}
}

func (p *chromePlatform) SetHandlers(h PlatformHandlers) {
	p.mu.Lock()
	p.handlers = h
	p.mu.Unlock()
}

func (p *chromePlatform) Open(ctx context.Context, opts WindowOptions) error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, p.allocatorOptions(opts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(p.logf))

	// The first Run launches the browser and attaches to the app window.
	if err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(closeGuardJS).Do(ctx)
		return err
	})); err != nil {
		tabCancel()
		allocCancel()
		return fmt.Errorf("launching browser: %w", err)
	}

	p.mu.Lock()
	p.ctx = tabCtx
	p.cancel = func() {
		tabCancel()
		allocCancel()
	}
	p.mu.Unlock()

	tid := chromedp.FromContext(tabCtx).Target.TargetID
	chromedp.ListenTarget(tabCtx, p.onTargetEvent)
	chromedp.ListenBrowser(tabCtx, func(ev any) {
		if e, ok := ev.(*target.EventTargetDestroyed); ok && e.TargetID == tid {
			p.markDone()
		}
	})
	go func() {
		<-tabCtx.Done()
		p.markDone()
	}()

	// The page may have loaded before the guard was registered.
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(closeGuardJS, nil)); err != nil {
		p.logger.Warn("could not install close guard", slog.Any("error", err))
	}
	if opts.Title != "" {
		p.SetTitle(opts.Title)
	}
	return nil
}

func (p *chromePlatform) allocatorOptions(opts WindowOptions) []chromedp.ExecAllocatorOption {
	o := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("app", opts.URL),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.WindowSize(opts.Width, opts.Height),
		chromedp.UserDataDir(p.cfg.UserDataDir),
	}
	if opts.X != nil && opts.Y != nil {
		o = append(o, chromedp.Flag("window-position", fmt.Sprintf("%d,%d", *opts.X, *opts.Y)))
	}
	if opts.Debug {
		o = append(o, chromedp.Flag("auto-open-devtools-for-tabs", true))
	}
	if p.cfg.Path != "" {
		o = append(o, chromedp.ExecPath(p.cfg.Path))
	}
	for _, raw := range p.cfg.Flags {
		name, value, hasValue := strings.Cut(strings.TrimLeft(raw, "-"), "=")
		if name == "" {
			continue
		}
		if hasValue {
			o = append(o, chromedp.Flag(name, value))
		} else {
			o = append(o, chromedp.Flag(name, true))
		}
	}
	return o
}

func (p *chromePlatform) onTargetEvent(ev any) {
	switch e := ev.(type) {
	case *page.EventJavascriptDialogOpening:
		if e.Type != page.DialogTypeBeforeunload {
			return
		}
		// Listeners must not block; the answer is sent from a goroutine.
		go p.answerClose()
	case *page.EventLoadEventFired:
		p.emit(shell.Event{Kind: shell.EventLoaded})
	case *page.EventFrameResized:
		p.emit(shell.Event{Kind: shell.EventResized})
	}
}

func (p *chromePlatform) answerClose() {
	p.mu.Lock()
	onClose := p.handlers.OnClose
	ctx := p.ctx
	p.mu.Unlock()

	allow := true
	if onClose != nil {
		allow = onClose()
	}
	if err := chromedp.Run(ctx, page.HandleJavaScriptDialog(allow)); err != nil {
		p.logger.Debug("could not answer close dialog", slog.Any("error", err))
	}
}

func (p *chromePlatform) emit(ev shell.Event) {
	p.mu.Lock()
	onEvent := p.handlers.OnEvent
	p.mu.Unlock()
	if onEvent != nil {
		onEvent(ev)
	}
}

func (p *chromePlatform) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *chromePlatform) SetTitle(title string) {
	t, _ := json.Marshal(title)
	if err := p.EvalJS(context.Background(), "document.title = "+string(t)); err != nil {
		p.logger.Debug("could not set title", slog.Any("error", err))
	}
}

func (p *chromePlatform) EvalJS(ctx context.Context, script string) error {
	tabCtx, err := p.tab()
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(tabCtx, evalTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, chromedp.Evaluate(script, nil))
}

func (p *chromePlatform) Bounds() (settings.Geometry, error) {
	tabCtx, err := p.tab()
	if err != nil {
		return settings.Geometry{}, err
	}
	var b *browser.Bounds
	err = chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		_, b, err = browser.GetWindowForTarget().Do(ctx)
		return err
	}))
	if err != nil {
		return settings.Geometry{}, fmt.Errorf("reading window bounds: %w", err)
	}
	return settings.Geometry{
		X:      int(b.Left),
		Y:      int(b.Top),
		Width:  int(b.Width),
		Height: int(b.Height),
	}, nil
}

func (p *chromePlatform) RequestClose() error {
	tabCtx, err := p.tab()
	if err != nil {
		return err
	}
	// page.Close runs beforeunload, which comes back through answerClose.
	return chromedp.Run(tabCtx, page.Close())
}

func (p *chromePlatform) Shutdown() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	p.markDone()
}

func (p *chromePlatform) tab() (context.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx == nil {
		return nil, errWindowClosed
	}
	select {
	case <-p.done:
		return nil, errWindowClosed
	default:
	}
	return p.ctx, nil
}

func (p *chromePlatform) markDone() {
	p.doneOnce.Do(func() { close(p.done) })
}

func (p *chromePlatform) logf(format string, args ...any) {
	p.logger.Debug(fmt.Sprintf(format, args...), slog.String("source", "cdp"))
}

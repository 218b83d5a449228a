package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"quillgo/bridge"
	"quillgo/config"
	"quillgo/logging"
	"quillgo/session"
	"quillgo/settings"
	"quillgo/shell"
)

const shutdownTimeout = 3 * time.Second

// App is the running editor shell.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	settings   *settings.Store
	session    *session.Session
	platform   Platform
	dispatcher *shell.Dispatcher
	closer     *shell.CloseController
	host       *shell.Host
	api        *bridge.API
	ui         *uiServer
	handoff    *bridge.HandoffServer
}

// appDeps are the pieces that differ between a real launch and tests.
type appDeps struct {
	cfg       *config.Config
	configDir string
	logger    *slog.Logger
	platform  Platform
	dialogs   bridge.Dialogs
}

func runApp(la launchArgs) int {
	configDir := settings.ConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "[quill] cannot create config directory %s: %v\n", configDir, err)
	}

	cfg, cfgErr := config.Load(configDir)
	logger, closeLog := newLogger(cfg, configDir)
	defer closeLog()
	if cfgErr != nil {
		logger.Error("shell config unusable, using defaults", slog.Any("error", cfgErr))
	}

	sock := bridge.SocketPath(configDir)
	if handled, err := forwardToPrimary(sock, la.File); handled {
		if err != nil {
			logger.Error("could not hand file to running instance", slog.Any("error", err))
			return 1
		}
		logger.Info("handed off to running instance", slog.String("file", la.File))
		return 0
	}

	dialogs := newNativeDialogs(nil)
	app, err := newApp(appDeps{
		cfg:       cfg,
		configDir: configDir,
		logger:    logger,
		platform:  NewPlatform(cfg.Browser, logging.Component(logger, "platform")),
		dialogs:   dialogs,
	}, la.File)
	if err != nil {
		logger.Error("startup failed", slog.Any("error", err))
		return 1
	}
	dialogs.startDir = app.dialogStartDir

	ctx, stop := signalContext()
	defer stop()
	if err := app.run(ctx); err != nil {
		logger.Error("shell exited with error", slog.Any("error", err))
		return 1
	}
	return 0
}

// forwardToPrimary hands file to an already running instance. handled is
// false when no instance answered.
func forwardToPrimary(sock, file string) (handled bool, err error) {
	client := bridge.NewHandoffClient(sock)
	if !client.Ping() {
		return false, nil
	}
	if file == "" {
		return true, nil
	}
	return true, client.OpenFiles([]string{file})
}

func newLogger(cfg *config.Config, configDir string) (*slog.Logger, func()) {
	var out io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.Log.File {
		f, err := logging.OpenFile(configDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[quill] %v\n", err)
		} else {
			out = io.MultiWriter(os.Stderr, f)
			closeFn = func() { _ = f.Close() }
		}
	}
	logger := logging.New(logging.Options{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.Format(cfg.Log.Format),
		Output: out,
	})
	return logger, closeFn
}

// newApp wires every component around deps. launchFile seeds the startup
// token.
func newApp(deps appDeps, launchFile string) (*App, error) {
	cfg := deps.cfg
	logger := deps.logger
	if logger == nil {
		logger = logging.Discard()
	}

	app := &App{
		cfg:      cfg,
		logger:   logger,
		settings: settings.Open(filepath.Join(deps.configDir, "settings.json"), logging.Component(logger, "settings")),
		session:  session.New(),
		platform: deps.platform,
	}

	app.dispatcher = shell.NewDispatcher(cfg.Dispatch.Workers, cfg.Dispatch.Queue, logging.Component(logger, "dispatch"))
	app.closer = shell.NewCloseController(deps.platform, deps.platform, app.settings, app.dispatcher, logging.Component(logger, "close"))

	token := shell.NewStartupToken(launchFile)
	deliverer := shell.NewDeliverer(app.dispatcher, deps.platform, shell.RetryPolicy{
		Attempts:        cfg.Delivery.Attempts,
		InitialInterval: cfg.Delivery.InitialInterval,
		MaxInterval:     cfg.Delivery.MaxInterval,
		Multiplier:      cfg.Delivery.Multiplier,
	}, logging.Component(logger, "startup"))

	app.host = shell.NewHost(shell.HostOptions{
		Token:     token,
		Deliverer: deliverer,
		Closer:    app.closer,
		Logger:    logging.Component(logger, "host"),
	})

	app.api = bridge.NewAPI(bridge.Options{
		AppName:  cfg.AppName,
		Settings: app.settings,
		Session:  app.session,
		Window:   deps.platform,
		Dialogs:  deps.dialogs,
		Startup:  token,
		Closer:   app.closer,
		Logger:   logging.Component(logger, "api"),
	})

	ui, err := newUIServer(app.api, logging.Component(logger, "bridge"))
	if err != nil {
		app.dispatcher.Stop()
		return nil, err
	}
	app.ui = ui

	hs, err := bridge.NewHandoffServer(bridge.SocketPath(deps.configDir), app.host, logging.Component(logger, "handoff"))
	if err != nil {
		logger.Warn("single-instance handoff unavailable", slog.Any("error", err))
	} else {
		app.handoff = hs
	}

	deps.platform.SetHandlers(PlatformHandlers{
		OnClose: app.host.HandleClose,
		OnEvent: func(ev shell.Event) { app.host.Post(ev) },
	})
	return app, nil
}

// run opens the window and blocks until it is gone or ctx is cancelled.
func (a *App) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.ui.Serve)
	if a.handoff != nil {
		g.Go(func() error {
			if err := a.handoff.Serve(); err != nil && gctx.Err() == nil {
				return fmt.Errorf("handoff server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error { return a.host.Run(gctx) })

	g.Go(func() error {
		// The window going away ends the process.
		defer cancel()
		if err := a.platform.Open(gctx, a.windowOptions()); err != nil {
			return fmt.Errorf("opening window: %w", err)
		}
		a.logger.Info("window open", slog.String("url", a.ui.URL()))
		err := a.platform.Wait(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		a.shutdown()
		return nil
	})

	return g.Wait()
}

func (a *App) windowOptions() WindowOptions {
	w, h := a.settings.WindowSize()
	x, y := a.settings.WindowPosition()
	return WindowOptions{
		Title:  a.session.Title(a.cfg.AppName),
		URL:    a.ui.URL(),
		Width:  w,
		Height: h,
		X:      x,
		Y:      y,
		Debug:  a.cfg.Debug,
	}
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.ui.Shutdown(ctx); err != nil {
		a.logger.Warn("ui server shutdown", slog.Any("error", err))
	}
	if a.handoff != nil {
		a.handoff.Close()
	}
	a.dispatcher.Stop()
	a.closer.Finish()
	a.platform.Shutdown()
	a.logger.Info("shell stopped", slog.String("close_state", a.closer.State().String()))
}

// dialogStartDir is the folder of the open document, if any. It runs inside
// a bridge call.
func (a *App) dialogStartDir() string {
	if p := a.session.Path(); p != "" {
		return filepath.Dir(p)
	}
	return ""
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	la := parseArgs(os.Args[1:])
	if la.Version {
		fmt.Println("quill", version)
		return
	}

	// The app runs on its own goroutine; the main thread serves dispatchToMain.
	stop := make(chan struct{})
	code := 0
	go func() {
		defer close(stop)
		code = runApp(la)
	}()
	serveMain(stop)
	os.Exit(code)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

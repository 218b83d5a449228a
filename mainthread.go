package main

import "runtime"

func init() {
	// Native dialogs must stay on the thread that initialised the toolkit:
	// Cocoa on macOS, GTK on Linux. main keeps that thread in serveMain.
	runtime.LockOSThread()
}

// mainQueue carries work that must run on the process main thread.
var mainQueue = make(chan func())

// dispatchToMain runs fn on the main thread and waits for it. It must not
// be called from the main goroutine itself.
func dispatchToMain(fn func()) {
	done := make(chan struct{})
	mainQueue <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// serveMain executes dispatched work until stop is closed. main calls it so
// the work lands on the locked OS thread. The calling goroutine stays wired
// to its thread while serving.
func serveMain(stop <-chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		select {
		case fn := <-mainQueue:
			fn()
		case <-stop:
			return
		}
	}
}

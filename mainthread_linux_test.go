package main

import (
	"runtime"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchedWorkStaysOnOneThread(t *testing.T) {
	stop := make(chan struct{})
	served := make(chan struct{})
	go func() {
		defer close(served)
		serveMain(stop)
	}()

	var tids []int
	for i := 0; i < 20; i++ {
		dispatchToMain(func() { tids = append(tids, syscall.Gettid()) })
		runtime.Gosched()
	}
	close(stop)
	<-served

	for _, tid := range tids {
		assert.Equal(t, tids[0], tid)
	}
}

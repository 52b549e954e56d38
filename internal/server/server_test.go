package server

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunEveryFiresUntilStopped(t *testing.T) {
	stop := make(chan struct{})
	var calls atomic.Int32
	done := make(chan struct{})

	go func() {
		runEvery(stop, 2*time.Millisecond, func() { calls.Add(1) })
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after stop channel closed")
	}
}

func TestRunEveryStopsWithoutTick(t *testing.T) {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		runEvery(stop, time.Hour, func() { t.Error("unexpected tick") })
		close(done)
	}()

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after stop channel closed")
	}
}

package gracedown

import (
	"errors"
	"net"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

// fakeSignalSource captures the subscribed channel so tests can deliver
// signals without raising them process-wide.
type fakeSignalSource struct {
	ch chan<- os.Signal
}

func (f *fakeSignalSource) Notify(c chan<- os.Signal, _ ...os.Signal) {
	f.ch = c
}

func (f *fakeSignalSource) send(s os.Signal) {
	f.ch <- s
}

func TestInstallHandlersTwice(t *testing.T) {
	c := NewCoordinator(WithSignalSource(&fakeSignalSource{}), WithExitFunc(func(int) {}))
	if err := c.InstallHandlers(); err != nil {
		t.Fatal(err)
	}
	if err := c.InstallHandlers(); !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled, got %v", err)
	}
}

func TestSignalTriggersShutdown(t *testing.T) {
	src := &fakeSignalSource{}
	rec := &exitRecorder{}
	c := NewCoordinator(
		WithSignalSource(src),
		WithDeadline(time.Second),
		WithExitFunc(rec.exit),
	)

	var ran int64
	c.AtShutdown(func() { atomic.AddInt64(&ran, 1) })

	if err := c.InstallHandlers(); err != nil {
		t.Fatal(err)
	}
	src.send(syscall.SIGTERM)

	waitDone(t, c, time.Second)
	if got := atomic.LoadInt64(&ran); got != 1 {
		t.Fatalf("expected callback to run once, ran %d times", got)
	}
	if code, _ := rec.recorded(); code != 0 {
		t.Fatalf("expected clean exit code 0, got %d", code)
	}
}

// Two rapid signals must not run callbacks twice; with escalation on they
// force an immediate exit instead.
func TestDoubleSignalRunsCallbacksOnce(t *testing.T) {
	src := &fakeSignalSource{}
	rec := &exitRecorder{}
	c := NewCoordinator(
		WithSignalSource(src),
		WithDeadline(2*time.Second),
		WithExitFunc(rec.exit),
	)

	var ran int64
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	c.AtShutdown(func() {
		atomic.AddInt64(&ran, 1)
		started <- struct{}{}
		<-release
	})

	if err := c.InstallHandlers(); err != nil {
		t.Fatal(err)
	}
	src.send(os.Interrupt)
	src.send(os.Interrupt)

	waitDone(t, c, time.Second)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("callback never started")
	}
	close(release)
	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt64(&ran); got != 1 {
		t.Fatalf("expected callback to run exactly once, ran %d times", got)
	}
	if code, _ := rec.recorded(); code != 1 {
		t.Fatalf("expected forced exit code 1 on escalation, got %d", code)
	}
}

// End-to-end against the real signal plumbing: raise an actual interrupt at
// the test process and verify the dispatch goroutine drives the shutdown.
func TestRealInterruptSignal(t *testing.T) {
	rec := &exitRecorder{}
	c := NewCoordinator(WithDeadline(2*time.Second), WithExitFunc(rec.exit))

	var ran int64
	c.AtShutdown(func() { atomic.AddInt64(&ran, 1) })

	if err := c.InstallHandlers(); err != nil {
		t.Fatal(err)
	}

	p, _ := os.FindProcess(os.Getpid())
	if err := p.Signal(os.Interrupt); err != nil {
		t.Fatal(err)
	}

	waitDone(t, c, 2*time.Second)
	if got := atomic.LoadInt64(&ran); got != 1 {
		t.Fatalf("expected callback to run once, ran %d times", got)
	}
}

// The documented usage: register a listener's stop routine, send terminate,
// expect the socket closed and the coordinator settled within the deadline.
func TestListenerClosedOnTerminate(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	src := &fakeSignalSource{}
	rec := &exitRecorder{}
	c := NewCoordinator(
		WithSignalSource(src),
		WithDeadline(2*time.Second),
		WithExitFunc(rec.exit),
	)
	c.AtShutdown(func() { _ = ln.Close() })

	if err := c.InstallHandlers(); err != nil {
		t.Fatal(err)
	}

	acceptErr := make(chan error, 1)
	go func() {
		_, err := ln.Accept()
		acceptErr <- err
	}()

	src.send(syscall.SIGTERM)
	waitDone(t, c, time.Second)

	select {
	case err := <-acceptErr:
		if err == nil {
			t.Fatal("expected Accept to fail after the listener was stopped")
		}
	case <-time.After(time.Second):
		t.Fatal("listener still accepting after shutdown")
	}
	if code, _ := rec.recorded(); code != 0 {
		t.Fatalf("expected clean exit code 0, got %d", code)
	}
}

//go:build linux
// +build linux

package reactor

import (
	"testing"

	"golang.org/x/sys/unix"
)

func mustPipe(t *testing.T) (int, int) {
	t.Helper()
	fds := make([]int, 2)
	if err := unix.Pipe(fds); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	return fds[0], fds[1]
}

func TestEpollReadable(t *testing.T) {
	r, err := NewReactor()
	if err != nil {
		t.Fatalf("NewReactor: %v", err)
	}
	defer r.Close()

	rd, wr := mustPipe(t)
	defer unix.Close(rd)
	defer unix.Close(wr)

	if err := r.Register(rd, Readable); err != nil {
		t.Fatalf("Register: %v", err)
	}

	events := make([]Event, 8)

	// Nothing written yet: a zero-timeout wait reports no events.
	n, err := r.Wait(events, 0)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 events before write, got %d", n)
	}

	if _, err := unix.Write(wr, []byte("tick")); err != nil {
		t.Fatalf("write: %v", err)
	}

	n, err = r.Wait(events, 1000)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}
	if events[0].FD != rd || !events[0].Readable {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func TestEpollModifyAndUnregister(t *testing.T) {
	r, err := NewReactor()
	if err != nil {
		t.Fatalf("NewReactor: %v", err)
	}
	defer r.Close()

	rd, wr := mustPipe(t)
	defer unix.Close(rd)
	defer unix.Close(wr)

	if err := r.Register(rd, Readable); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := unix.Write(wr, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Dropping read interest must suppress the pending readable event.
	if err := r.Modify(rd, 0); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	events := make([]Event, 8)
	n, err := r.Wait(events, 0)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no events after interest removal, got %d", n)
	}

	if err := r.Modify(rd, Readable); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	n, err = r.Wait(events, 1000)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected readable event back, got %d", n)
	}

	if err := r.Unregister(rd); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	n, err = r.Wait(events, 0)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no events after unregister, got %d", n)
	}
}

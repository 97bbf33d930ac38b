//go:build !linux
// +build !linux

// File: internal/sockets/sysops_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stubs for unsupported platforms. New fails before any of these run
// because the reactor itself is Linux-only.

package sockets

import (
	"errors"

	"github.com/momentics/pairflow/api"
)

var errWouldBlock = errors.New("operation would block")

func sysListen(port uint16) (int, string, error) {
	return -1, "", api.ErrNotSupported
}

func sysAccept(lfd int) (int, string, string, error) {
	return -1, "", "", api.ErrNotSupported
}

func sysRead(fd int, p []byte) (int, error) {
	return 0, api.ErrNotSupported
}

func sysWrite(fd int, p []byte) (int, error) {
	return 0, api.ErrNotSupported
}

func sysClose(fd int) {}

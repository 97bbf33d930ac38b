//go:build linux
// +build linux

// File: internal/sockets/sysops_linux.go
// Author: momentics <momentics@gmail.com>
//
// Raw nonblocking socket operations for Linux.

package sockets

import (
	"errors"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// errWouldBlock reports that a nonblocking operation has drained the kernel
// buffer and should be retried on the next readiness event.
var errWouldBlock = errors.New("operation would block")

func sysListen(port uint16) (int, string, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, "", err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, "", err
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: int(port)}); err != nil {
		unix.Close(fd)
		return -1, "", err
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return -1, "", err
	}
	bound, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return -1, "", err
	}
	_, boundPort := sockaddrHostPort(bound)
	return fd, boundPort, nil
}

func sysAccept(lfd int) (int, string, string, error) {
	fd, sa, err := unix.Accept4(lfd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR || err == unix.ECONNABORTED {
			return -1, "", "", errWouldBlock
		}
		return -1, "", "", err
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	host, port := sockaddrHostPort(sa)
	return fd, host, port, nil
}

func sysRead(fd int, p []byte) (int, error) {
	n, err := unix.Read(fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return 0, errWouldBlock
		}
		return 0, err
	}
	return n, nil
}

func sysWrite(fd int, p []byte) (int, error) {
	n, err := unix.Write(fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR {
			return 0, errWouldBlock
		}
		return 0, err
	}
	return n, nil
}

func sysClose(fd int) {
	_ = unix.Close(fd)
}

func sockaddrHostPort(sa unix.Sockaddr) (string, string) {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return net.IP(a.Addr[:]).String(), strconv.Itoa(a.Port)
	case *unix.SockaddrInet6:
		return net.IP(a.Addr[:]).String(), strconv.Itoa(a.Port)
	}
	return "unknown", "unknown"
}

// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared by the socket service and the server facade.

package api

import "errors"

// Common errors used across the daemon.
var (
	ErrListen            = errors.New("listener could not be opened")
	ErrServe             = errors.New("error while serving the listening descriptors")
	ErrClosed            = errors.New("socket service is closed")
	ErrUnknownDescriptor = errors.New("unknown descriptor")
	ErrNotSupported      = errors.New("operation not supported on this platform")
)

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the poll-mode event reactor abstraction used by
// the socket service, with a level-triggered epoll implementation on Linux.
package reactor

// Package pool
// Author: momentics <momentics@gmail.com>
//
// Fixed-size byte buffer pooling for the socket service read path.
package pool

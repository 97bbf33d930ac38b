// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import "sync"

// BytePool recycles fixed-size byte slices.
type BytePool struct {
	size int
	pool sync.Pool
}

// NewBytePool creates a pool handing out slices of the given size.
func NewBytePool(size int) *BytePool {
	p := &BytePool{size: size}
	p.pool.New = func() any {
		return make([]byte, size)
	}
	return p
}

// Get returns a buffer from the pool.
func (p *BytePool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns a buffer to the pool. Undersized buffers are dropped.
func (p *BytePool) Put(buf []byte) {
	if cap(buf) < p.size {
		return
	}
	p.pool.Put(buf[:p.size])
}

// Size reports the slice size this pool hands out.
func (p *BytePool) Size() int {
	return p.size
}

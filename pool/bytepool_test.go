package pool

import "testing"

func TestBytePoolGetPut(t *testing.T) {
	p := NewBytePool(4096)

	buf := p.Get()
	if len(buf) != 4096 {
		t.Fatalf("expected 4096-byte buffer, got %d", len(buf))
	}

	buf[0] = 0xAA
	p.Put(buf)

	again := p.Get()
	if len(again) != 4096 {
		t.Fatalf("expected recycled buffer of 4096 bytes, got %d", len(again))
	}
}

func TestBytePoolDropsUndersized(t *testing.T) {
	p := NewBytePool(1024)
	p.Put(make([]byte, 16))

	buf := p.Get()
	if len(buf) != 1024 {
		t.Fatalf("undersized buffer leaked back out: len %d", len(buf))
	}
}

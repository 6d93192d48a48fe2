package protodyn

import (
	"bytes"
	"sync"
)

var (
	_pool sync.Pool
)

func init() {
	_pool = sync.Pool{
		New: func() any {
			return bytes.NewBuffer(make([]byte, 0, 64))
		},
	}
}

// alloc hands out a scratch buffer for encoding a nested message.
func alloc(size int) *bytes.Buffer {
	buffer := _pool.Get().(*bytes.Buffer)
	if size != 0 && buffer.Cap() < size {
		buffer.Grow(size)
	}
	return buffer
}

func dealloc(buffer *bytes.Buffer) {
	buffer.Reset()
	_pool.Put(buffer)
}

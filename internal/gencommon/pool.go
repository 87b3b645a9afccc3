package gencommon

import (
	"bytes"
	"sync"
)

// bufferPool holds buffers sized for one INSERT batch.
var bufferPool = sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(64 << 10)
		return b
	},
}

// GetBuffer retrieves an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// PutBuffer resets b and returns it to the pool. Buffers that grew past 4MB
// are dropped so one huge batch does not pin memory.
func PutBuffer(b *bytes.Buffer) {
	if b.Cap() > 4<<20 {
		return
	}
	b.Reset()
	bufferPool.Put(b)
}

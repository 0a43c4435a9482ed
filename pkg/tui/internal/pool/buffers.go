// ABOUTME: sync.Pool of bytes.Buffer used to assemble one render pass' output
// ABOUTME: Buffers keep their capacity across passes; oversized ones are dropped

package pool

import (
	"bytes"
	"sync"
)

// maxRetained caps the capacity of buffers returned to the pool so one
// unusually tall frame doesn't pin its memory forever.
const maxRetained = 64 << 10

var buffers = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// GetBuffer returns an empty bytes.Buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := buffers.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer hands buf back to the pool. The caller must not use it afterwards.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxRetained {
		return
	}
	buf.Reset()
	buffers.Put(buf)
}

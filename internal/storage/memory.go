package storage

import (
	"errors"
	"io"
)

// MemoryResource - In-memory Resource, handy for arrays that need no persistence and for tests.
// Writing past the end grows the buffer and fills any gap with zero bytes, like a sparse file.
type MemoryResource struct {
	buf []byte
	pos int64
}

// NewMemoryResource - Returns an empty MemoryResource
func NewMemoryResource() *MemoryResource {
	return &MemoryResource{}
}

// Write - Writes at the current position
func (M *MemoryResource) Write(p []byte) (n int, err error) {
	end := int(M.pos) + len(p)
	if end > cap(M.buf) {
		newCap := cap(M.buf) * 2
		if newCap < end {
			newCap = end
		}
		newBuf := make([]byte, len(M.buf), newCap)
		copy(newBuf, M.buf)
		M.buf = newBuf
	}
	if end > len(M.buf) {
		M.buf = M.buf[:end]
	}
	n = copy(M.buf[M.pos:], p)
	M.pos += int64(n)

	return
}

// Read - Reads from the current position, io.EOF at or beyond the end
func (M *MemoryResource) Read(p []byte) (n int, err error) {
	if M.pos >= int64(len(M.buf)) {
		err = io.EOF
		return
	}
	n = copy(p, M.buf[M.pos:])
	M.pos += int64(n)

	return
}

// Seek - Moves the current position, seeking beyond the end is allowed
func (M *MemoryResource) Seek(offset int64, whence int) (pos int64, err error) {
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = M.pos + offset
	case io.SeekEnd:
		pos = int64(len(M.buf)) + offset
	default:
		err = errors.New("invalid whence")
		return
	}
	if pos < 0 {
		pos = 0
		err = errors.New("negative position")
		return
	}
	M.pos = pos

	return
}

// Bytes - Returns the underlying bytes, shared with the resource
func (M *MemoryResource) Bytes() []byte {
	return M.buf
}

// Len - Returns the number of bytes held
func (M *MemoryResource) Len() int {
	return len(M.buf)
}

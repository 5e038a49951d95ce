package storage

import (
	"errors"
	"io"

	"github.com/gostonefire/virtualarray/internal/bitmap"
	"github.com/gostonefire/virtualarray/internal/metadata"
	"github.com/gostonefire/virtualarray/vaerr"
)

// Resource - Any byte addressable, seekable resource a virtual array can live in.
// If the resource also implements Sync() error it is called on Flush, and if it implements io.Closer it is
// closed on Close when the adapter owns it.
type Resource interface {
	io.Reader
	io.Writer
	io.Seeker
}

type syncer interface {
	Sync() error
}

// Adapter - Wraps a Resource with page aware seeking. Pages are contiguous, fixed stride slots following
// the metadata header, so the offset of a page is pure arithmetic and the file never shrinks.
type Adapter struct {
	resource         Resource
	metadataByteSize int64
	pageStride       int64
	owned            bool
	release          func() error
}

// NewAdapter - Returns an adapter for resource. If owned is true the adapter closes the resource on Close.
// release is called on Close before the resource is closed, it may be nil.
func NewAdapter(resource Resource, owned bool, release func() error) *Adapter {
	return &Adapter{
		resource: resource,
		owned:    owned,
		release:  release,
	}
}

// PageStride - Returns the number of bytes between the starts of two consecutive pages
func PageStride(md metadata.Metadata, itemSize int) int64 {
	return md.PageByteSize + int64(bitmap.ByteSize(md.ElementsPerPage(itemSize)))
}

// PageOffset - Returns the absolute offset of page pageIndex
func PageOffset(pageIndex int64, md metadata.Metadata, itemSize int) int64 {
	return md.ByteSize() + pageIndex*PageStride(md, itemSize)
}

// FileSize - Returns the size of a fully allocated file
func FileSize(md metadata.Metadata, itemSize int) int64 {
	return PageOffset(md.NumberOfPages(itemSize), md, itemSize)
}

// SetLayout - Sets the page layout used by SeekToPage and PageOffset, must be called once the metadata is known
func (A *Adapter) SetLayout(md metadata.Metadata, itemSize int) {
	A.metadataByteSize = md.ByteSize()
	A.pageStride = PageStride(md, itemSize)
}

// PageOffset - Returns the absolute offset of page pageIndex given the layout set by SetLayout
func (A *Adapter) PageOffset(pageIndex int64) int64 {
	return A.metadataByteSize + pageIndex*A.pageStride
}

// SeekToStart - Positions the resource at offset 0 (zero) where the metadata header lives
func (A *Adapter) SeekToStart() (err error) {
	_, err = A.resource.Seek(0, io.SeekStart)
	if err != nil {
		err = vaerr.IOError{Op: "seeking to start", Err: err}
	}

	return
}

// SeekToPage - Positions the resource at the first byte of page pageIndex
func (A *Adapter) SeekToPage(pageIndex int64) (err error) {
	_, err = A.resource.Seek(A.PageOffset(pageIndex), io.SeekStart)
	if err != nil {
		err = vaerr.IOError{Op: "seeking to page", Err: err}
	}

	return
}

// Size - Returns the current length of the resource, the position is left at the end
func (A *Adapter) Size() (size int64, err error) {
	size, err = A.resource.Seek(0, io.SeekEnd)
	if err != nil {
		err = vaerr.IOError{Op: "seeking to end", Err: err}
	}

	return
}

// Read - Reads from the current position
func (A *Adapter) Read(p []byte) (n int, err error) {
	return A.resource.Read(p)
}

// Write - Writes at the current position
func (A *Adapter) Write(p []byte) (n int, err error) {
	return A.resource.Write(p)
}

// Flush - Commits written data to stable storage if the resource supports it
func (A *Adapter) Flush() (err error) {
	if s, ok := A.resource.(syncer); ok {
		err = s.Sync()
		if err != nil {
			err = vaerr.IOError{Op: "syncing", Err: err}
		}
	}

	return
}

// Close - Releases the resource lock and closes the resource if owned. Calling Close more than once is a no-op.
func (A *Adapter) Close() (err error) {
	if A.resource == nil {
		return
	}

	if A.release != nil {
		err = A.release()
		A.release = nil
	}

	if c, ok := A.resource.(io.Closer); ok && A.owned {
		if cErr := c.Close(); cErr != nil {
			err = errors.Join(err, vaerr.IOError{Op: "closing", Err: cErr})
		}
	}
	A.resource = nil

	return
}

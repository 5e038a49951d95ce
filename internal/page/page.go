package page

import (
	"sync/atomic"

	"github.com/gostonefire/virtualarray/internal/bitmap"
	"github.com/gostonefire/virtualarray/vaerr"
)

// clock - Logical access clock shared by all pages, strictly increasing so no two accesses compare equal
var clock atomic.Uint64

func now() uint64 {
	return clock.Add(1)
}

// Page - The resident unit of the page cache: one data chunk with its presence bitmap
type Page[T any] struct {
	index      int64
	bitmap     *bitmap.Bitmap
	data       *DataChunk[T]
	dirty      bool
	lastAccess uint64
}

// New - Returns a page given its bitmap and data chunk, the bitmap must be exactly as long as needed for
// the number of slots in the data chunk, otherwise a vaerr.PageShape error is returned.
func New[T any](index int64, bm *bitmap.Bitmap, data *DataChunk[T]) (page *Page[T], err error) {
	if bitmap.ByteSize(data.Len()) != bm.Len() {
		err = vaerr.PageShape{BitmapSize: bm.Len(), NumberOfItems: data.Len()}
		return
	}

	page = &Page[T]{
		index:      index,
		bitmap:     bm,
		data:       data,
		lastAccess: now(),
	}

	return
}

// Zeroed - Returns a clean page with elementsPerPage zero valued and absent slots
func Zeroed[T any](index int64, elementsPerPage int) *Page[T] {
	return &Page[T]{
		index:      index,
		bitmap:     bitmap.New(elementsPerPage),
		data:       ZeroedDataChunk[T](elementsPerPage),
		lastAccess: now(),
	}
}

// Index - Returns the page index within the array
func (P *Page[T]) Index() int64 {
	return P.index
}

// Len - Returns the number of slots in the page
func (P *Page[T]) Len() int {
	return P.data.Len()
}

// Count - Returns the number of slots holding a value
func (P *Page[T]) Count() int {
	return P.bitmap.Count()
}

// Set - Stores value in slot and flags it as present
func (P *Page[T]) Set(slot int, value T) {
	P.data.Set(slot, value)
	P.bitmap.Set(slot)
	P.dirty = true
	P.lastAccess = now()
}

// Get - Returns the value in slot and true, or the zero value and false if the slot holds no value.
// Bytes of an absent slot may be left over from a deleted value and are never returned.
func (P *Page[T]) Get(slot int) (value T, ok bool) {
	if !P.bitmap.Get(slot) {
		return
	}

	return P.data.Get(slot), true
}

// Delete - Flags slot as absent, the stored bytes are left as they are
func (P *Page[T]) Delete(slot int) {
	P.bitmap.Unset(slot)
	P.dirty = true
	P.lastAccess = now()
}

// Touch - Marks the page as just used
func (P *Page[T]) Touch() {
	P.lastAccess = now()
}

// LastAccess - Returns the logical time of the latest use, a lower value means used longer ago
func (P *Page[T]) LastAccess() uint64 {
	return P.lastAccess
}

// IsDirty - Returns true if the page was modified after it was last loaded or written
func (P *Page[T]) IsDirty() bool {
	return P.dirty
}

// SetDirty - Sets the dirty flag
func (P *Page[T]) SetDirty(dirty bool) {
	P.dirty = dirty
}

// Bitmap - Returns the presence bitmap
func (P *Page[T]) Bitmap() *bitmap.Bitmap {
	return P.bitmap
}

// DataChunk - Returns the slot storage
func (P *Page[T]) DataChunk() *DataChunk[T] {
	return P.data
}

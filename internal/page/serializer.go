package page

import (
	"errors"
	"io"

	"github.com/gostonefire/virtualarray/internal/bitmap"
	"github.com/gostonefire/virtualarray/itemcodec"
	"github.com/gostonefire/virtualarray/vaerr"
)

// ByteSize - Returns the number of bytes a page with elementsPerPage slots occupies on disk
func ByteSize(elementsPerPage, itemSize int) int {
	return elementsPerPage*itemSize + bitmap.ByteSize(elementsPerPage)
}

// Serialize - Writes the page to w as raw item bytes followed by the bitmap bytes
func Serialize[T any](w io.Writer, page *Page[T], codec itemcodec.Codec[T]) (err error) {
	itemSize := codec.Size()
	items := page.data.Items()
	dataLength := len(items) * itemSize

	buf := make([]byte, dataLength+page.bitmap.Len())
	for i, item := range items {
		codec.Encode(buf[i*itemSize:(i+1)*itemSize:(i+1)*itemSize], item)
	}
	page.bitmap.PutBytes(buf[dataLength:])

	err = writeAll(w, buf)

	return
}

// SerializeZeroed - Writes an all zero page with elementsPerPage slots to w without building a Page
func SerializeZeroed(w io.Writer, elementsPerPage, itemSize int) (err error) {
	err = writeAll(w, make([]byte, ByteSize(elementsPerPage, itemSize)))

	return
}

// Deserialize - Reads a page with elementsPerPage slots from r.
// If r is exhausted before the first byte, the returned vaerr.IOError wraps io.EOF, any other short read
// wraps io.ErrUnexpectedEOF. The bitmap is always read at the size elementsPerPage needs, so a page from
// storage never fails the shape check in New.
func Deserialize[T any](r io.Reader, index int64, elementsPerPage int, codec itemcodec.Codec[T]) (page *Page[T], err error) {
	itemSize := codec.Size()

	buf := make([]byte, elementsPerPage*itemSize)
	_, err = io.ReadFull(r, buf)
	if err != nil {
		err = vaerr.IOError{Op: "reading page data", Err: err}
		return
	}

	items := make([]T, elementsPerPage)
	for i := range items {
		items[i] = codec.Decode(buf[i*itemSize : (i+1)*itemSize : (i+1)*itemSize])
	}

	bitmapBuf := make([]byte, bitmap.ByteSize(elementsPerPage))
	_, err = io.ReadFull(r, bitmapBuf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		err = vaerr.IOError{Op: "reading page bitmap", Err: err}
		return
	}

	page, err = New(index, bitmap.FromBytes(elementsPerPage, bitmapBuf), NewDataChunk(items))

	return
}

// writeAll - Writes buf to w and reports a short write as an error
func writeAll(w io.Writer, buf []byte) (err error) {
	n, err := w.Write(buf)
	if err == nil && n != len(buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		err = vaerr.IOError{Op: "writing page", Err: err}
	}

	return
}

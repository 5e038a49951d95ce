package metadata

import (
	"fmt"
	"io"
	"math"

	"github.com/gostonefire/virtualarray/internal/conf"
	"github.com/gostonefire/virtualarray/internal/utils"
	"github.com/gostonefire/virtualarray/vaerr"
)

// Metadata - Represents the virtual array file header.
//   - Signature is the format tag the file starts with
//   - PageByteSize is the number of bytes reserved for item data in each page, excluding the bitmap
//   - ArraySize is the logical number of elements in the array
type Metadata struct {
	Signature    []byte
	PageByteSize int64
	ArraySize    int64
}

// New - Returns validated Metadata.
// It fails with vaerr.ZeroDataChunkSize if pageByteSize is zero and with vaerr.SmallDataChunkSize if not a single
// item of itemSize bytes fits in a page.
func New(signature []byte, pageByteSize, arraySize int64, itemSize int) (md Metadata, err error) {
	md = Metadata{
		Signature:    utils.CloneBytes(signature),
		PageByteSize: pageByteSize,
		ArraySize:    arraySize,
	}

	err = md.validate(itemSize)
	if err != nil {
		md = Metadata{}
	}

	return
}

// CalcPageByteSize - Returns desiredPageSize rounded up to the next multiple of itemSize, so that a page
// always holds a whole number of items.
func CalcPageByteSize(desiredPageSize int64, itemSize int) int64 {
	return utils.RoundUp(desiredPageSize, int64(itemSize))
}

// ElementsPerPage - Returns the number of items of itemSize bytes in each page, remaining bytes are padding
func (M Metadata) ElementsPerPage(itemSize int) int {
	return int(M.PageByteSize / int64(itemSize))
}

// NumberOfPages - Returns the number of page slots allocated in a file, page indices run from 0 through
// ArraySize / ElementsPerPage inclusive.
func (M Metadata) NumberOfPages(itemSize int) int64 {
	return M.ArraySize/int64(M.ElementsPerPage(itemSize)) + 1
}

// ByteSize - Returns the number of bytes the header occupies in the file
func (M Metadata) ByteSize() int64 {
	return int64(len(M.Signature)) + 2*conf.SizeFieldLength
}

// Write - Writes the header at the current position of w
func Write(w io.Writer, md Metadata) (err error) {
	buf := metadataToBytes(md)

	n, err := w.Write(buf)
	if err == nil && n != len(buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		err = vaerr.IOError{Op: "writing metadata", Err: err}
	}

	return
}

// Read - Reads and validates a header at the current position of r.
// It fails with vaerr.InvalidSignature if the file doesn't start with expectedSignature, with vaerr.IOError if the
// header can't be read in full and with the same errors as New if the stored sizes are not usable with itemSize.
func Read(r io.Reader, expectedSignature []byte, itemSize int) (md Metadata, err error) {
	sig := make([]byte, len(expectedSignature))
	_, err = io.ReadFull(r, sig)
	if err != nil {
		err = vaerr.IOError{Op: "reading signature", Err: err}
		return
	}

	if !utils.IsEqual(sig, expectedSignature) {
		err = vaerr.InvalidSignature{Expected: utils.CloneBytes(expectedSignature), Found: sig}
		return
	}

	buf := make([]byte, 2*conf.SizeFieldLength)
	_, err = io.ReadFull(r, buf)
	if err != nil {
		err = vaerr.IOError{Op: "reading metadata sizes", Err: err}
		return
	}

	pageByteSize, arraySize := bytesToSizes(buf)

	md, err = New(sig, pageByteSize, arraySize, itemSize)

	return
}

// validate - Checks the metadata invariants given the item size
func (M Metadata) validate(itemSize int) (err error) {
	if itemSize <= 0 {
		err = vaerr.NewInvalidConfig("item size must be a positive value higher than 0 (zero), got %d", itemSize)
		return
	}

	if M.PageByteSize == 0 {
		err = vaerr.ZeroDataChunkSize{}
		return
	}

	if M.PageByteSize/int64(itemSize) < 1 {
		err = vaerr.SmallDataChunkSize{PageByteSize: M.PageByteSize, ItemByteSize: itemSize}
		return
	}

	if M.ArraySize < 0 {
		err = vaerr.NewInvalidConfig("array size can not be negative, got %d", M.ArraySize)
		return
	}

	// a page is read into a single buffer, so its stride must fit an int
	epp := M.PageByteSize / int64(itemSize)
	bitmapBytes := utils.CeilDiv(epp, 8)
	if M.PageByteSize > int64(math.MaxInt)-bitmapBytes {
		err = vaerr.LayoutOverflow{PageByteSize: M.PageByteSize, ArraySize: M.ArraySize, ItemByteSize: itemSize}
		return
	}

	// the end of the last page must be an addressable offset
	stride := M.PageByteSize + bitmapBytes
	if M.ArraySize/epp+1 > (math.MaxInt64-M.ByteSize())/stride {
		err = vaerr.LayoutOverflow{PageByteSize: M.PageByteSize, ArraySize: M.ArraySize, ItemByteSize: itemSize}
		return
	}

	return
}

// String - Returns a short description, used in logs
func (M Metadata) String() string {
	return fmt.Sprintf("signature=%q pageByteSize=%d arraySize=%d", M.Signature, M.PageByteSize, M.ArraySize)
}

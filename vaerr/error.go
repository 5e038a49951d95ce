package vaerr

import (
	"fmt"
)

// NoValueFound - Custom error to inform that the slot holds no value, either never written or deleted
type NoValueFound struct {
	msg string
}

// Error - Used to notify that no value was found
func (E NoValueFound) Error() string {
	if E.msg == "" {
		return "no value found"
	}
	return E.msg
}

// IndexOutOfRange - Custom error to inform that an element index is outside the logical array
type IndexOutOfRange struct {
	Index int64
	Size  int64
}

// Error - Used to notify that an index is outside [0, Size)
func (E IndexOutOfRange) Error() string {
	return fmt.Sprintf("element index %d out of range [0, %d)", E.Index, E.Size)
}

// ZeroDataChunkSize - Construct error for a page byte size of zero
type ZeroDataChunkSize struct {
	msg string
}

// Error - Used to notify that page size is zero
func (E ZeroDataChunkSize) Error() string {
	if E.msg == "" {
		return "page must be non-zero size"
	}
	return E.msg
}

// SmallDataChunkSize - Construct error for a page byte size that can't hold a single item
type SmallDataChunkSize struct {
	PageByteSize int64
	ItemByteSize int
}

// Error - Used to notify that page size is too small
func (E SmallDataChunkSize) Error() string {
	return fmt.Sprintf("page size is too small for at least one item (page size %d, item size %d)", E.PageByteSize, E.ItemByteSize)
}

// InvalidSignature - Custom error to inform that the file header doesn't carry the expected format tag
type InvalidSignature struct {
	Expected []byte
	Found    []byte
}

// Error - Used to notify signature mismatch
func (E InvalidSignature) Error() string {
	return fmt.Sprintf("invalid signature value (expected: %v, found: %v)", E.Expected, E.Found)
}

// PageShape - Custom error to inform that a bitmap doesn't match the number of items in a page
type PageShape struct {
	BitmapSize    int
	NumberOfItems int
}

// Error - Used to notify a bitmap/data chunk mismatch
func (E PageShape) Error() string {
	return fmt.Sprintf("bitmap (%d bytes or %d flags) doesn't match %d items", E.BitmapSize, 8*E.BitmapSize, E.NumberOfItems)
}

// IOError - Wraps any failing read, write, seek or sync on the storage resource
type IOError struct {
	Op  string
	Err error
}

// Error - Used to notify an I/O failure
func (E IOError) Error() string {
	return fmt.Sprintf("io error while %s: %s", E.Op, E.Err)
}

// Unwrap - Returns the underlying error
func (E IOError) Unwrap() error {
	return E.Err
}

// InvalidConfig - Custom error to inform that the array configuration is not usable
type InvalidConfig struct {
	msg string
}

// NewInvalidConfig - Returns an InvalidConfig error with a formatted message
func NewInvalidConfig(format string, a ...any) InvalidConfig {
	return InvalidConfig{msg: fmt.Sprintf(format, a...)}
}

// Error - Used to notify an invalid configuration
func (E InvalidConfig) Error() string {
	if E.msg == "" {
		return "invalid configuration"
	}
	return E.msg
}

// Locked - Custom error to inform that the backing file is already owned by another handle
type Locked struct {
	Name string
}

// Error - Used to notify that the file is locked
func (E Locked) Error() string {
	return fmt.Sprintf("file %s is locked by another virtual array", E.Name)
}

// Closed - Custom error to inform that the virtual array has been closed
type Closed struct {
	msg string
}

// Error - Used to notify that the array is closed
func (E Closed) Error() string {
	if E.msg == "" {
		return "virtual array is closed"
	}
	return E.msg
}

// LayoutOverflow - Construct error for page and array sizes whose file layout can't be addressed
type LayoutOverflow struct {
	PageByteSize int64
	ArraySize    int64
	ItemByteSize int
}

// Error - Used to notify that the layout overflows
func (E LayoutOverflow) Error() string {
	return fmt.Sprintf("page size %d and array size %d with item size %d overflow the addressable file size", E.PageByteSize, E.ArraySize, E.ItemByteSize)
}

// SizeMismatch - Custom error to inform that the resource is shorter than its header says it should be
type SizeMismatch struct {
	Expected int64
	Found    int64
}

// Error - Used to notify a truncated or corrupt file
func (E SizeMismatch) Error() string {
	return fmt.Sprintf("resource holds %d bytes but its header requires %d", E.Found, E.Expected)
}

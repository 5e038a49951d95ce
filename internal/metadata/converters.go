package metadata

import (
	"encoding/binary"

	"github.com/gostonefire/virtualarray/internal/conf"
)

// metadataToBytes - Converts a Metadata struct to a slice of bytes: signature, page byte size, array size.
// Sizes are unsigned 64-bit integers in native byte order.
func metadataToBytes(md Metadata) (buf []byte) {
	sigLength := int64(len(md.Signature))
	buf = make([]byte, md.ByteSize())

	copy(buf, md.Signature)
	binary.NativeEndian.PutUint64(buf[sigLength+conf.PageByteSizeOffset:], uint64(md.PageByteSize))
	binary.NativeEndian.PutUint64(buf[sigLength+conf.ArraySizeOffset:], uint64(md.ArraySize))

	return
}

// bytesToSizes - Converts the size fields following the signature to page byte size and array size
func bytesToSizes(buf []byte) (pageByteSize, arraySize int64) {
	pageByteSize = int64(binary.NativeEndian.Uint64(buf[conf.PageByteSizeOffset:]))
	arraySize = int64(binary.NativeEndian.Uint64(buf[conf.ArraySizeOffset:]))

	return
}

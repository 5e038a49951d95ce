package conf

import "os"

// DefaultSignature - Format tag written at offset 0 of every virtual array file unless another is configured
var DefaultSignature = []byte{'V', 'M'}

// SizeFieldLength - Length of each size field (page byte size, array size) in the metadata header - 8 bytes
const SizeFieldLength int64 = 8

// PageByteSizeOffset - Metadata offset to the page byte size, relative to the end of the signature
const PageByteSizeOffset int64 = 0

// ArraySizeOffset - Metadata offset to the logical array size, relative to the end of the signature
const ArraySizeOffset int64 = PageByteSizeOffset + SizeFieldLength

// FileMode - Permission bits used when creating a virtual array file
const FileMode os.FileMode = 0644

package itemcodec

// Codec - Interface that permits the virtual array to store any item type with a fixed, stable byte layout.
// Items are stored back-to-back in a page with no framing, so every encoded item must occupy exactly Size bytes.
// A codec is part of the file format: opening a file with a codec of another size or layout than the one it was
// created with will either fail on open (page size no longer fits an item) or surface garbage values.
type Codec[T any] interface {
	// Size - Returns the number of bytes one encoded item occupies.
	// It must be higher than 0 (zero) and must never change during the lifetime of a file.
	Size() int

	// Encode - Writes the item v into dst.
	// dst is always exactly Size bytes long and may contain stale bytes from an earlier item, so all of it must
	// be written.
	Encode(dst []byte, v T)

	// Decode - Returns the item held in src.
	// src is always exactly Size bytes long. A never written slot decodes from all zero bytes and the codec
	// must accept that without panicking, though the result is never surfaced to callers.
	Decode(src []byte) T
}

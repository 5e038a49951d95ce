package itemcodec

import (
	"encoding/binary"
	"fmt"
)

// Fixed - Codec for any fixed size type understood by encoding/binary, typically a struct of exported numeric
// fields or arrays. Fields are laid out in declaration order without padding, in native byte order.
// Hand written codecs are faster, Fixed trades speed for not having to write one.
type Fixed[T any] struct {
	size int
}

// NewFixed - Returns a Fixed codec for T or an error if T doesn't have a fixed encoded size
func NewFixed[T any]() (codec Fixed[T], err error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		err = fmt.Errorf("type %T has no fixed encoded size", zero)
		return
	}

	codec = Fixed[T]{size: size}

	return
}

// Size - Returns the encoded size of T
func (F Fixed[T]) Size() int {
	return F.size
}

// Encode - Writes v into dst using encoding/binary
func (F Fixed[T]) Encode(dst []byte, v T) {
	if _, err := binary.Encode(dst, binary.NativeEndian, v); err != nil {
		panic(fmt.Sprintf("itemcodec: encode %T: %s", v, err))
	}
}

// Decode - Reads a T from src using encoding/binary
func (F Fixed[T]) Decode(src []byte) (v T) {
	if _, err := binary.Decode(src, binary.NativeEndian, &v); err != nil {
		panic(fmt.Sprintf("itemcodec: decode %T: %s", v, err))
	}

	return
}

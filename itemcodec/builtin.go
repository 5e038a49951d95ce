package itemcodec

import (
	"encoding/binary"
	"math"
)

// Uint8 - Codec for uint8 (byte) items
type Uint8 struct{}

func (Uint8) Size() int                   { return 1 }
func (Uint8) Encode(dst []byte, v uint8)  { dst[0] = v }
func (Uint8) Decode(src []byte) (v uint8) { return src[0] }

// Int8 - Codec for int8 items
type Int8 struct{}

func (Int8) Size() int                  { return 1 }
func (Int8) Encode(dst []byte, v int8)  { dst[0] = uint8(v) }
func (Int8) Decode(src []byte) (v int8) { return int8(src[0]) }

// Bool - Codec for bool items, stored as one byte where any non-zero value is true
type Bool struct{}

func (Bool) Size() int { return 1 }

func (Bool) Encode(dst []byte, v bool) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}

func (Bool) Decode(src []byte) (v bool) { return src[0] != 0 }

// Uint16 - Codec for uint16 items in native byte order
type Uint16 struct{}

func (Uint16) Size() int                    { return 2 }
func (Uint16) Encode(dst []byte, v uint16)  { binary.NativeEndian.PutUint16(dst, v) }
func (Uint16) Decode(src []byte) (v uint16) { return binary.NativeEndian.Uint16(src) }

// Int16 - Codec for int16 items in native byte order
type Int16 struct{}

func (Int16) Size() int                   { return 2 }
func (Int16) Encode(dst []byte, v int16)  { binary.NativeEndian.PutUint16(dst, uint16(v)) }
func (Int16) Decode(src []byte) (v int16) { return int16(binary.NativeEndian.Uint16(src)) }

// Uint32 - Codec for uint32 items in native byte order
type Uint32 struct{}

func (Uint32) Size() int                    { return 4 }
func (Uint32) Encode(dst []byte, v uint32)  { binary.NativeEndian.PutUint32(dst, v) }
func (Uint32) Decode(src []byte) (v uint32) { return binary.NativeEndian.Uint32(src) }

// Int32 - Codec for int32 items in native byte order
type Int32 struct{}

func (Int32) Size() int                   { return 4 }
func (Int32) Encode(dst []byte, v int32)  { binary.NativeEndian.PutUint32(dst, uint32(v)) }
func (Int32) Decode(src []byte) (v int32) { return int32(binary.NativeEndian.Uint32(src)) }

// Uint64 - Codec for uint64 items in native byte order
type Uint64 struct{}

func (Uint64) Size() int                    { return 8 }
func (Uint64) Encode(dst []byte, v uint64)  { binary.NativeEndian.PutUint64(dst, v) }
func (Uint64) Decode(src []byte) (v uint64) { return binary.NativeEndian.Uint64(src) }

// Int64 - Codec for int64 items in native byte order
type Int64 struct{}

func (Int64) Size() int                   { return 8 }
func (Int64) Encode(dst []byte, v int64)  { binary.NativeEndian.PutUint64(dst, uint64(v)) }
func (Int64) Decode(src []byte) (v int64) { return int64(binary.NativeEndian.Uint64(src)) }

// Float32 - Codec for float32 items, IEEE 754 bits in native byte order
type Float32 struct{}

func (Float32) Size() int { return 4 }

func (Float32) Encode(dst []byte, v float32) {
	binary.NativeEndian.PutUint32(dst, math.Float32bits(v))
}

func (Float32) Decode(src []byte) (v float32) {
	return math.Float32frombits(binary.NativeEndian.Uint32(src))
}

// Float64 - Codec for float64 items, IEEE 754 bits in native byte order
type Float64 struct{}

func (Float64) Size() int { return 8 }

func (Float64) Encode(dst []byte, v float64) {
	binary.NativeEndian.PutUint64(dst, math.Float64bits(v))
}

func (Float64) Decode(src []byte) (v float64) {
	return math.Float64frombits(binary.NativeEndian.Uint64(src))
}

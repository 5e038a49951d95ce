package bitmap

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/gostonefire/virtualarray/internal/utils"
)

// Bitmap - Presence flags for the slots of one page. Bit i tells whether slot i holds a live value.
// On disk bit i is bit i%8 of byte i/8 and the bitmap occupies exactly ByteSize(elementsCount) bytes.
type Bitmap struct {
	elementsCount int
	byteLength    int
	bits          *bitset.BitSet
}

// ByteSize - Returns the number of bytes needed to store flags for elementsCount slots
func ByteSize(elementsCount int) int {
	return int(utils.CeilDiv(int64(elementsCount), 8))
}

// New - Returns a zero filled bitmap for elementsCount slots
func New(elementsCount int) *Bitmap {
	return &Bitmap{
		elementsCount: elementsCount,
		byteLength:    ByteSize(elementsCount),
		bits:          bitset.New(uint(elementsCount)),
	}
}

// FromBytes - Returns a bitmap for elementsCount slots read verbatim from buf.
// buf is not required to have the length given by ByteSize, which allows callers to detect a mismatch
// through Len. Any bits beyond elementsCount are kept as is so the bitmap writes back what it read.
func FromBytes(elementsCount int, buf []byte) *Bitmap {
	words := make([]uint64, (len(buf)+7)/8)
	var word [8]byte
	for i := range words {
		clear(word[:])
		copy(word[:], buf[i*8:])
		words[i] = binary.LittleEndian.Uint64(word[:])
	}

	return &Bitmap{
		elementsCount: elementsCount,
		byteLength:    len(buf),
		bits:          bitset.From(words),
	}
}

// Len - Returns the number of bytes the bitmap occupies when written
func (B *Bitmap) Len() int {
	return B.byteLength
}

// ElementsCount - Returns the number of slots the bitmap covers
func (B *Bitmap) ElementsCount() int {
	return B.elementsCount
}

// Set - Flags slot index as present
func (B *Bitmap) Set(index int) {
	B.check(index)
	B.bits.Set(uint(index))
}

// Unset - Flags slot index as absent
func (B *Bitmap) Unset(index int) {
	B.check(index)
	B.bits.Clear(uint(index))
}

// Get - Returns true if slot index is flagged as present
func (B *Bitmap) Get(index int) bool {
	B.check(index)
	return B.bits.Test(uint(index))
}

// Count - Returns the number of slots flagged as present, bits beyond the last slot are not counted
func (B *Bitmap) Count() int {
	if B.elementsCount == 0 {
		return 0
	}

	return int(B.bits.Rank(uint(B.elementsCount - 1)))
}

// Bytes - Returns the on disk representation of the bitmap
func (B *Bitmap) Bytes() (buf []byte) {
	buf = make([]byte, B.Len())
	B.PutBytes(buf)

	return
}

// PutBytes - Writes the on disk representation of the bitmap into buf, which must be at least Len bytes
func (B *Bitmap) PutBytes(buf []byte) {
	var word [8]byte
	n := B.Len()
	for i, w := range B.bits.Words() {
		if i*8 >= n {
			break
		}
		binary.LittleEndian.PutUint64(word[:], w)
		copy(buf[i*8:n], word[:])
	}
}

// check - Panics if index is outside the bitmap, which is a programming error in the caller
func (B *Bitmap) check(index int) {
	if index < 0 || index >= B.elementsCount {
		panic(fmt.Sprintf("bitmap: index %d out of range [0, %d)", index, B.elementsCount))
	}
}

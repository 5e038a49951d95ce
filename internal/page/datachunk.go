package page

// DataChunk - Fixed length, ordered slot storage for one page
type DataChunk[T any] struct {
	source []T
}

// NewDataChunk - Returns a data chunk backed by items, the length is fixed from here on
func NewDataChunk[T any](items []T) *DataChunk[T] {
	return &DataChunk[T]{source: items}
}

// ZeroedDataChunk - Returns a data chunk of elementsCount zero valued slots
func ZeroedDataChunk[T any](elementsCount int) *DataChunk[T] {
	return &DataChunk[T]{source: make([]T, elementsCount)}
}

// Len - Returns the number of slots
func (D *DataChunk[T]) Len() int {
	return len(D.source)
}

// Set - Stores value in slot index. An index outside the chunk is a programming error and panics.
func (D *DataChunk[T]) Set(index int, value T) {
	D.source[index] = value
}

// Get - Returns the value in slot index regardless of it being flagged present or not
func (D *DataChunk[T]) Get(index int) T {
	return D.source[index]
}

// Items - Returns the slots in order, the slice is shared with the chunk
func (D *DataChunk[T]) Items() []T {
	return D.source
}

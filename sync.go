package virtualarray

import (
	"sync"
)

// SyncArray - Wraps a VirtualArray behind a single mutex so it can be shared between goroutines.
// Every call holds the lock for its whole duration, including any page reads and write backs.
type SyncArray[T any] struct {
	mu sync.Mutex
	va *VirtualArray[T]
}

// NewSyncArray - Returns a SyncArray guarding va, va must not be used directly afterwards
func NewSyncArray[T any](va *VirtualArray[T]) *SyncArray[T] {
	return &SyncArray[T]{va: va}
}

// Set - See VirtualArray.Set
func (S *SyncArray[T]) Set(index int64, value T) error {
	S.mu.Lock()
	defer S.mu.Unlock()
	return S.va.Set(index, value)
}

// Get - See VirtualArray.Get
func (S *SyncArray[T]) Get(index int64) (T, error) {
	S.mu.Lock()
	defer S.mu.Unlock()
	return S.va.Get(index)
}

// Delete - See VirtualArray.Delete
func (S *SyncArray[T]) Delete(index int64) error {
	S.mu.Lock()
	defer S.mu.Unlock()
	return S.va.Delete(index)
}

// Pop - See VirtualArray.Pop
func (S *SyncArray[T]) Pop(index int64) (T, error) {
	S.mu.Lock()
	defer S.mu.Unlock()
	return S.va.Pop(index)
}

// Stat - See VirtualArray.Stat
func (S *SyncArray[T]) Stat(includeDistribution bool) (*Stat, error) {
	S.mu.Lock()
	defer S.mu.Unlock()
	return S.va.Stat(includeDistribution)
}

// Flush - See VirtualArray.Flush
func (S *SyncArray[T]) Flush() error {
	S.mu.Lock()
	defer S.mu.Unlock()
	return S.va.Flush()
}

// Close - See VirtualArray.Close
func (S *SyncArray[T]) Close() error {
	S.mu.Lock()
	defer S.mu.Unlock()
	return S.va.Close()
}

// Do - Runs fn with the lock held, for read-modify-write sequences and iteration.
// fn must not keep va after it returns.
func (S *SyncArray[T]) Do(fn func(va *VirtualArray[T]) error) error {
	S.mu.Lock()
	defer S.mu.Unlock()
	return fn(S.va)
}

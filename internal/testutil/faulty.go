package testutil

import (
	"errors"
	"io"
	"sync"
)

// ErrInjected - Returned by FaultyResource whenever a fault fires
var ErrInjected = errors.New("injected fault error")

// Resource - Same shape as the storage resource, repeated here to keep testutil free of internal imports
type Resource interface {
	io.Reader
	io.Writer
	io.Seeker
}

// Fault - Defines when a FaultyResource fails.
//   - FailAfterBytes fails any write that would take the total written bytes past the limit, -1 disables
//   - FailReads fails every read
//   - FailOnSeek fails every seek
//   - FailOnSync fails Sync
type Fault struct {
	FailAfterBytes int64
	FailReads      bool
	FailOnSeek     bool
	FailOnSync     bool
}

// FaultyResource - Wraps a Resource and injects errors according to a Fault that can be changed at any time
type FaultyResource struct {
	Resource
	mu      sync.Mutex
	fault   Fault
	written int64
	syncs   int
}

// NewFaultyResource - Returns a FaultyResource around r with no faults enabled
func NewFaultyResource(r Resource) *FaultyResource {
	return &FaultyResource{
		Resource: r,
		fault:    Fault{FailAfterBytes: -1},
	}
}

// SetFault - Replaces the active fault
func (F *FaultyResource) SetFault(fault Fault) {
	F.mu.Lock()
	defer F.mu.Unlock()
	F.fault = fault
	F.written = 0
}

// Written - Returns bytes written since the last SetFault
func (F *FaultyResource) Written() int64 {
	F.mu.Lock()
	defer F.mu.Unlock()
	return F.written
}

// Syncs - Returns the number of successful Sync calls
func (F *FaultyResource) Syncs() int {
	F.mu.Lock()
	defer F.mu.Unlock()
	return F.syncs
}

func (F *FaultyResource) Write(p []byte) (n int, err error) {
	F.mu.Lock()
	defer F.mu.Unlock()

	if F.fault.FailAfterBytes >= 0 && F.written+int64(len(p)) > F.fault.FailAfterBytes {
		return 0, ErrInjected
	}

	n, err = F.Resource.Write(p)
	F.written += int64(n)

	return
}

func (F *FaultyResource) Read(p []byte) (n int, err error) {
	F.mu.Lock()
	fail := F.fault.FailReads
	F.mu.Unlock()

	if fail {
		return 0, ErrInjected
	}

	return F.Resource.Read(p)
}

func (F *FaultyResource) Seek(offset int64, whence int) (int64, error) {
	F.mu.Lock()
	fail := F.fault.FailOnSeek
	F.mu.Unlock()

	if fail {
		return 0, ErrInjected
	}

	return F.Resource.Seek(offset, whence)
}

// Sync - Fails if FailOnSync is set, otherwise syncs the wrapped resource if it can
func (F *FaultyResource) Sync() error {
	F.mu.Lock()
	defer F.mu.Unlock()

	if F.fault.FailOnSync {
		return ErrInjected
	}
	F.syncs++

	if s, ok := F.Resource.(interface{ Sync() error }); ok {
		return s.Sync()
	}

	return nil
}

package pagecache

import (
	"errors"
	"fmt"
	"io"

	"github.com/gostonefire/virtualarray/internal/metadata"
	"github.com/gostonefire/virtualarray/internal/page"
	"github.com/gostonefire/virtualarray/internal/storage"
	"github.com/gostonefire/virtualarray/itemcodec"
	"github.com/gostonefire/virtualarray/vaerr"
)

// EventLogger - Receives page cache events, a nil EventLogger is allowed
type EventLogger interface {
	LogLoad(pageIndex int64, fromDisk bool)
	LogEvict(pageIndex int64, dirty bool, err error)
}

// Cache - Bounded set of resident pages in front of a storage adapter.
// At most bufferSize pages are resident, when full the least recently used page is evicted and, if dirty,
// written back before it is dropped.
type Cache[T any] struct {
	adapter         *storage.Adapter
	codec           itemcodec.Codec[T]
	elementsPerPage int
	bufferSize      int
	pages           map[int64]*page.Page[T]
	logger          EventLogger
}

// Stat - Snapshot of the resident set
//   - Resident is the number of pages currently in memory
//   - Dirty is the number of resident pages with changes not yet written back
type Stat struct {
	Resident int
	Dirty    int
}

// New - Returns an empty cache over adapter, the adapter layout must already be set.
// bufferSize must be at least 1 (one).
func New[T any](adapter *storage.Adapter, md metadata.Metadata, codec itemcodec.Codec[T], bufferSize int, logger EventLogger) (cache *Cache[T], err error) {
	if bufferSize < 1 {
		err = vaerr.NewInvalidConfig("buffer size must be a positive value higher than 0 (zero), got %d", bufferSize)
		return
	}

	cache = &Cache[T]{
		adapter:         adapter,
		codec:           codec,
		elementsPerPage: md.ElementsPerPage(codec.Size()),
		bufferSize:      bufferSize,
		pages:           make(map[int64]*page.Page[T], bufferSize),
		logger:          logger,
	}

	return
}

// GetPage - Returns the resident page pageIndex, loading it from storage if needed.
// A page that ends before its first byte in storage has never been written and is returned zeroed.
func (C *Cache[T]) GetPage(pageIndex int64) (p *page.Page[T], err error) {
	var ok bool
	if p, ok = C.pages[pageIndex]; ok {
		p.Touch()
		return
	}

	fromDisk := true
	p, err = C.load(pageIndex)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return
		}
		p = page.Zeroed[T](pageIndex, C.elementsPerPage)
		fromDisk = false
		err = nil
	}

	if C.logger != nil {
		C.logger.LogLoad(pageIndex, fromDisk)
	}

	err = C.insert(p)
	if err != nil {
		p = nil
	}

	return
}

// Peek - Returns page pageIndex without changing the resident set. A resident page is returned as is and not
// touched, any other page is read from storage and must be treated as read only.
func (C *Cache[T]) Peek(pageIndex int64) (p *page.Page[T], err error) {
	var ok bool
	if p, ok = C.pages[pageIndex]; ok {
		return
	}

	p, err = C.load(pageIndex)
	if errors.Is(err, io.EOF) {
		p = page.Zeroed[T](pageIndex, C.elementsPerPage)
		err = nil
	}

	return
}

// Contains - Returns true if page pageIndex is resident, the page is not touched
func (C *Cache[T]) Contains(pageIndex int64) bool {
	_, ok := C.pages[pageIndex]
	return ok
}

// Len - Returns the number of resident pages
func (C *Cache[T]) Len() int {
	return len(C.pages)
}

// Stat - Returns counts over the resident set
func (C *Cache[T]) Stat() (stat Stat) {
	stat.Resident = len(C.pages)
	for _, p := range C.pages {
		if p.IsDirty() {
			stat.Dirty++
		}
	}

	return
}

// FlushAll - Writes back every dirty resident page and syncs the storage.
// Pages stay resident. Writing stops at the first failing page, pages already written are clean.
func (C *Cache[T]) FlushAll() (err error) {
	for _, p := range C.pages {
		if !p.IsDirty() {
			continue
		}
		err = C.writeBack(p)
		if err != nil {
			return
		}
	}

	err = C.adapter.Flush()

	return
}

// load - Reads page pageIndex from storage
func (C *Cache[T]) load(pageIndex int64) (p *page.Page[T], err error) {
	err = C.adapter.SeekToPage(pageIndex)
	if err != nil {
		return
	}

	p, err = page.Deserialize(C.adapter, pageIndex, C.elementsPerPage, C.codec)

	return
}

// insert - Makes p resident, replacing a page with the same index or evicting the least recently used page
// if the cache is full
func (C *Cache[T]) insert(p *page.Page[T]) (err error) {
	if _, ok := C.pages[p.Index()]; !ok && len(C.pages) >= C.bufferSize {
		err = C.evict()
		if err != nil {
			return
		}
	}

	C.pages[p.Index()] = p

	return
}

// evict - Drops the page with the oldest last access, writing it back first if dirty.
// If the write back fails the page stays resident and dirty.
func (C *Cache[T]) evict() (err error) {
	var victim *page.Page[T]
	for _, p := range C.pages {
		if victim == nil || p.LastAccess() < victim.LastAccess() {
			victim = p
		}
	}
	if victim == nil {
		return
	}

	dirty := victim.IsDirty()
	if dirty {
		err = C.writeBack(victim)
	}

	if C.logger != nil {
		C.logger.LogEvict(victim.Index(), dirty, err)
	}

	if err != nil {
		err = fmt.Errorf("error while evicting page %d: %w", victim.Index(), err)
		return
	}

	delete(C.pages, victim.Index())

	return
}

// writeBack - Writes p at its slot in storage and marks it clean
func (C *Cache[T]) writeBack(p *page.Page[T]) (err error) {
	err = C.adapter.SeekToPage(p.Index())
	if err != nil {
		return
	}

	err = page.Serialize(C.adapter, p, C.codec)
	if err != nil {
		return
	}

	p.SetDirty(false)

	return
}

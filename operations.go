package virtualarray

import (
	"fmt"

	"github.com/gostonefire/virtualarray/vaerr"
)

// Stat - Statistics on the overall usage of the array
//   - Elements is the total number of elements holding a value
//   - PagesInUse is the number of pages holding at least one value
//   - ResidentPages is the number of pages in memory when Stat was called
//   - DirtyPages is the number of pages in memory with changes not yet written to the file
//   - PageDistribution is the number of values in each page
type Stat struct {
	Elements         int64
	PagesInUse       int64
	ResidentPages    int
	DirtyPages       int
	PageDistribution []int64
}

// Set - Stores value at index, replacing any value already there.
//   - index is the element index, it has to be in the range [0, Len())
//
// It returns:
//   - err is either of type vaerr.IndexOutOfRange, vaerr.Closed or an I/O error if a page had to be read or written back
func (V *VirtualArray[T]) Set(index int64, value T) (err error) {
	pageIndex, slot, err := V.locate(index)
	if err != nil {
		return
	}

	p, err := V.cache.GetPage(pageIndex)
	if err != nil {
		err = fmt.Errorf("error while getting page for element %d: %w", index, err)
		return
	}

	p.Set(slot, value)

	return
}

// Get - Returns the value at index.
//   - index is the element index, it has to be in the range [0, Len())
//
// It returns:
//   - value is the stored value, if the element was never set or has been deleted an error of type vaerr.NoValueFound is also returned.
//   - err is either of type vaerr.NoValueFound, vaerr.IndexOutOfRange, vaerr.Closed or an I/O error
func (V *VirtualArray[T]) Get(index int64) (value T, err error) {
	pageIndex, slot, err := V.locate(index)
	if err != nil {
		return
	}

	p, err := V.cache.GetPage(pageIndex)
	if err != nil {
		err = fmt.Errorf("error while getting page for element %d: %w", index, err)
		return
	}

	value, ok := p.Get(slot)
	if !ok {
		err = vaerr.NoValueFound{}
	}

	return
}

// Delete - Removes the value at index, deleting an absent element is not an error.
// The stored bytes are left in place and only the element's presence flag is cleared.
//   - index is the element index, it has to be in the range [0, Len())
//
// It returns:
//   - err is either of type vaerr.IndexOutOfRange, vaerr.Closed or an I/O error
func (V *VirtualArray[T]) Delete(index int64) (err error) {
	pageIndex, slot, err := V.locate(index)
	if err != nil {
		return
	}

	p, err := V.cache.GetPage(pageIndex)
	if err != nil {
		err = fmt.Errorf("error while getting page for element %d: %w", index, err)
		return
	}

	p.Delete(slot)

	return
}

// Pop - Returns the value at index and removes it from the array.
//
// It returns:
//   - value is the removed value, if there was none an error of type vaerr.NoValueFound is also returned.
//   - err is either of type vaerr.NoValueFound, vaerr.IndexOutOfRange, vaerr.Closed or an I/O error
func (V *VirtualArray[T]) Pop(index int64) (value T, err error) {
	value, err = V.Get(index)
	if err != nil {
		return
	}

	err = V.Delete(index)

	return
}

// Stat - Walks through every page and produces a Stat struct. Pages not in memory are read from the file
// without being kept, so the set of pages in memory is left as it was.
// For a big array this can take a considerable amount of time, and the PageDistribution slice holds one
// entry per page.
//   - includeDistribution set to true fills Stat.PageDistribution, false leaves it nil.
func (V *VirtualArray[T]) Stat(includeDistribution bool) (stat *Stat, err error) {
	if V.closed {
		err = vaerr.Closed{}
		return
	}

	var s Stat
	cs := V.cache.Stat()
	s.ResidentPages = cs.Resident
	s.DirtyPages = cs.Dirty

	nPages := V.md.NumberOfPages(V.codec.Size())
	if includeDistribution {
		s.PageDistribution = make([]int64, nPages)
	}

	for i := int64(0); i < nPages; i++ {
		p, pErr := V.cache.Peek(i)
		if pErr != nil {
			err = fmt.Errorf("error while reading page %d: %w", i, pErr)
			return
		}

		count := int64(p.Count())
		s.Elements += count
		if count > 0 {
			s.PagesInUse++
		}
		if includeDistribution {
			s.PageDistribution[i] = count
		}
	}

	stat = &s

	return
}

// locate - Translates an element index into a page index and a slot within that page
func (V *VirtualArray[T]) locate(index int64) (pageIndex int64, slot int, err error) {
	if V.closed {
		err = vaerr.Closed{}
		return
	}

	if index < 0 || index >= V.md.ArraySize {
		err = vaerr.IndexOutOfRange{Index: index, Size: V.md.ArraySize}
		return
	}

	pageIndex = index / V.elementsPerPage
	slot = int(index % V.elementsPerPage)

	return
}

package virtualarray

import (
	"fmt"

	"github.com/gostonefire/virtualarray/internal/page"
	"github.com/gostonefire/virtualarray/vaerr"
)

// Element - One present element returned by an Iterator
type Element[T any] struct {
	Index int64
	Value T
}

// Iterator - Is used to iterate over present elements one by one in index order.
// Pages not in memory are read from the file without being kept. Changing the array while iterating is
// allowed, elements set behind the iterator position are not seen.
type Iterator[T any] struct {
	va    *VirtualArray[T]
	page  *page.Page[T]
	index int64
	err   error
}

// Iterator - Returns an Iterator positioned before the first element
func (V *VirtualArray[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{
		va: V,
	}
}

// HasNext - Returns true if there is an element, or an error, to be fetched from a call to Next
func (I *Iterator[T]) HasNext() bool {
	if I.err != nil {
		return true
	}

	// a resident page may have replaced the copy read earlier
	if I.page != nil && I.va.cache.Contains(I.page.Index()) {
		I.page = nil
	}

	for ; I.index < I.va.md.ArraySize; I.index++ {
		if I.va.closed {
			I.err = vaerr.Closed{}
			return true
		}

		pageIndex := I.index / I.va.elementsPerPage
		if I.page == nil || I.page.Index() != pageIndex {
			p, err := I.va.cache.Peek(pageIndex)
			if err != nil {
				I.err = fmt.Errorf("error while reading page %d: %w", pageIndex, err)
				return true
			}
			I.page = p
		}

		if _, ok := I.page.Get(int(I.index % I.va.elementsPerPage)); ok {
			return true
		}
	}

	return false
}

// Next - Returns the next present element.
// It returns:
//   - element is the next element with its index.
//   - err is either a standard error or if there are no more elements when calling this function an error of type vaerr.NoValueFound is returned.
func (I *Iterator[T]) Next() (element Element[T], err error) {
	if !I.HasNext() {
		err = vaerr.NoValueFound{}
		return
	}

	if I.err != nil {
		err = I.err
		return
	}

	value, _ := I.page.Get(int(I.index % I.va.elementsPerPage))
	element = Element[T]{Index: I.index, Value: value}
	I.index++

	return
}

//go:build integration

package virtualarray

import (
	"testing"

	"github.com/gostonefire/virtualarray/internal/testutil"
	"github.com/gostonefire/virtualarray/itemcodec"
	"github.com/gostonefire/virtualarray/vaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterator(t *testing.T) {
	t.Run("iterates present elements in index order", func(t *testing.T) {
		// Prepare
		va, _, err := NewVirtualArray[uint8](testConfig(t), itemcodec.Uint8{})
		require.NoError(t, err)
		for _, i := range []int64{39, 0, 20, 19, 5} {
			require.NoError(t, va.Set(i, uint8(i)))
		}
		require.NoError(t, va.Delete(19))

		// Execute
		var elements []Element[uint8]
		iter := va.Iterator()
		for iter.HasNext() {
			e, err := iter.Next()
			require.NoError(t, err, "gets next element")
			elements = append(elements, e)
		}

		// Check
		assert.Equal(t, []Element[uint8]{
			{Index: 0, Value: 0},
			{Index: 5, Value: 5},
			{Index: 20, Value: 20},
			{Index: 39, Value: 39},
		}, elements, "present elements only")

		_, err = iter.Next()
		assert.ErrorIs(t, err, vaerr.NoValueFound{}, "no more elements")

		stat, err := va.Stat(false)
		require.NoError(t, err)
		assert.Equal(t, 1, stat.ResidentPages, "iteration kept the resident set")

		// Clean up
		assert.NoError(t, va.RemoveFile())
	})

	t.Run("sees changes made ahead of its position", func(t *testing.T) {
		// Prepare
		va, _, err := NewVirtualArray[uint8](testConfig(t), itemcodec.Uint8{})
		require.NoError(t, err)
		require.NoError(t, va.Set(30, 1))
		require.NoError(t, va.Set(2, 1))
		iter := va.Iterator()
		require.True(t, iter.HasNext())
		e, err := iter.Next()
		require.NoError(t, err)
		require.Equal(t, int64(2), e.Index)

		// Execute
		require.NoError(t, va.Set(10, 2))
		require.NoError(t, va.Delete(30))

		// Check
		require.True(t, iter.HasNext(), "has element set after start")
		e, err = iter.Next()
		assert.NoError(t, err)
		assert.Equal(t, Element[uint8]{Index: 10, Value: 2}, e)
		assert.False(t, iter.HasNext(), "deleted element not returned")

		// Clean up
		assert.NoError(t, va.RemoveFile())
	})

	t.Run("empty array", func(t *testing.T) {
		// Prepare
		va, _, err := NewVirtualArray[uint8](Config{Resource: NewMemoryResource(), ArraySize: 0, DesiredPageSize: 4, BufferSize: 1}, itemcodec.Uint8{})
		require.NoError(t, err)

		// Check
		assert.False(t, va.Iterator().HasNext(), "nothing to iterate")
	})

	t.Run("read failure is returned by next", func(t *testing.T) {
		// Prepare
		res := testutil.NewFaultyResource(NewMemoryResource())
		va, _, err := NewVirtualArray[uint8](Config{Resource: res, ArraySize: 40, DesiredPageSize: 20, BufferSize: 1}, itemcodec.Uint8{})
		require.NoError(t, err)
		res.SetFault(testutil.Fault{FailAfterBytes: -1, FailReads: true})

		// Execute
		iter := va.Iterator()
		hasNext := iter.HasNext()
		_, err = iter.Next()

		// Check
		assert.True(t, hasNext, "error pending")
		assert.ErrorIs(t, err, testutil.ErrInjected, "injected error")
	})
}

//go:build integration

package virtualarray

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/gostonefire/virtualarray/internal/metadata"
	"github.com/gostonefire/virtualarray/internal/storage"
	"github.com/gostonefire/virtualarray/itemcodec"
	"github.com/gostonefire/virtualarray/vaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name    int64
	Surname int64
}

func testConfig(t *testing.T) Config {
	t.Helper()

	return Config{
		Name:            filepath.Join(t.TempDir(), "array.bin"),
		ArraySize:       40,
		DesiredPageSize: 20,
		BufferSize:      1,
	}
}

func TestNewVirtualArray(t *testing.T) {
	t.Run("creates virtual array", func(t *testing.T) {
		// Prepare
		config := testConfig(t)

		// Execute
		va, info, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})

		// Check
		require.NoError(t, err, "creates virtual array")
		assert.Equal(t, Info{
			ElementsPerPage: 20,
			PageByteSize:    20,
			PageStride:      23,
			NumberOfPages:   3,
			ArraySize:       40,
			BufferSize:      1,
			FileSize:        18 + 3*23,
		}, info, "correct info")
		assert.Equal(t, info, va.Info(), "same info from array")
		assert.Equal(t, int64(40), va.Len(), "correct length")

		stat, err := os.Stat(config.Name)
		require.NoError(t, err, "file exists")
		assert.Equal(t, info.FileSize, stat.Size(), "file fully allocated")

		content, err := os.ReadFile(config.Name)
		require.NoError(t, err)
		header := append([]byte("VM"), binary.NativeEndian.AppendUint64(binary.NativeEndian.AppendUint64(nil, 20), 40)...)
		assert.Equal(t, header, content[:18], "byte exact header")
		assert.Equal(t, make([]byte, 3*23), content[18:], "zeroed pages")

		// Clean up
		err = va.RemoveFile()
		assert.NoError(t, err, "removes file")

		_, err = os.Stat(config.Name)
		assert.True(t, os.IsNotExist(err), "file removed")
	})

	t.Run("page size is rounded up to whole items", func(t *testing.T) {
		// Prepare
		config := testConfig(t)

		// Execute
		va, info, err := NewVirtualArray[int64](config, itemcodec.Int64{})

		// Check
		require.NoError(t, err, "creates virtual array")
		assert.Equal(t, int64(24), info.PageByteSize, "rounded to 3 items")
		assert.Equal(t, int64(3), info.ElementsPerPage, "3 items per page")
		assert.Equal(t, int64(14), info.NumberOfPages, "pages 0 through 40/3")

		// Clean up
		assert.NoError(t, va.RemoveFile())
	})

	t.Run("zero page size fails before any file is created", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		config.DesiredPageSize = 0

		// Execute
		_, _, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})

		// Check
		var zeroErr vaerr.ZeroDataChunkSize
		assert.ErrorAs(t, err, &zeroErr, "zero page size error")
		_, err = os.Stat(config.Name)
		assert.True(t, os.IsNotExist(err), "no file created")
	})

	t.Run("error when supplying an invalid configuration", func(t *testing.T) {
		tests := []struct {
			name   string
			change func(c *Config)
		}{
			{name: "empty name", change: func(c *Config) { c.Name = "" }},
			{name: "zero buffer size", change: func(c *Config) { c.BufferSize = 0 }},
			{name: "negative array size", change: func(c *Config) { c.ArraySize = -1 }},
			{name: "negative page size", change: func(c *Config) { c.DesiredPageSize = -20 }},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				// Prepare
				config := testConfig(t)
				test.change(&config)

				// Execute
				_, _, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})

				// Check
				var cfgErr vaerr.InvalidConfig
				assert.ErrorAs(t, err, &cfgErr, "invalid config error")
			})
		}
	})

	t.Run("error when supplying no codec", func(t *testing.T) {
		// Execute
		_, _, err := NewVirtualArray[uint8](testConfig(t), nil)

		// Check
		var cfgErr vaerr.InvalidConfig
		assert.ErrorAs(t, err, &cfgErr, "invalid config error")
	})

	t.Run("error when file is in use", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		va, _, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err)
		require.NoError(t, va.Set(3, 33))
		require.NoError(t, va.Flush())

		// Execute
		_, _, errCreate := NewVirtualArray[uint8](config, itemcodec.Uint8{})
		_, _, errOpen := NewFromExistingFile[uint8](config, itemcodec.Uint8{})

		// Check
		var locked vaerr.Locked
		assert.ErrorAs(t, errCreate, &locked, "create fails with locked")
		assert.ErrorAs(t, errOpen, &locked, "open fails with locked")
		v, err := va.Get(3)
		assert.NoError(t, err, "first owner still works")
		assert.Equal(t, uint8(33), v, "file left intact")

		// Clean up
		assert.NoError(t, va.RemoveFile())
	})

	t.Run("creates virtual array in a resource", func(t *testing.T) {
		// Prepare
		res := NewMemoryResource()
		config := Config{
			Resource:        res,
			Signature:       []byte("ARR1"),
			ArraySize:       10,
			DesiredPageSize: 4,
			BufferSize:      2,
		}

		// Execute
		va, info, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})

		// Check
		require.NoError(t, err, "creates virtual array")
		assert.Equal(t, int(info.FileSize), res.Len(), "resource fully allocated")
		assert.Equal(t, []byte("ARR1"), res.Bytes()[:4], "custom signature")

		// Clean up
		assert.NoError(t, va.RemoveFile(), "only closes")
	})
}

func TestNewFromExistingFile(t *testing.T) {
	t.Run("opens an existing file", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		vaInit, infoInit, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err, "creates virtual array")
		require.NoError(t, vaInit.Close())

		// ignored on open
		config.ArraySize = 1000
		config.DesiredPageSize = 1
		config.BufferSize = 2

		// Execute
		va, info, err := NewFromExistingFile[uint8](config, itemcodec.Uint8{})

		// Check
		require.NoError(t, err, "opens virtual array")
		infoInit.BufferSize = 2
		assert.Equal(t, infoInit, info, "layout preserved")

		// Clean up
		assert.NoError(t, va.RemoveFile())
	})

	t.Run("open and close without changes leaves the file untouched", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		vaInit, _, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err)
		require.NoError(t, vaInit.Set(7, 70))
		require.NoError(t, vaInit.Close())
		before, err := os.ReadFile(config.Name)
		require.NoError(t, err)

		// Execute
		va, _, err := NewFromExistingFile[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err)
		_, err = va.Get(7)
		require.NoError(t, err)
		_, err = va.Get(30)
		assert.ErrorAs(t, err, &vaerr.NoValueFound{})
		require.NoError(t, va.Close())

		// Check
		after, err := os.ReadFile(config.Name)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(before, after), "file unchanged")

		// Clean up
		assert.NoError(t, storage.RemoveFile(config.Name))
	})

	t.Run("error when reopen a non-existing file", func(t *testing.T) {
		// Execute
		_, _, err := NewFromExistingFile[uint8](testConfig(t), itemcodec.Uint8{})

		// Check
		assert.Error(t, err)
	})

	t.Run("error on signature mismatch", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		va, _, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err)
		require.NoError(t, va.Close())
		config.Signature = []byte("XX")

		// Execute
		_, _, err = NewFromExistingFile[uint8](config, itemcodec.Uint8{})

		// Check
		var sigErr vaerr.InvalidSignature
		require.ErrorAs(t, err, &sigErr, "invalid signature error")
		assert.Equal(t, []byte("XX"), sigErr.Expected)
		assert.Equal(t, []byte("VM"), sigErr.Found)

		// lock released on the failed open
		va, _, err = NewFromExistingFile[uint8](testConfigNamed(config.Name), itemcodec.Uint8{})
		assert.NoError(t, err, "opens with correct signature")

		// Clean up
		assert.NoError(t, va.RemoveFile())
	})

	t.Run("error on truncated header", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		require.NoError(t, os.WriteFile(config.Name, []byte("VM\x01\x02"), 0644))

		// Execute
		_, _, err := NewFromExistingFile[uint8](config, itemcodec.Uint8{})

		// Check
		var ioErr vaerr.IOError
		assert.ErrorAs(t, err, &ioErr, "io error")
	})

	t.Run("error when item no longer fits a page", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		va, _, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err)
		require.NoError(t, va.Close())

		codec, err := itemcodec.NewFixed[[32]byte]()
		require.NoError(t, err)

		// Execute
		_, _, err = NewFromExistingFile[[32]byte](config, codec)

		// Check
		var smallErr vaerr.SmallDataChunkSize
		assert.ErrorAs(t, err, &smallErr, "page too small error")
	})
}

func TestNewFromExistingFile_Corrupt(t *testing.T) {
	t.Run("error on header describing more pages than stored", func(t *testing.T) {
		// Prepare
		res := NewMemoryResource()
		header := append([]byte("VM"), binary.NativeEndian.AppendUint64(binary.NativeEndian.AppendUint64(nil, 1<<62), 10)...)
		_, err := res.Write(header)
		require.NoError(t, err)

		// Execute
		va, _, err := NewFromExistingFile[uint8](Config{Resource: res, BufferSize: 1}, itemcodec.Uint8{})

		// Check
		assert.Nil(t, va, "no array")
		var sizeErr vaerr.SizeMismatch
		require.ErrorAs(t, err, &sizeErr, "size mismatch error")
		assert.Equal(t, int64(18), sizeErr.Found, "header only")
		assert.Greater(t, sizeErr.Expected, sizeErr.Found, "header implies more")
	})

	t.Run("error on header whose layout overflows", func(t *testing.T) {
		// Prepare
		res := NewMemoryResource()
		header := append([]byte("VM"), binary.NativeEndian.AppendUint64(binary.NativeEndian.AppendUint64(nil, 1<<62), 1<<62)...)
		_, err := res.Write(header)
		require.NoError(t, err)

		// Execute
		_, _, err = NewFromExistingFile[uint8](Config{Resource: res, BufferSize: 1}, itemcodec.Uint8{})

		// Check
		var overflowErr vaerr.LayoutOverflow
		assert.ErrorAs(t, err, &overflowErr, "layout overflow error")
	})

	t.Run("error on truncated file", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		va, info, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err)
		require.NoError(t, va.Close())
		require.NoError(t, os.Truncate(config.Name, info.FileSize-1))

		// Execute
		_, _, err = NewFromExistingFile[uint8](config, itemcodec.Uint8{})

		// Check
		var sizeErr vaerr.SizeMismatch
		require.ErrorAs(t, err, &sizeErr, "size mismatch error")
		assert.Equal(t, info.FileSize, sizeErr.Expected)
		assert.Equal(t, info.FileSize-1, sizeErr.Found)

		// lock released on the failed open
		va, _, err = NewVirtualArray[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err, "file can be recreated")

		// Clean up
		assert.NoError(t, va.RemoveFile())
	})
}

func TestNewFromExistingFile_Repeated(t *testing.T) {
	t.Run("opening twice gives identical reads", func(t *testing.T) {
		// Prepare
		config := testConfig(t)
		config.BufferSize = 2
		va, _, err := NewVirtualArray[uint8](config, itemcodec.Uint8{})
		require.NoError(t, err)
		for _, i := range []int64{0, 7, 19, 20, 33, 39} {
			require.NoError(t, va.Set(i, uint8(100+i)))
		}
		require.NoError(t, va.Delete(19))
		require.NoError(t, va.Close())

		type result struct {
			value   uint8
			present bool
		}
		readAll := func() []result {
			va, _, err := NewFromExistingFile[uint8](config, itemcodec.Uint8{})
			require.NoError(t, err, "opens")
			defer func() { assert.NoError(t, va.Close(), "closes") }()

			results := make([]result, 40)
			for i := range results {
				v, err := va.Get(int64(i))
				if err != nil {
					require.ErrorIs(t, err, vaerr.NoValueFound{}, "only absence expected")
					continue
				}
				results[i] = result{value: v, present: true}
			}
			return results
		}

		// Execute
		first := readAll()
		second := readAll()

		// Check
		assert.Equal(t, first, second, "same results on both opens")
		assert.Equal(t, result{value: 107, present: true}, first[7], "present value")
		assert.Equal(t, result{}, first[19], "deleted value absent")
		assert.Equal(t, result{}, first[1], "never written value absent")
		var present int
		for _, r := range first {
			if r.present {
				present++
			}
		}
		assert.Equal(t, 5, present, "five present values")

		// Clean up
		assert.NoError(t, storage.RemoveFile(config.Name))
	})
}

func TestInitialize(t *testing.T) {
	t.Run("pads pages with spare bytes", func(t *testing.T) {
		// Prepare
		md, err := metadata.New([]byte("VM"), 20, 5, 8)
		require.NoError(t, err)
		res := NewMemoryResource()
		adapter := storage.NewAdapter(res, false, nil)
		adapter.SetLayout(md, 8)

		// Execute
		err = initialize(adapter, md, 8)

		// Check
		require.NoError(t, err, "initializes")
		assert.Equal(t, int(storage.FileSize(md, 8)), res.Len(), "pages 0 through 2 with stride 21")
		assert.Equal(t, 18+3*21, res.Len())
	})
}

func testConfigNamed(name string) Config {
	return Config{Name: name, BufferSize: 1}
}

package virtualarray

import (
	"errors"
	"fmt"

	"github.com/gostonefire/virtualarray/internal/conf"
	"github.com/gostonefire/virtualarray/internal/metadata"
	"github.com/gostonefire/virtualarray/internal/page"
	"github.com/gostonefire/virtualarray/internal/pagecache"
	"github.com/gostonefire/virtualarray/internal/storage"
	"github.com/gostonefire/virtualarray/itemcodec"
	"github.com/gostonefire/virtualarray/vaerr"
)

// Resource - Any seekable byte resource a virtual array can live in instead of a named file.
// If it also implements Sync() error that is called on Flush and Close. The array never closes a Resource
// it was given.
type Resource = storage.Resource

// MemoryResource - In-memory Resource
type MemoryResource = storage.MemoryResource

// NewMemoryResource - Returns an empty in-memory Resource
func NewMemoryResource() *MemoryResource {
	return storage.NewMemoryResource()
}

// Config - Configuration for creating or opening a virtual array
//   - Name is the name of the backing file (including path), ignored if Resource is given
//   - Resource is an optional caller owned resource to use instead of a file
//   - Signature is the format tag at the start of the file, defaults to "VM"
//   - ArraySize is the logical number of elements, only used when creating
//   - DesiredPageSize is the wanted number of data bytes per page, rounded up to a multiple of the item size, only used when creating
//   - BufferSize is the maximum number of pages kept in memory, must be at least 1 (one)
//   - Logger is an optional logger, defaults to NoopLogger
type Config struct {
	Name            string
	Resource        Resource
	Signature       []byte
	ArraySize       int64
	DesiredPageSize int64
	BufferSize      int
	Logger          *Logger
}

// Info - Information structure containing some information about the virtual array created or opened
//   - ElementsPerPage is the number of element slots in each page
//   - PageByteSize is the number of data bytes in each page, excluding the bitmap
//   - PageStride is the number of bytes each page occupies in the file, including the bitmap
//   - NumberOfPages is the number of pages allocated in the file
//   - ArraySize is the logical number of elements
//   - BufferSize is the maximum number of pages kept in memory
//   - FileSize is the size of the fully allocated file
type Info struct {
	ElementsPerPage int64
	PageByteSize    int64
	PageStride      int64
	NumberOfPages   int64
	ArraySize       int64
	BufferSize      int
	FileSize        int64
}

// VirtualArray - A fixed size array of T backed by a file, with at most BufferSize pages in memory.
// A VirtualArray is not safe for concurrent use, see SyncArray.
type VirtualArray[T any] struct {
	name            string
	md              metadata.Metadata
	codec           itemcodec.Codec[T]
	adapter         *storage.Adapter
	cache           *pagecache.Cache[T]
	elementsPerPage int64
	bufferSize      int
	logger          *Logger
	closed          bool
}

// NewVirtualArray - Returns a new virtual array with every element absent. An existing file by the same name is
// overwritten, unless it is in use by another virtual array in which case a vaerr.Locked error is returned.
// All pages are written to the resource before the header, so an interrupted create never leaves a file
// that opens.
//   - config is the array configuration, Name or Resource, ArraySize, DesiredPageSize and BufferSize are required
//   - codec is the item codec, it has to be the same every time the file is opened
//
// It returns:
//   - virtualArray is a pointer to a VirtualArray struct
//   - info is an Info struct containing some data regarding the array created
//   - err is either one of the vaerr types or a standard error if something went wrong
func NewVirtualArray[T any](config Config, codec itemcodec.Codec[T]) (virtualArray *VirtualArray[T], info Info, err error) {
	err = validateCodec(codec)
	if err != nil {
		return
	}
	err = config.validate(true)
	if err != nil {
		return
	}
	logger := config.logger()

	itemSize := codec.Size()
	md, err := metadata.New(config.signature(), metadata.CalcPageByteSize(config.DesiredPageSize, itemSize), config.ArraySize, itemSize)
	if err != nil {
		logger.LogCreate(info, err)
		return
	}

	adapter, err := config.newAdapter(true)
	if err != nil {
		logger.LogCreate(info, err)
		return
	}
	adapter.SetLayout(md, itemSize)

	err = initialize(adapter, md, itemSize)
	if err != nil {
		err = errors.Join(fmt.Errorf("error while initializing virtual array: %w", err), adapter.Close())
		if config.Resource == nil {
			_ = storage.RemoveFile(config.Name)
		}
		logger.LogCreate(info, err)
		return
	}

	virtualArray, info, err = newVirtualArray(config, codec, md, adapter, logger)
	logger.LogCreate(info, err)

	return
}

// NewFromExistingFile - Opens an existing virtual array. Only the header is read and the resource length checked
// against it, pages are read as they are used.
//   - config is the array configuration, Name or Resource and BufferSize are required, ArraySize and DesiredPageSize are ignored
//   - codec is the item codec, it has to be the same as when the array was created
//
// It returns:
//   - virtualArray is a pointer to a VirtualArray struct
//   - info is an Info struct containing some data regarding the array opened
//   - err is either one of the vaerr types or a standard error if something went wrong
func NewFromExistingFile[T any](config Config, codec itemcodec.Codec[T]) (virtualArray *VirtualArray[T], info Info, err error) {
	err = validateCodec(codec)
	if err != nil {
		return
	}
	err = config.validate(false)
	if err != nil {
		return
	}
	logger := config.logger()

	adapter, err := config.newAdapter(false)
	if err != nil {
		logger.LogOpen(info, err)
		return
	}

	md, err := readMetadata(adapter, config.signature(), codec.Size())
	if err == nil {
		err = checkSize(adapter, md, codec.Size())
	}
	if err != nil {
		err = errors.Join(err, adapter.Close())
		logger.LogOpen(info, err)
		return
	}
	adapter.SetLayout(md, codec.Size())

	virtualArray, info, err = newVirtualArray(config, codec, md, adapter, logger)
	logger.LogOpen(info, err)

	return
}

// Info - Returns information on the array layout
func (V *VirtualArray[T]) Info() Info {
	itemSize := V.codec.Size()

	return Info{
		ElementsPerPage: V.elementsPerPage,
		PageByteSize:    V.md.PageByteSize,
		PageStride:      storage.PageStride(V.md, itemSize),
		NumberOfPages:   V.md.NumberOfPages(itemSize),
		ArraySize:       V.md.ArraySize,
		BufferSize:      V.bufferSize,
		FileSize:        storage.FileSize(V.md, itemSize),
	}
}

// Len - Returns the logical number of elements
func (V *VirtualArray[T]) Len() int64 {
	return V.md.ArraySize
}

// Flush - Writes every modified page in memory to the resource and syncs it. Pages stay in memory.
func (V *VirtualArray[T]) Flush() (err error) {
	if V.closed {
		err = vaerr.Closed{}
		return
	}

	dirty := V.cache.Stat().Dirty
	err = V.cache.FlushAll()
	if err != nil {
		err = fmt.Errorf("error while flushing pages: %w", err)
	}
	V.logger.LogFlush(dirty, err)

	return
}

// Close - Flushes modified pages, releases the file lock and closes the file. A Resource given in Config is
// flushed but not closed. The array is closed even if flushing fails, and calling Close again is a no-op.
func (V *VirtualArray[T]) Close() (err error) {
	if V.closed {
		return
	}
	V.closed = true

	dirty := V.cache.Stat().Dirty
	err = V.cache.FlushAll()
	if err != nil {
		err = fmt.Errorf("error while flushing pages on close: %w", err)
	}
	V.logger.LogFlush(dirty, err)

	err = errors.Join(err, V.adapter.Close())
	V.logger.LogClose(err)

	return
}

// RemoveFile - Closes the array and removes its file. Arrays living in a Resource are only closed.
func (V *VirtualArray[T]) RemoveFile() (err error) {
	err = V.Close()
	if V.name != "" {
		err = errors.Join(err, storage.RemoveFile(V.name))
	}

	return
}

// newVirtualArray - Wires a virtual array on top of an adapter with its layout set
func newVirtualArray[T any](config Config, codec itemcodec.Codec[T], md metadata.Metadata, adapter *storage.Adapter, logger *Logger) (virtualArray *VirtualArray[T], info Info, err error) {
	cache, err := pagecache.New[T](adapter, md, codec, config.BufferSize, logger)
	if err != nil {
		_ = adapter.Close()
		return
	}

	virtualArray = &VirtualArray[T]{
		md:              md,
		codec:           codec,
		adapter:         adapter,
		cache:           cache,
		elementsPerPage: int64(md.ElementsPerPage(codec.Size())),
		bufferSize:      config.BufferSize,
		logger:          logger,
	}
	if config.Resource == nil {
		virtualArray.name = config.Name
	}

	info = virtualArray.Info()

	return
}

// initialize - Writes zeroed pages 0 through ArraySize / ElementsPerPage, then the header, then syncs
func initialize(adapter *storage.Adapter, md metadata.Metadata, itemSize int) (err error) {
	epp := md.ElementsPerPage(itemSize)
	padding := md.PageByteSize - int64(epp*itemSize)

	err = adapter.SeekToPage(0)
	if err != nil {
		return
	}

	nPages := md.NumberOfPages(itemSize)
	for i := int64(0); i < nPages; i++ {
		err = page.SerializeZeroed(adapter, epp, itemSize)
		if err != nil {
			return
		}
		if padding > 0 {
			_, err = adapter.Write(make([]byte, padding))
			if err != nil {
				err = vaerr.IOError{Op: "writing page padding", Err: err}
				return
			}
		}
	}

	err = adapter.SeekToStart()
	if err != nil {
		return
	}

	err = metadata.Write(adapter, md)
	if err != nil {
		return
	}

	err = adapter.Flush()

	return
}

// readMetadata - Reads and validates the header at the start of the resource
func readMetadata(adapter *storage.Adapter, signature []byte, itemSize int) (md metadata.Metadata, err error) {
	err = adapter.SeekToStart()
	if err != nil {
		return
	}

	md, err = metadata.Read(adapter, signature, itemSize)
	if err != nil {
		err = fmt.Errorf("error while reading virtual array header: %w", err)
	}

	return
}

// checkSize - Fails with vaerr.SizeMismatch if the resource is shorter than the pages its header describes.
// Every page is written on create, so a shorter resource is truncated or has a corrupt header.
func checkSize(adapter *storage.Adapter, md metadata.Metadata, itemSize int) (err error) {
	size, err := adapter.Size()
	if err != nil {
		return
	}

	if expected := storage.FileSize(md, itemSize); size < expected {
		err = vaerr.SizeMismatch{Expected: expected, Found: size}
	}

	return
}

// validateCodec - Checks that there is a codec and that its items have a size
func validateCodec[T any](codec itemcodec.Codec[T]) (err error) {
	if codec == nil {
		err = vaerr.NewInvalidConfig("codec can not be nil")
		return
	}

	if codec.Size() <= 0 {
		err = vaerr.NewInvalidConfig("item size must be a positive value higher than 0 (zero), got %d", codec.Size())
		return
	}

	return
}

// validate - Checks the configuration, create tells whether the sizes for a new array are needed
func (C Config) validate(create bool) (err error) {
	if C.Resource == nil && C.Name == "" {
		err = vaerr.NewInvalidConfig("name can not be empty when no resource is given, it is used to name the file")
		return
	}

	if C.BufferSize <= 0 {
		err = vaerr.NewInvalidConfig("buffer size must be a positive value higher than 0 (zero), got %d", C.BufferSize)
		return
	}

	if !create {
		return
	}

	if C.ArraySize < 0 {
		err = vaerr.NewInvalidConfig("array size can not be negative, got %d", C.ArraySize)
		return
	}

	if C.DesiredPageSize < 0 {
		err = vaerr.NewInvalidConfig("desired page size can not be negative, got %d", C.DesiredPageSize)
		return
	}

	return
}

// signature - Returns the configured signature or the default one
func (C Config) signature() []byte {
	if len(C.Signature) == 0 {
		return conf.DefaultSignature
	}

	return C.Signature
}

// logger - Returns the configured logger tagged with the array name, or a noop logger
func (C Config) logger() *Logger {
	logger := C.Logger
	if logger == nil {
		logger = NoopLogger()
	}

	name := C.Name
	if C.Resource != nil {
		name = "resource"
	}

	return logger.WithArray(name)
}

// newAdapter - Returns an adapter over the configured resource, or over a created or opened and locked file
func (C Config) newAdapter(create bool) (adapter *storage.Adapter, err error) {
	if C.Resource != nil {
		adapter = storage.NewAdapter(C.Resource, false, nil)
		return
	}

	if create {
		file, fErr := storage.CreateFile(C.Name)
		if fErr != nil {
			err = fErr
			return
		}
		adapter = storage.NewAdapter(file, true, storage.UnlockFunc(file))
		return
	}

	file, err := storage.OpenFile(C.Name)
	if err != nil {
		return
	}
	adapter = storage.NewAdapter(file, true, storage.UnlockFunc(file))

	return
}

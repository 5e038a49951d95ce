package storage

import (
	"fmt"
	"os"

	"github.com/gostonefire/virtualarray/internal/conf"
)

// CreateFile - Creates a new virtual array file, or truncates an existing one to zero length, and locks it
// for exclusive use. The lock is taken before truncating so a file in use by someone else is left intact.
func CreateFile(name string) (file *os.File, err error) {
	file, err = os.OpenFile(name, os.O_CREATE|os.O_RDWR, conf.FileMode)
	if err != nil {
		err = fmt.Errorf("error while open/create new virtual array file: %w", err)
		return
	}

	err = lockFile(file)
	if err != nil {
		_ = file.Close()
		file = nil
		return
	}

	err = file.Truncate(0)
	if err != nil {
		_ = unlockFile(file)
		_ = file.Close()
		file = nil
		err = fmt.Errorf("error while truncating virtual array file: %w", err)
		return
	}

	return
}

// OpenFile - Opens an existing virtual array file and locks it for exclusive use
func OpenFile(name string) (file *os.File, err error) {
	stat, err := os.Stat(name)
	if err != nil {
		err = fmt.Errorf("virtual array file not found: %w", err)
		return
	}
	if stat.IsDir() {
		err = fmt.Errorf("virtual array file %s is a directory", name)
		return
	}

	file, err = os.OpenFile(name, os.O_RDWR, conf.FileMode)
	if err != nil {
		err = fmt.Errorf("unable to open existing virtual array file: %w", err)
		return
	}

	err = lockFile(file)
	if err != nil {
		_ = file.Close()
		file = nil
		return
	}

	return
}

// UnlockFunc - Returns a function releasing the lock taken by CreateFile or OpenFile
func UnlockFunc(file *os.File) func() error {
	return func() error { return unlockFile(file) }
}

// RemoveFile - Removes the virtual array file, make sure to close it first.
// A missing file or a directory by the same name is left alone.
func RemoveFile(name string) (err error) {
	if stat, ok := os.Stat(name); ok == nil {
		if !stat.IsDir() {
			err = os.Remove(name)
			if err != nil {
				err = fmt.Errorf("error while removing virtual array file: %w", err)
				return
			}
		}
	}

	return
}

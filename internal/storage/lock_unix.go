//go:build unix

package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/gostonefire/virtualarray/vaerr"
	"golang.org/x/sys/unix"
)

// lockFile - Takes a non-blocking exclusive advisory lock on file
func lockFile(file *os.File) (err error) {
	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		err = vaerr.Locked{Name: file.Name()}
		return
	}
	if err != nil {
		err = fmt.Errorf("error while locking virtual array file: %w", err)
	}

	return
}

// unlockFile - Releases the lock taken by lockFile
func unlockFile(file *os.File) (err error) {
	err = unix.Flock(int(file.Fd()), unix.LOCK_UN)
	if err != nil {
		err = fmt.Errorf("error while unlocking virtual array file: %w", err)
	}

	return
}

//go:build !unix

package storage

import "os"

// lockFile - Advisory locking is not available on this platform, single ownership is up to the caller
func lockFile(_ *os.File) error {
	return nil
}

func unlockFile(_ *os.File) error {
	return nil
}

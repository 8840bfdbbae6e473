package wire

import (
	"fmt"
	"os"
)

// PartSuffix is appended to a destination filename while a transfer is
// in flight; the file is renamed to its final name only on success.
const PartSuffix = ".part"

// PartPath returns the staging path for a destination filename.
func PartPath(dest string) string {
	return dest + PartSuffix
}

// CreatePart opens <dest>.part for writing, refusing up front if dest
// already exists (PUT refuses overwrite before any bytes are accepted).
func CreatePart(dest string) (*os.File, error) {
	if _, err := os.Stat(dest); err == nil {
		return nil, fmt.Errorf("%s: %w", dest, os.ErrExist)
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	return os.Create(PartPath(dest))
}

// FinishPart renames the staged <dest>.part to dest atomically. If dest
// already exists at rename time it is removed first (client-side semantics:
// a download replaces any local file of the same name; on the server, PUT
// has already refused an existing destination up front via CreatePart).
func FinishPart(dest string) error {
	if _, err := os.Stat(dest); err == nil {
		if rerr := os.Remove(dest); rerr != nil {
			return rerr
		}
	}
	return os.Rename(PartPath(dest), dest)
}

// AbortPart removes a staged .part file after an interrupted transfer.
// Missing files are not an error.
func AbortPart(dest string) error {
	err := os.Remove(PartPath(dest))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

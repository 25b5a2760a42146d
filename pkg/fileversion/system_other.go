//go:build !windows

package fileversion

import "fmt"

// NewSystem returns a reader that reports every file as unversioned.
func NewSystem() Reader {
	return ReaderFunc(func(path string) (string, error) {
		return "", fmt.Errorf("%s: %w", path, ErrNoVersion)
	})
}

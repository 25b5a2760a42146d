// pkg/fileversion/fileversion.go - embedded version resources of executables and drivers.

package fileversion

import (
	"errors"
	"fmt"
)

// ErrNoVersion is returned when a file has no readable version resource.
var ErrNoVersion = errors.New("file has no version resource")

// Reader returns the FileVersion string embedded in a PE file.
type Reader interface {
	FileVersion(path string) (string, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(path string) (string, error)

func (f ReaderFunc) FileVersion(path string) (string, error) { return f(path) }

// formatFixed renders the VS_FIXEDFILEINFO file version words as a.b.c.d.
func formatFixed(ms, ls uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", ms>>16, ms&0xffff, ls>>16, ls&0xffff)
}

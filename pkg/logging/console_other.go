//go:build !windows

package logging

import (
	"io"
	"os"
)

func colorCapable(w io.Writer) bool {
	_, ok := w.(*os.File)
	return ok
}

//go:build windows

package logging

import (
	"io"
	"os"

	"golang.org/x/sys/windows"
)

// colorCapable switches the console behind w to virtual terminal mode and
// reports whether ANSI sequences will render. Redirected output and non-file
// writers get plain text.
func colorCapable(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	h := windows.Handle(f.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}

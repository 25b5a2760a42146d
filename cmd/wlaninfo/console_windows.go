//go:build windows

package main

import "github.com/gonutz/w32"

// hideConsole hides the console window when this process owns it, so a
// scheduled silent run does not flash a window.
func hideConsole() {
	console := w32.GetConsoleWindow()
	if console == 0 {
		return
	}
	_, pid := w32.GetWindowThreadProcessId(console)
	if w32.GetCurrentProcessId() == pid {
		w32.ShowWindow(console, w32.SW_HIDE)
	}
}

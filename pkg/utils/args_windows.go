//go:build windows

package utils

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// CommandLineArgs returns the arguments after the program name, split by
// CommandLineToArgvW so quoted paths with spaces survive intact.
func CommandLineArgs() []string {
	cmdLinePtr := windows.GetCommandLine()
	if cmdLinePtr == nil {
		return os.Args[1:]
	}
	var argc int32
	argvPtr, err := windows.CommandLineToArgv(cmdLinePtr, &argc)
	if err != nil || argvPtr == nil || argc < 1 {
		return os.Args[1:]
	}
	defer windows.LocalFree(windows.Handle(uintptr(unsafe.Pointer(argvPtr))))

	argv := unsafe.Slice((**uint16)(unsafe.Pointer(argvPtr)), argc)
	args := make([]string, 0, argc-1)
	for _, p := range argv[1:] {
		if p != nil {
			args = append(args, windows.UTF16PtrToString(p))
		}
	}
	return args
}

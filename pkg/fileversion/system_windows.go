//go:build windows

package fileversion

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// System reads version resources through version.dll.
type System struct{}

// NewSystem returns the version.dll backed reader.
func NewSystem() Reader { return System{} }

// FileVersion prefers the StringFileInfo FileVersion of the first translation
// and falls back to the numeric VS_FIXEDFILEINFO version.
func (System) FileVersion(path string) (string, error) {
	var zero windows.Handle
	size, err := windows.GetFileVersionInfoSize(path, &zero)
	if err != nil || size == 0 {
		return "", fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	info := make([]byte, size)
	if err := windows.GetFileVersionInfo(path, 0, size, unsafe.Pointer(&info[0])); err != nil {
		return "", fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	block := unsafe.Pointer(&info[0])

	if s := stringFileVersion(block); s != "" {
		return s, nil
	}

	var fixed *windows.VS_FIXEDFILEINFO
	var fixedLen uint32
	if err := windows.VerQueryValue(block, `\`, unsafe.Pointer(&fixed), &fixedLen); err != nil || fixedLen == 0 || fixed == nil {
		return "", fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	return formatFixed(fixed.FileVersionMS, fixed.FileVersionLS), nil
}

func stringFileVersion(block unsafe.Pointer) string {
	type langCodePage struct {
		Language uint16
		CodePage uint16
	}
	var trans *langCodePage
	var transLen uint32
	if err := windows.VerQueryValue(block, `\VarFileInfo\Translation`, unsafe.Pointer(&trans), &transLen); err != nil || transLen < 4 || trans == nil {
		return ""
	}
	sub := fmt.Sprintf(`\StringFileInfo\%04x%04x\FileVersion`, trans.Language, trans.CodePage)

	var str *uint16
	var strLen uint32
	if err := windows.VerQueryValue(block, sub, unsafe.Pointer(&str), &strLen); err != nil || strLen == 0 || str == nil {
		return ""
	}
	return strings.TrimSpace(windows.UTF16PtrToString(str))
}

// pkg/winreg/winreg.go - read/write access to the Windows registry by string path.
//
// Callers name a hive and a backslash separated subkey path. Missing keys and
// values are reported with ErrNotExist instead of a platform specific error so
// that extraction code can treat them as an ordinary miss.

package winreg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotExist is returned when a key or value is absent.
var ErrNotExist = errors.New("registry key or value does not exist")

// Hive is one of the six predefined registry roots.
type Hive int

const (
	LocalMachine Hive = iota
	CurrentUser
	ClassesRoot
	Users
	PerformanceData
	CurrentConfig
)

func (h Hive) String() string {
	switch h {
	case LocalMachine:
		return "HKLM"
	case CurrentUser:
		return "HKCU"
	case ClassesRoot:
		return "HKCR"
	case Users:
		return "HKU"
	case PerformanceData:
		return "HKPD"
	case CurrentConfig:
		return "HKCC"
	default:
		return fmt.Sprintf("hive(%d)", int(h))
	}
}

// Accessor is the read-only view used by the evaluator and the inventory code.
type Accessor interface {
	// KeyExists reports whether the subkey can be opened for reading.
	KeyExists(hive Hive, path string) bool
	// GetString returns a value rendered as a string. DWORD/QWORD values are
	// rendered in decimal and multi-strings are joined with a space.
	GetString(hive Hive, path, name string) (string, error)
	// SubKeyNames lists the direct children of a key.
	SubKeyNames(hive Hive, path string) ([]string, error)
}

// Writer persists values, creating keys as needed.
type Writer interface {
	SetString(hive Hive, path, name, value string) error
	SetDWord(hive Hive, path, name string, value uint32) error
}

// ReadWriter is implemented by both the system registry and MemoryAccessor.
type ReadWriter interface {
	Accessor
	Writer
}

// JoinPath joins subkey path segments with single backslashes.
func JoinPath(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, `\`)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, `\`)
}

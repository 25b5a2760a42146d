// pkg/utils/paths.go - %NAME% expansion for paths and command lines taken
// from the check-item document.

package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows\CurrentVersion`

// ExpandPath replaces %NAME% references with environment variables looked up
// through getenv (os.Getenv when nil). References to unset variables are
// left as written, matching ExpandEnvironmentStrings.
func ExpandPath(path string, getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	return replaceDelimited(path, func(name string) (string, bool) {
		v := getenv(name)
		return v, v != ""
	})
}

// Resolver resolves the tool variables understood in the path and args2cmd
// fields of the check-item document.
type Resolver struct {
	Registry      winreg.Accessor
	Is64Bit       bool
	ToolPath      string // folder of the running executable
	PROSetVersion string
	CommandLine   string
	Getenv        func(string) string
}

// Resolve replaces every known %variable% (case-insensitive). Unknown
// variables are left untouched.
func (r *Resolver) Resolve(val string) string {
	if !strings.Contains(val, "%") {
		return val
	}
	return replaceDelimited(val, r.lookup)
}

func (r *Resolver) lookup(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "args":
		return r.CommandLine, true
	case "toolpath", "currentexefolder":
		return strings.TrimRight(r.ToolPath, `\/`), true
	case "prosetver":
		return r.PROSetVersion, true
	case "programfiles":
		return r.regDefault(currentVersionKey, "ProgramFilesDir", `C:\Program Files`), true
	case "programfiles32", "programfiles86":
		if r.Is64Bit {
			return r.regDefault(currentVersionKey, "ProgramFilesDir (x86)", `C:\Program Files (x86)`), true
		}
		return r.regDefault(currentVersionKey, "ProgramFilesDir", `C:\Program Files`), true
	case "windir", "systemroot":
		return r.regDefault(`SOFTWARE\Microsoft\Windows NT\CurrentVersion`, "SystemRoot", `C:\WINDOWS`), true
	case "systemdrive":
		getenv := r.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		return getenv("SystemDrive"), true
	}
	return "", false
}

func (r *Resolver) regDefault(path, name, def string) string {
	if r.Registry == nil {
		return def
	}
	if v, err := r.Registry.GetString(winreg.LocalMachine, path, name); err == nil && v != "" {
		return v
	}
	return def
}

// replaceDelimited walks s and substitutes each %name% pair for which lookup
// reports a value. Unpaired or unresolved markers are copied through.
func replaceDelimited(s string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	for {
		i := strings.IndexByte(s, '%')
		if i < 0 {
			b.WriteString(s)
			break
		}
		j := strings.IndexByte(s[i+1:], '%')
		if j < 0 {
			b.WriteString(s)
			break
		}
		j += i + 1
		name := s[i+1 : j]
		if v, ok := lookup(name); ok && name != "" {
			b.WriteString(s[:i])
			b.WriteString(v)
			s = s[j+1:]
			continue
		}
		// keep the first marker and retry from the second one
		b.WriteString(s[:j])
		s = s[j:]
	}
	return b.String()
}

// ExecutableDir returns the folder of the running executable.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

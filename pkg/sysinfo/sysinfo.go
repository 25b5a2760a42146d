// pkg/sysinfo/sysinfo.go - operating system facts the evaluator keys on.

package sysinfo

import (
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/windowsadmins/wlaninfo/pkg/logging"
	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

// CurrentVersionKey is where Windows records its version numbers.
const CurrentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

// Info describes the running system.
type Info struct {
	OSVersion string `yaml:"os_version"` // major.minor, e.g. "10.0"
	Is64Bit   bool   `yaml:"is_64bit"`
	Hostname  string `yaml:"hostname"`
}

// hostInfo is replaced in tests.
var hostInfo = host.Info

// Collect gathers Info. gopsutil is asked first; the registry fills in the
// OS version when the platform version cannot be parsed.
func Collect(reg winreg.Accessor) Info {
	var info Info

	hi, err := hostInfo()
	if err != nil {
		logging.Warn("Failed to read host information", "error", err)
	} else {
		info.Hostname = hi.Hostname
		info.OSVersion = majorMinor(hi.PlatformVersion)
		info.Is64Bit = strings.Contains(hi.KernelArch, "64")
	}

	if info.OSVersion == "" && reg != nil {
		info.OSVersion = registryVersion(reg)
	}
	if info.Hostname == "" {
		info.Hostname, _ = os.Hostname()
	}

	logging.Debug("System information collected",
		"os_version", info.OSVersion,
		"is_64bit", info.Is64Bit,
		"hostname", info.Hostname)
	return info
}

// majorMinor returns the first two numeric components of v.
// "10.0.22631.3880 Build 22631.3880" gives "10.0".
func majorMinor(v string) string {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return ""
	}
	parts := strings.Split(fields[0], ".")
	if len(parts) < 2 {
		return ""
	}
	for _, p := range parts[:2] {
		if _, err := strconv.Atoi(p); err != nil {
			return ""
		}
	}
	return parts[0] + "." + parts[1]
}

func registryVersion(reg winreg.Accessor) string {
	major, errMajor := reg.GetString(winreg.LocalMachine, CurrentVersionKey, "CurrentMajorVersionNumber")
	minor, errMinor := reg.GetString(winreg.LocalMachine, CurrentVersionKey, "CurrentMinorVersionNumber")
	if errMajor == nil && errMinor == nil {
		return major + "." + minor
	}
	v, err := reg.GetString(winreg.LocalMachine, CurrentVersionKey, "CurrentVersion")
	if err != nil {
		return ""
	}
	return v
}

// pkg/catalog/catalog.go - installed-application catalog built from the
// Uninstall registry keys.
//
// Each entry is rendered as "displayName|displayVersion|keyName". Keys without
// a DisplayName or DisplayVersion are skipped, and the catalog is kept sorted
// so that lookups scan entries in a stable order.

package catalog

import (
	"sort"
	"strings"

	"github.com/windowsadmins/wlaninfo/pkg/logging"
	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

// Uninstall key locations for native and 32-bit-on-64-bit applications.
const (
	UninstallPath      = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`
	UninstallWow64Path = `SOFTWARE\Wow6432Node\Microsoft\Windows\CurrentVersion\Uninstall`
)

// Entry is one installed application.
type Entry struct {
	DisplayName    string `yaml:"display_name"`
	DisplayVersion string `yaml:"display_version"`
	KeyName        string `yaml:"key_name"`
}

func (e Entry) String() string {
	return e.DisplayName + "|" + e.DisplayVersion + "|" + e.KeyName
}

// Catalog is a sorted, read-only list of installed applications.
type Catalog struct {
	entries []Entry
}

// New returns a catalog holding the given entries in sorted order.
func New(entries ...Entry) *Catalog {
	c := &Catalog{entries: append([]Entry(nil), entries...)}
	sort.SliceStable(c.entries, func(i, j int) bool {
		a, b := c.entries[i].String(), c.entries[j].String()
		if la, lb := strings.ToLower(a), strings.ToLower(b); la != lb {
			return la < lb
		}
		return a < b
	})
	return c
}

// Build enumerates the Uninstall keys under HKLM. The WOW64 view is added
// when includeWow64 is set, which callers do on 64-bit hosts.
func Build(reg winreg.Accessor, includeWow64 bool) *Catalog {
	paths := []string{UninstallPath}
	if includeWow64 {
		paths = append(paths, UninstallWow64Path)
	}

	var entries []Entry
	for _, root := range paths {
		subKeys, err := reg.SubKeyNames(winreg.LocalMachine, root)
		if err != nil {
			logging.Warn("Unable to read uninstall key", "path", root, "error", err)
			continue
		}
		for _, sub := range subKeys {
			keyPath := winreg.JoinPath(root, sub)
			name, _ := reg.GetString(winreg.LocalMachine, keyPath, "DisplayName")
			ver, _ := reg.GetString(winreg.LocalMachine, keyPath, "DisplayVersion")
			if name == "" || ver == "" {
				continue
			}
			entries = append(entries, Entry{DisplayName: name, DisplayVersion: ver, KeyName: sub})
		}
	}

	c := New(entries...)
	for _, e := range c.entries {
		logging.Debug("Installed application", "entry", e.String())
	}
	return c
}

// Entries returns a copy of the sorted entries.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Records returns the entries in their "name|version|key" form.
func (c *Catalog) Records() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.String()
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// FindLast scans every entry and returns the last one for which match is true.
func (c *Catalog) FindLast(match func(Entry) bool) (Entry, bool) {
	var found Entry
	ok := false
	for _, e := range c.entries {
		if match(e) {
			found, ok = e, true
		}
	}
	return found, ok
}

// NameHasSuffix reports whether the display name ends with suffix, ignoring case.
func NameHasSuffix(e Entry, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(e.DisplayName), strings.ToLower(suffix))
}

// PROSet display name suffixes. Older releases shipped the driver package
// under the second name.
const (
	PROSetSuffix        = "proset/wireless software"
	PROSetDriverSuffix  = "pro/wireless driver"
	PROSetParameterName = "PROSet/Wireless Software"
)

// PROSetVersion returns the version of the first PROSet/Wireless Software
// entry, else that of the first PRO/Wireless driver package, else "".
func (c *Catalog) PROSetVersion() string {
	driverPackage := ""
	for _, e := range c.entries {
		if NameHasSuffix(e, PROSetSuffix) {
			return e.DisplayVersion
		}
		if driverPackage == "" && NameHasSuffix(e, PROSetDriverSuffix) {
			driverPackage = e.DisplayVersion
		}
	}
	return driverPackage
}

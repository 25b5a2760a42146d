// pkg/device/device.go - wireless adapter discovery and PnP instance lookup.

package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/windowsadmins/wlaninfo/pkg/logging"
	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

// ClassKey holds one subkey per installed network adapter driver.
const ClassKey = `SYSTEM\CurrentControlSet\Control\Class\{4D36E972-E325-11CE-BFC1-08002BE10318}`

// IntelVendor marks a PCI device from Intel in a device instance id.
const IntelVendor = "VEN_8086"

// ErrNoAdapter is returned when no class subkey matches the adapter.
var ErrNoAdapter = errors.New("no wireless adapter detected")

// Adapter is a network interface as reported by the operating system.
type Adapter struct {
	Name        string // connection name, e.g. "Wi-Fi"
	Description string
	GUID        string
	PNPDeviceID string
	Wireless    bool
	Virtual     bool
}

// Lister enumerates the network adapters of the machine.
type Lister interface {
	Adapters() ([]Adapter, error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc func() ([]Adapter, error)

func (f ListerFunc) Adapters() ([]Adapter, error) { return f() }

// SelectWireless keeps the physical wireless adapters in order.
// Virtual adapters and bluetooth PAN adapters are dropped.
func SelectWireless(all []Adapter) []Adapter {
	var out []Adapter
	for _, a := range all {
		if !a.Wireless {
			continue
		}
		desc := strings.ToLower(a.Description)
		if a.Virtual || strings.Contains(desc, "virtual") || strings.Contains(desc, "bluetooth") {
			logging.Debug("Skipping virtual wireless adapter", "name", a.Name, "description", a.Description)
			continue
		}
		out = append(out, a)
	}
	return out
}

// Match is the class subkey bound to an adapter.
type Match struct {
	KeyName          string
	DeviceInstanceID string
}

// Intel reports whether the device instance id names an Intel device.
func (m Match) Intel() bool {
	return strings.Contains(strings.ToUpper(m.DeviceInstanceID), IntelVendor)
}

// Resolve finds the class subkey whose DriverDesc matches description and
// whose NetCfgInstanceId matches guid. Both comparisons ignore case, blanks
// and double quotes; a " #N" instance suffix on either description is dropped.
func Resolve(reg winreg.Accessor, description, guid string) (Match, error) {
	names, err := reg.SubKeyNames(winreg.LocalMachine, ClassKey)
	if err != nil {
		return Match{}, fmt.Errorf("reading network adapter class: %w", err)
	}

	want := normalize(stripInstance(description))
	wantGUID := normalize(guid)
	for _, name := range names {
		if strings.EqualFold(name, "Properties") {
			continue
		}
		key := winreg.JoinPath(ClassKey, name)
		desc, err := reg.GetString(winreg.LocalMachine, key, "DriverDesc")
		if err != nil || normalize(stripInstance(desc)) != want {
			continue
		}
		id, err := reg.GetString(winreg.LocalMachine, key, "NetCfgInstanceId")
		if err != nil || id == "" || normalize(id) != wantGUID {
			continue
		}
		instance, _ := reg.GetString(winreg.LocalMachine, key, "DeviceInstanceID")
		m := Match{KeyName: name, DeviceInstanceID: instance}
		logging.Debug("Matched adapter class key", "key", name, "device_instance_id", instance, "intel", m.Intel())
		return m, nil
	}
	return Match{}, ErrNoAdapter
}

func stripInstance(s string) string {
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, `"`, "")
}

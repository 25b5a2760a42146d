package checkitem

import (
	"fmt"
	"strings"
)

// UpdateRecord combines what was detected about the wireless adapter with the
// release information and check item bound from the configuration document.
// It lives for a single run; only its scalar fields are persisted.
type UpdateRecord struct {
	AdapterName                 string `yaml:"adapter_name"`
	DeviceID                    string `yaml:"device_id"`
	AppVersionFound             string `yaml:"app_version_found"`
	AppVersionCurrentRelease    string `yaml:"app_version_current_release"`
	DriverVersionFound          string `yaml:"driver_version_found"`
	DriverVersionCurrentRelease string `yaml:"driver_version_current_release,omitempty"`
	PathToInstaller             string `yaml:"path_to_installer,omitempty"`
	Installer                   string `yaml:"installer,omitempty"`
	CmdArguments                string `yaml:"cmd_arguments,omitempty"`
	PassThruPath                string `yaml:"pass_thru_path,omitempty"`

	CheckItem CheckItem `yaml:"-"`
}

// NewUpdateRecord returns a record for the detected adapter with an
// undetermined, unknown-kind check item.
func NewUpdateRecord(adapterName, deviceID, driverVersion string) *UpdateRecord {
	return &UpdateRecord{
		AdapterName:        adapterName,
		DeviceID:           deviceID,
		DriverVersionFound: driverVersion,
	}
}

// UpdateCommand joins the installer directory and file name the way the
// update task expects them.
func (r *UpdateRecord) UpdateCommand() string {
	if r.PathToInstaller == "" {
		return r.Installer
	}
	if r.Installer == "" {
		return r.PathToInstaller
	}
	return strings.TrimRight(r.PathToInstaller, `\`) + `\` + r.Installer
}

// Print renders the collected values for the console and the log.
func (r *UpdateRecord) Print() string {
	var b strings.Builder
	b.WriteString("Wireless LAN Info values collected:\r\n")
	b.WriteString("=========================================\r\n")
	fmt.Fprintf(&b, "\r\nAdapter Name: %s", r.AdapterName)
	fmt.Fprintf(&b, "\r\nDevice ID: %s", r.DeviceID)
	fmt.Fprintf(&b, "\r\nApp Version found: %s", r.AppVersionFound)
	fmt.Fprintf(&b, "\r\nApp Version Current release: %s", r.AppVersionCurrentRelease)
	fmt.Fprintf(&b, "\r\nDriver Version: %s", r.DriverVersionFound)
	if r.PathToInstaller != "" {
		fmt.Fprintf(&b, "\r\nUpdate path: %s", r.PathToInstaller)
	}
	return b.String()
}

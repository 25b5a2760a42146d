// pkg/netsh/report.go - parser for the "netsh wlan show drivers" report.

package netsh

import (
	"bufio"
	"strings"
)

// Report holds the fields of the driver report the inventory cares about.
type Report struct {
	InterfaceName string `yaml:"interface_name"`
	Adapter       string `yaml:"adapter"`
	DriverVersion string `yaml:"driver_version"`
	DriverFile    string `yaml:"driver_file"`
}

// Empty reports whether nothing was recognized in the output.
func (r Report) Empty() bool {
	return r.InterfaceName == "" && r.Adapter == "" && r.DriverVersion == "" && r.DriverFile == ""
}

// Parse scans the report line by line. The first occurrence of each field
// wins so that machines with several wireless interfaces report the first.
//
//	Interface name: Wi-Fi
//	    Driver                    : Intel(R) Wi-Fi 6 AX201 160MHz
//	    Version                   : 22.110.0.5
//	    Files                     : 1 total
//	                                C:\Windows\system32\DRIVERS\Netwtw10.sys
func Parse(output string) Report {
	var rep Report
	wantFile := false

	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if wantFile {
			wantFile = false
			if looksLikePath(line) || !strings.Contains(line, ":") {
				rep.DriverFile = line
				continue
			}
		}

		key, value, ok := splitField(line)
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(key, "Interface name"):
			setOnce(&rep.InterfaceName, value)
		case key == "Driver":
			setOnce(&rep.Adapter, value)
		case key == "Version":
			setOnce(&rep.DriverVersion, value)
		case key == "Files":
			wantFile = rep.DriverFile == ""
		}
	}
	return rep
}

func splitField(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

// looksLikePath matches drive-letter paths such as C:\Windows\...
func looksLikePath(line string) bool {
	return len(line) > 2 && line[1] == ':' && (line[2] == '\\' || line[2] == '/')
}

func setOnce(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

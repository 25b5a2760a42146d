// pkg/reporting/reporting.go - persists and prints the outcome of a run.
//
// The registry values under the results key are read by the update task and
// by inventory tooling, so their names and spellings are fixed.

package reporting

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
	"github.com/windowsadmins/wlaninfo/pkg/evaluator"
	"github.com/windowsadmins/wlaninfo/pkg/logging"
	"github.com/windowsadmins/wlaninfo/pkg/rollout"
	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

// LastRunLayout matches the RFC 1123 form written by earlier releases.
const LastRunLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

const (
	notApplicable = "not applicable"
	notInstalled  = "not installed"
)

// Inventory is what was detected on the machine, independent of the verdict.
type Inventory struct {
	Hostname         string `yaml:"hostname,omitempty"`
	OSVersion        string `yaml:"os_version,omitempty"`
	InterfaceName    string `yaml:"interface_name,omitempty"`
	Adapter          string `yaml:"wireless_adapter,omitempty"`
	DriverFile       string `yaml:"driver_file,omitempty"`
	DriverVersion    string `yaml:"driver_version,omitempty"`
	DeviceInstanceID string `yaml:"device_instance_id,omitempty"`
	PROSetVersion    string `yaml:"proset_version,omitempty"`
}

// Report bundles everything a run produced.
type Report struct {
	Inventory   Inventory
	Verdict     evaluator.Verdict
	Record      *checkitem.UpdateRecord
	Rollout     bool
	ToolVersion string
	RunTime     time.Time
}

// Persister writes a Report below Key in HKLM.
type Persister struct {
	Registry winreg.Writer
	Key      string
	// Resolve expands variables in the pass-through path. Optional.
	Resolve func(string) string
}

type valueWriter struct {
	w    winreg.Writer
	key  string
	errs []error
}

func (v *valueWriter) str(name, value string) {
	if err := v.w.SetString(winreg.LocalMachine, v.key, name, value); err != nil {
		v.errs = append(v.errs, fmt.Errorf("%s: %w", name, err))
	}
}

func (v *valueWriter) strIfSet(name, value string) {
	if value != "" {
		v.str(name, value)
	}
}

func (v *valueWriter) dword(name string, value uint32) {
	if err := v.w.SetDWord(winreg.LocalMachine, v.key, name, value); err != nil {
		v.errs = append(v.errs, fmt.Errorf("%s: %w", name, err))
	}
}

// Save writes the inventory, the verdict and the update instructions.
// A run that could not read its configuration document leaves the update
// values of the previous run untouched.
func (p *Persister) Save(r Report) error {
	v := &valueWriter{w: p.Registry, key: p.Key}
	inv := r.Inventory

	v.strIfSet("InterfaceName", inv.InterfaceName)
	v.strIfSet("WirelessAdapter", inv.Adapter)
	v.strIfSet("WirelessDriverFile", inv.DriverFile)
	v.strIfSet("WirelessDriverVersion", inv.DriverVersion)
	v.strIfSet("DeviceInstanceID", inv.DeviceInstanceID)
	if inv.PROSetVersion == "" {
		v.str("Current PROSet Version", notInstalled)
	} else {
		v.str("Current PROSet Version", inv.PROSetVersion)
	}

	v.str("Status", r.Verdict.String())
	v.str("GWInfoVer", r.ToolVersion)

	switch {
	case r.Verdict == evaluator.ConfigUnreadable:
		logging.Warn("Check-item document unreadable; update values left as they were", "key", p.Key)
		return p.finish(v)
	case r.Verdict == evaluator.NotApplicable || r.Record == nil:
		v.str("PassThruPath", notApplicable)
		v.str("UpdateCMD", notApplicable)
		v.str("UpdateCMDArgs", notApplicable)
		v.str("Current Available Version", notApplicable)
		v.str("isCurrent", r.Verdict.String())
		v.dword("VACRun", 0)
	default:
		rec := r.Record
		pass := rec.PassThruPath
		if p.Resolve != nil {
			pass = p.Resolve(pass)
		}
		v.str("PassThruPath", pass)
		v.str("UpdateCMD", rec.UpdateCommand())
		v.str("UpdateCMDArgs", rec.CmdArguments)
		v.str("Current Available Version", rec.AppVersionCurrentRelease)
		v.str("isCurrent", r.Verdict.String())
		v.dword("VACRun", rollout.DWord(r.Rollout))
	}

	runTime := r.RunTime
	if runTime.IsZero() {
		runTime = time.Now()
	}
	v.str("GWLastRun", runTime.UTC().Format(LastRunLayout))
	return p.finish(v)
}

func (p *Persister) finish(v *valueWriter) error {
	if len(v.errs) > 0 {
		err := errors.Join(v.errs...)
		logging.Error("Failed to save results to the registry", "key", p.Key, "error", err)
		return fmt.Errorf("saving results under %s: %w", p.Key, err)
	}
	logging.Debug("Results saved to the registry", "key", p.Key)
	return nil
}

// Text renders the report the way it is shown on the console.
func Text(r Report) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-27s: %s\r\n", label, value)
		}
	}
	inv := r.Inventory
	line("Interface Name", inv.InterfaceName)
	line("Wireless Adapter", inv.Adapter)
	line("Wireless Driver", inv.DriverFile)
	line("Wireless Driver Version", inv.DriverVersion)
	line("Device Instance ID", inv.DeviceInstanceID)
	if inv.PROSetVersion == "" {
		line("Current PROSet Version", notInstalled)
	} else {
		line("Current PROSet Version", inv.PROSetVersion)
	}
	line("Wireless LAN Client Status", r.Verdict.String())
	if r.Record != nil && r.Verdict != evaluator.NotApplicable {
		b.WriteString("\r\n")
		b.WriteString(r.Record.Print())
		b.WriteString("\r\n")
	}
	return b.String()
}

type yamlReport struct {
	Tool      string                  `yaml:"tool"`
	LastRun   string                  `yaml:"last_run"`
	Status    string                  `yaml:"status"`
	Rollout   bool                    `yaml:"rollout"`
	Inventory Inventory               `yaml:"inventory"`
	Record    *checkitem.UpdateRecord `yaml:"record,omitempty"`
}

// YAML renders the report as a YAML document.
func YAML(r Report) ([]byte, error) {
	out := yamlReport{
		Tool:      r.ToolVersion,
		LastRun:   r.RunTime.UTC().Format(time.RFC3339),
		Status:    r.Verdict.String(),
		Rollout:   r.Rollout,
		Inventory: r.Inventory,
		Record:    r.Record,
	}
	return yaml.Marshal(out)
}

// Write prints the report to w in the given format ("text" or "yaml").
func Write(w io.Writer, r Report, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		_, err := io.WriteString(w, Text(r))
		return err
	case "yaml":
		data, err := YAML(r)
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

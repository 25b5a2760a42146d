// pkg/extract/extract.go - reads the "found" value a check item points at.
//
// Value reports a lookup that came up empty as a *MissError; Extract turns
// misses (and anything that panics underneath) into the check item's
// textIfFalse so that evaluation always continues.

package extract

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/windowsadmins/wlaninfo/pkg/catalog"
	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
	"github.com/windowsadmins/wlaninfo/pkg/fileversion"
	"github.com/windowsadmins/wlaninfo/pkg/logging"
	"github.com/windowsadmins/wlaninfo/pkg/utils"
	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

// Registry locations walked by the driver-version lookup.
const (
	EnumPath  = `SYSTEM\CurrentControlSet\Enum`
	ClassPath = `SYSTEM\CurrentControlSet\Control\Class`
)

// ErrMiss matches every *MissError.
var ErrMiss = errors.New("value not found")

// MissError describes a source lookup that found nothing.
type MissError struct {
	Kind   checkitem.Kind
	Source string // registry path, file path or catalog suffix
	Err    error
}

func (e *MissError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: nothing found at %s: %v", e.Kind, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: nothing found at %s", e.Kind, e.Source)
}

func (e *MissError) Unwrap() error { return e.Err }

func (e *MissError) Is(target error) bool { return target == ErrMiss }

func miss(k checkitem.Kind, source string, err error) error {
	return &MissError{Kind: k, Source: source, Err: err}
}

// Sources are the collaborators the extractor reads from.
type Sources struct {
	Registry   winreg.Accessor
	Files      fileversion.Reader
	Catalog    *catalog.Catalog
	Getenv     func(string) string // used by expand_path; os.Getenv when nil
	FileExists func(string) bool   // regular file check; os.Stat when nil
}

// Extractor dispatches on the check item's kind.
type Extractor struct {
	src Sources
}

// New returns an Extractor reading from src.
func New(src Sources) *Extractor {
	if src.FileExists == nil {
		src.FileExists = fileExists
	}
	if src.Getenv == nil {
		src.Getenv = os.Getenv
	}
	return &Extractor{src: src}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Extract returns the found value for rec's check item, substituting
// TextIfFalse for misses and recovered panics.
func (x *Extractor) Extract(rec *checkitem.UpdateRecord) (value string) {
	item := rec.CheckItem
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Extraction panicked", "kind", item.Kind, "panic", r, "stack", string(debug.Stack()))
			value = item.TextIfFalse
		}
	}()

	v, err := x.Value(rec)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			logging.Info("Check item value not found", "kind", item.Kind, "error", err)
		} else {
			logging.Warn("Check item extraction failed", "kind", item.Kind, "error", err)
		}
		return item.TextIfFalse
	}
	logging.Debug("Check item value found", "kind", item.Kind, "value", v)
	return v
}

// Value returns the raw found value or a *MissError. Kinds without an
// extraction strategy yield "" and no error.
func (x *Extractor) Value(rec *checkitem.UpdateRecord) (string, error) {
	item := &rec.CheckItem
	switch item.Kind {
	case checkitem.KindRegistryValue:
		return x.registryValue(item)
	case checkitem.KindRegistryKey:
		return x.registryKey(item)
	case checkitem.KindFileVersion:
		return x.fileVersion(item)
	case checkitem.KindAppVersion:
		return x.appVersion(item)
	case checkitem.KindDriverVersion:
		return x.driverVersion(item, rec.DeviceID)
	case checkitem.KindWLANDriverVersion:
		if rec.DriverVersionFound == "" {
			return "", miss(item.Kind, "netsh driver report", nil)
		}
		return rec.DriverVersionFound, nil
	default:
		return "", nil
	}
}

// HiveFor maps a registry provider to its root; the default provider means HKLM.
func HiveFor(p checkitem.Provider) winreg.Hive {
	switch p {
	case checkitem.ProviderHKCU:
		return winreg.CurrentUser
	case checkitem.ProviderHKCR:
		return winreg.ClassesRoot
	case checkitem.ProviderHKU:
		return winreg.Users
	case checkitem.ProviderHKPD:
		return winreg.PerformanceData
	case checkitem.ProviderHKCC:
		return winreg.CurrentConfig
	default:
		return winreg.LocalMachine
	}
}

func (x *Extractor) registryValue(item *checkitem.CheckItem) (string, error) {
	hive := HiveFor(item.Provider)
	v, err := x.src.Registry.GetString(hive, item.Parameter, item.Property)
	if err != nil {
		return "", miss(item.Kind, fmt.Sprintf(`%s\%s\%s`, hive, item.Parameter, item.Property), err)
	}
	return v, nil
}

func (x *Extractor) registryKey(item *checkitem.CheckItem) (string, error) {
	hive := HiveFor(item.Provider)
	if !x.src.Registry.KeyExists(hive, item.Parameter) {
		return "", miss(item.Kind, fmt.Sprintf(`%s\%s`, hive, item.Parameter), winreg.ErrNotExist)
	}
	return item.TextIfTrue, nil
}

func (x *Extractor) fileVersion(item *checkitem.CheckItem) (string, error) {
	var file string
	switch item.Provider {
	case checkitem.ProviderHKLM, checkitem.ProviderHKCU:
		hive := HiveFor(item.Provider)
		p, err := x.src.Registry.GetString(hive, item.Parameter, item.Property)
		if err != nil {
			return "", miss(item.Kind, fmt.Sprintf(`%s\%s\%s`, hive, item.Parameter, item.Property), err)
		}
		file = p
	case checkitem.ProviderPath:
		file = x.pickFile(item.Parameter, item.Property)
	case checkitem.ProviderExpandPath:
		file = x.pickFile(utils.ExpandPath(item.Parameter, x.src.Getenv), item.Property)
	default:
		return "", miss(item.Kind, item.Parameter, fmt.Errorf("provider %s cannot locate a file", item.Provider))
	}

	if file == "" || !x.src.FileExists(file) {
		return "", miss(item.Kind, item.Parameter, os.ErrNotExist)
	}
	logging.Info("Checking file version", "file", file)
	v, err := x.src.Files.FileVersion(file)
	if err != nil || v == "" {
		return "", miss(item.Kind, file, err)
	}
	return v, nil
}

// pickFile returns dir when it names an existing file, else dir\name when
// that exists, else "".
func (x *Extractor) pickFile(dir, name string) string {
	if x.src.FileExists(dir) {
		return dir
	}
	if name != "" {
		joined := strings.TrimRight(dir, `\`) + `\` + name
		if x.src.FileExists(joined) {
			return joined
		}
	}
	return ""
}

func (x *Extractor) appVersion(item *checkitem.CheckItem) (string, error) {
	if x.src.Catalog == nil || item.Parameter == "" {
		return "", miss(item.Kind, item.Parameter, nil)
	}
	proSetAlias := item.Provider == checkitem.ProviderAppNameSubstring &&
		strings.EqualFold(item.Parameter, catalog.PROSetParameterName)

	entry, ok := x.src.Catalog.FindLast(func(e catalog.Entry) bool {
		if proSetAlias && catalog.NameHasSuffix(e, catalog.PROSetDriverSuffix) {
			return true
		}
		return catalog.NameHasSuffix(e, item.Parameter)
	})
	if !ok {
		return "", miss(item.Kind, item.Parameter, nil)
	}
	logging.Debug("Installed application matched", "entry", entry.String(), "suffix", item.Parameter)

	switch strings.ToLower(strings.TrimSpace(item.Property)) {
	case "":
		return item.TextIfTrue, nil
	case "version":
		if entry.DisplayVersion == "" {
			return "", miss(item.Kind, entry.String(), nil)
		}
		return entry.DisplayVersion, nil
	case "guid":
		if entry.KeyName == "" {
			return "", miss(item.Kind, entry.String(), nil)
		}
		return entry.KeyName, nil
	default:
		return "", miss(item.Kind, entry.String(), fmt.Errorf("unsupported property %q", item.Property))
	}
}

func (x *Extractor) driverVersion(item *checkitem.CheckItem, deviceID string) (string, error) {
	if deviceID == "" {
		return "", miss(item.Kind, EnumPath, errors.New("no device instance id"))
	}
	devicePath := winreg.JoinPath(EnumPath, deviceID)
	link, err := x.src.Registry.GetString(winreg.LocalMachine, devicePath, item.Parameter)
	if err != nil || link == "" {
		return "", miss(item.Kind, devicePath+`\`+item.Parameter, err)
	}
	classPath := winreg.JoinPath(ClassPath, link)
	v, err := x.src.Registry.GetString(winreg.LocalMachine, classPath, item.Property)
	if err != nil {
		return "", miss(item.Kind, classPath+`\`+item.Property, err)
	}
	return v, nil
}

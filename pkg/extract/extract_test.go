package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windowsadmins/wlaninfo/pkg/catalog"
	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
	"github.com/windowsadmins/wlaninfo/pkg/fileversion"
	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

type fakeFS map[string]string // path -> file version

func (f fakeFS) exists(path string) bool {
	_, ok := f[path]
	return ok
}

func (f fakeFS) FileVersion(path string) (string, error) {
	if v, ok := f[path]; ok && v != "" {
		return v, nil
	}
	return "", fileversion.ErrNoVersion
}

func newExtractor(t *testing.T, reg *winreg.MemoryAccessor, files fakeFS, cat *catalog.Catalog) *Extractor {
	t.Helper()
	return New(Sources{
		Registry:   reg,
		Files:      files,
		Catalog:    cat,
		FileExists: files.exists,
		Getenv: func(k string) string {
			if k == "ProgramFiles" {
				return `C:\Program Files`
			}
			return ""
		},
	})
}

func record(item checkitem.CheckItem) *checkitem.UpdateRecord {
	rec := checkitem.NewUpdateRecord("Intel(R) Wi-Fi 6 AX201 160MHz", `PCI\VEN_8086&DEV_A0F0\3&11583659&0&A3`, "22.120.0.3")
	item.TextIfTrue = "installed"
	item.TextIfFalse = "0.0"
	rec.CheckItem = item
	return rec
}

func TestExtract_RegistryValue(t *testing.T) {
	reg := winreg.NewMemoryAccessor()
	require.NoError(t, reg.SetString(winreg.CurrentUser, `Software\Intel\WLAN`, "Version", "15.3.1"))
	x := newExtractor(t, reg, fakeFS{}, nil)

	rec := record(checkitem.CheckItem{Kind: checkitem.KindRegistryValue, Provider: checkitem.ProviderHKCU, Parameter: `Software\Intel\WLAN`, Property: "Version"})
	assert.Equal(t, "15.3.1", x.Extract(rec))

	rec.CheckItem.Provider = checkitem.ProviderDefault // HKLM
	assert.Equal(t, "0.0", x.Extract(rec))

	_, err := x.Value(rec)
	var me *MissError
	require.ErrorAs(t, err, &me)
	assert.ErrorIs(t, err, ErrMiss)
	assert.ErrorIs(t, err, winreg.ErrNotExist)
	assert.Equal(t, checkitem.KindRegistryValue, me.Kind)
}

func TestExtract_RegistryKeyPresence(t *testing.T) {
	reg := winreg.NewMemoryAccessor()
	reg.CreateKey(winreg.LocalMachine, `SOFTWARE\Intel\Wireless`)
	x := newExtractor(t, reg, fakeFS{}, nil)

	rec := record(checkitem.CheckItem{Kind: checkitem.KindRegistryKey, Parameter: `SOFTWARE\Intel\Wireless`, Property: "ignored"})
	assert.Equal(t, "installed", x.Extract(rec))

	rec.CheckItem.Parameter = `SOFTWARE\Intel\Missing`
	assert.Equal(t, "0.0", x.Extract(rec))
}

func TestExtract_FileVersion(t *testing.T) {
	reg := winreg.NewMemoryAccessor()
	require.NoError(t, reg.SetString(winreg.LocalMachine, `SOFTWARE\Intel\WLAN`, "Driver", `C:\Windows\System32\drivers\Netwtw10.sys`))
	files := fakeFS{
		`C:\Windows\System32\drivers\Netwtw10.sys`:        "22.120.0.3",
		`C:\Program Files\Intel\WiFi\bin\EvtEng.exe`:      "22.110.0.5",
		`C:\Program Files\Intel\WiFi\bin\Unversioned.exe`: "",
	}
	x := newExtractor(t, reg, files, nil)

	tests := []struct {
		name string
		item checkitem.CheckItem
		want string
	}{
		{"registry names the file", checkitem.CheckItem{Provider: checkitem.ProviderHKLM, Parameter: `SOFTWARE\Intel\WLAN`, Property: "Driver"}, "22.120.0.3"},
		{"registry value missing", checkitem.CheckItem{Provider: checkitem.ProviderHKCU, Parameter: `SOFTWARE\Intel\WLAN`, Property: "Driver"}, "0.0"},
		{"literal path", checkitem.CheckItem{Provider: checkitem.ProviderPath, Parameter: `C:\Program Files\Intel\WiFi\bin\EvtEng.exe`}, "22.110.0.5"},
		{"literal folder plus name", checkitem.CheckItem{Provider: checkitem.ProviderPath, Parameter: `C:\Program Files\Intel\WiFi\bin\`, Property: "EvtEng.exe"}, "22.110.0.5"},
		{"expanded folder plus name", checkitem.CheckItem{Provider: checkitem.ProviderExpandPath, Parameter: `%ProgramFiles%\Intel\WiFi\bin`, Property: "EvtEng.exe"}, "22.110.0.5"},
		{"missing file", checkitem.CheckItem{Provider: checkitem.ProviderPath, Parameter: `C:\nope\missing.exe`}, "0.0"},
		{"no version resource", checkitem.CheckItem{Provider: checkitem.ProviderPath, Parameter: `C:\Program Files\Intel\WiFi\bin\Unversioned.exe`}, "0.0"},
		{"provider without a file strategy", checkitem.CheckItem{Provider: checkitem.ProviderDefault, Parameter: `C:\Program Files\Intel\WiFi\bin\EvtEng.exe`}, "0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.item.Kind = checkitem.KindFileVersion
			assert.Equal(t, tt.want, x.Extract(record(tt.item)))
		})
	}
}

func TestExtract_AppVersion(t *testing.T) {
	cat := catalog.New(
		catalog.Entry{DisplayName: "Intel(R) PRO/Wireless Driver", DisplayVersion: "15.1.0", KeyName: "{DRV}"},
		catalog.Entry{DisplayName: "Intel(R) PROSet/Wireless Software", DisplayVersion: "22.120.0.3", KeyName: "{PROSET}"},
		catalog.Entry{DisplayName: "Intel(R) Wireless Bluetooth(R)", DisplayVersion: "22.120.0.4", KeyName: "{BT}"},
	)
	x := newExtractor(t, winreg.NewMemoryAccessor(), fakeFS{}, cat)

	tests := []struct {
		name string
		item checkitem.CheckItem
		want string
	}{
		{"version by suffix", checkitem.CheckItem{Parameter: "wireless bluetooth(r)", Property: "version"}, "22.120.0.4"},
		{"guid returns key name", checkitem.CheckItem{Parameter: "Wireless Bluetooth(R)", Property: "GUID"}, "{BT}"},
		{"no property just checks installed", checkitem.CheckItem{Parameter: "Wireless Bluetooth(R)"}, "installed"},
		{"not installed", checkitem.CheckItem{Parameter: "Killer Performance Suite", Property: "version"}, "0.0"},
		{"unknown property", checkitem.CheckItem{Parameter: "Wireless Bluetooth(R)", Property: "publisher"}, "0.0"},
		// sorted order puts the PROSet entry after the driver package, so it wins
		{"proset alias", checkitem.CheckItem{Provider: checkitem.ProviderAppNameSubstring, Parameter: "PROSet/Wireless Software", Property: "version"}, "22.120.0.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.item.Kind = checkitem.KindAppVersion
			assert.Equal(t, tt.want, x.Extract(record(tt.item)))
		})
	}
}

func TestExtract_AppVersion_PROSetAliasMatchesDriverPackage(t *testing.T) {
	cat := catalog.New(catalog.Entry{DisplayName: "Intel(R) PRO/Wireless Driver", DisplayVersion: "15.1.0", KeyName: "{DRV}"})
	x := newExtractor(t, winreg.NewMemoryAccessor(), fakeFS{}, cat)

	item := checkitem.CheckItem{Kind: checkitem.KindAppVersion, Provider: checkitem.ProviderAppNameSubstring, Parameter: "PROSet/Wireless Software", Property: "version"}
	assert.Equal(t, "15.1.0", x.Extract(record(item)))

	item.Provider = checkitem.ProviderDefault
	assert.Equal(t, "0.0", x.Extract(record(item)))
}

func TestExtract_DriverVersion(t *testing.T) {
	reg := winreg.NewMemoryAccessor()
	deviceID := `PCI\VEN_8086&DEV_A0F0\3&11583659&0&A3`
	require.NoError(t, reg.SetString(winreg.LocalMachine, EnumPath+`\`+deviceID, "Driver", `{4d36e972-e325-11ce-bfc1-08002be10318}\0001`))
	require.NoError(t, reg.SetString(winreg.LocalMachine, ClassPath+`\{4d36e972-e325-11ce-bfc1-08002be10318}\0001`, "DriverVersion", "22.120.0.3"))
	x := newExtractor(t, reg, fakeFS{}, nil)

	item := checkitem.CheckItem{Kind: checkitem.KindDriverVersion, Provider: checkitem.ProviderDeviceID, Parameter: "Driver", Property: "DriverVersion"}
	rec := record(item)
	rec.DeviceID = deviceID
	assert.Equal(t, "22.120.0.3", x.Extract(rec))

	rec.CheckItem.Property = "ProviderName"
	assert.Equal(t, "0.0", x.Extract(rec))

	rec.DeviceID = ""
	_, err := x.Value(rec)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestExtract_WLANDriverVersion(t *testing.T) {
	x := newExtractor(t, winreg.NewMemoryAccessor(), fakeFS{}, nil)
	rec := record(checkitem.CheckItem{Kind: checkitem.KindWLANDriverVersion})
	assert.Equal(t, "22.120.0.3", x.Extract(rec))

	rec.DriverVersionFound = ""
	assert.Equal(t, "0.0", x.Extract(rec))
}

func TestExtract_InertKinds(t *testing.T) {
	x := newExtractor(t, winreg.NewMemoryAccessor(), fakeFS{}, nil)
	for _, k := range []checkitem.Kind{checkitem.KindUnknown, checkitem.KindWMI, checkitem.KindService, checkitem.KindExactCopy} {
		v, err := x.Value(record(checkitem.CheckItem{Kind: k}))
		assert.NoError(t, err)
		assert.Empty(t, v)
	}
}

func TestExtract_RecoversFromPanics(t *testing.T) {
	x := New(Sources{Files: fileversion.ReaderFunc(func(string) (string, error) {
		panic("version.dll exploded")
	}), FileExists: func(string) bool { return true }})

	rec := record(checkitem.CheckItem{Kind: checkitem.KindFileVersion, Provider: checkitem.ProviderPath, Parameter: `C:\x.exe`})
	assert.Equal(t, "0.0", x.Extract(rec))

	// nil registry
	rec = record(checkitem.CheckItem{Kind: checkitem.KindRegistryValue, Parameter: `SOFTWARE\x`, Property: "v"})
	assert.Equal(t, "0.0", x.Extract(rec))
}

func TestMissError(t *testing.T) {
	err := miss(checkitem.KindAppVersion, "proset", nil)
	assert.True(t, errors.Is(err, ErrMiss))
	assert.Contains(t, err.Error(), "proset")
}

func TestHiveFor(t *testing.T) {
	assert.Equal(t, winreg.LocalMachine, HiveFor(checkitem.ProviderDefault))
	assert.Equal(t, winreg.LocalMachine, HiveFor(checkitem.ProviderHKLM))
	assert.Equal(t, winreg.Users, HiveFor(checkitem.ProviderHKU))
	assert.Equal(t, winreg.CurrentConfig, HiveFor(checkitem.ProviderHKCC))
}

package evaluator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windowsadmins/wlaninfo/pkg/catalog"
	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
	"github.com/windowsadmins/wlaninfo/pkg/extract"
	"github.com/windowsadmins/wlaninfo/pkg/fileversion"
	"github.com/windowsadmins/wlaninfo/pkg/selector"
	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

const ax201 = "Intel(R) Wi-Fi 6 AX201 160MHz"

const appVerDoc = `<wlan>
  <adapter>
    <name>intel(r) wi-fi 6 ax201 160mhz</name>
    <os ver="10.0">
      <AppVersionCurrentRelease>22.110.0.5</AppVersionCurrentRelease>
      <chktype>app_ver</chktype>
      <provider>appnamesubstring</provider>
      <parameter>PROSet/Wireless Software</parameter>
      <property>version</property>
      <operator>greater_then_or_equal</operator>
      <textIfFalse>0.0</textIfFalse>
    </os>
  </adapter>
</wlan>`

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "WLANInfoConfig.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newEvaluator(proSetVersion string) *Evaluator {
	cat := catalog.New(catalog.Entry{
		DisplayName:    "Intel(R) PROSet/Wireless Software",
		DisplayVersion: proSetVersion,
		KeyName:        "{PROSET}",
	})
	return &Evaluator{Extractor: extract.New(extract.Sources{
		Registry:   winreg.NewMemoryAccessor(),
		Files:      fileversion.ReaderFunc(func(string) (string, error) { return "", fileversion.ErrNoVersion }),
		Catalog:    cat,
		FileExists: func(string) bool { return false },
	})}
}

func runContext(doc string) RunContext {
	return RunContext{AdapterName: ax201, DeviceID: `PCI\VEN_8086&DEV_A0F0`, OSVersion: "10.0", DocumentPath: doc}
}

func TestEvaluate_NoAdapterIsNotApplicable(t *testing.T) {
	e := newEvaluator("22.120.0.3")
	e.LoadDocument = func(string) (*selector.Document, error) {
		t.Fatal("document must not be loaded")
		return nil, nil
	}
	for _, name := range []string{"", "  ", "unknown", "Unknown"} {
		rc := runContext("unused")
		rc.AdapterName = name
		res := e.Evaluate(rc)
		assert.Equal(t, NotApplicable, res.Verdict, name)
		assert.Equal(t, checkitem.KindUnknown, res.Record.CheckItem.Kind)
		assert.Empty(t, res.Record.AppVersionFound)
		assert.Empty(t, res.Record.AppVersionCurrentRelease)
	}
}

func TestEvaluate_MissingDocumentIsConfigUnreadable(t *testing.T) {
	res := newEvaluator("22.120.0.3").Evaluate(runContext(filepath.Join(t.TempDir(), "absent.xml")))
	assert.Equal(t, ConfigUnreadable, res.Verdict)
	assert.ErrorIs(t, res.Err, selector.ErrConfigUnreadable)
}

func TestEvaluate_InvalidRuleIsConfigUnreadable(t *testing.T) {
	doc := writeDoc(t, strings.Replace(appVerDoc, "greater_then_or_equal", "roughly", 1))
	res := newEvaluator("22.120.0.3").Evaluate(runContext(doc))
	assert.Equal(t, ConfigUnreadable, res.Verdict)
}

func TestEvaluate_CurrentAndUpdateAvailable(t *testing.T) {
	doc := writeDoc(t, appVerDoc)

	res := newEvaluator("22.120.0.3").Evaluate(runContext(doc))
	assert.Equal(t, Current, res.Verdict)
	assert.Equal(t, "22.120.0.3", res.Record.AppVersionFound)
	assert.Equal(t, "22.110.0.5", res.Record.AppVersionCurrentRelease)
	assert.Equal(t, checkitem.StatusCurrent, res.Record.CheckItem.Status)
	assert.Equal(t, 1, res.Matches)

	res = newEvaluator("21.10.0.1").Evaluate(runContext(doc))
	assert.Equal(t, UpdateAvailable, res.Verdict)
	assert.Equal(t, checkitem.StatusNotCurrent, res.Record.CheckItem.Status)
}

func TestEvaluate_AdapterInstanceSuffixIsIgnored(t *testing.T) {
	rc := runContext(writeDoc(t, appVerDoc))
	rc.AdapterName = ax201 + " #2"
	assert.Equal(t, Current, newEvaluator("22.120.0.3").Evaluate(rc).Verdict)
}

func TestEvaluate_NoMatchingNodeStaysUnknown(t *testing.T) {
	rc := runContext(writeDoc(t, appVerDoc))
	rc.OSVersion = "6.1"
	res := newEvaluator("22.120.0.3").Evaluate(rc)
	assert.Equal(t, Unknown, res.Verdict)
	assert.NoError(t, res.Err)
	assert.Equal(t, ax201, res.Record.AdapterName)
	assert.Zero(t, res.Matches)
}

func TestEvaluate_MissingFileFallsBackToTextIfFalse(t *testing.T) {
	doc := writeDoc(t, `<wlan><adapter><name>`+ax201+`</name><os ver="10.0">
      <AppVersionCurrentRelease>not installed</AppVersionCurrentRelease>
      <chktype>file_ver</chktype>
      <provider>path</provider>
      <parameter>C:\Program Files\Intel\WiFi\bin\missing.exe</parameter>
      <textIfFalse>NOT INSTALLED</textIfFalse>
    </os></adapter></wlan>`)

	res := newEvaluator("22.120.0.3").Evaluate(runContext(doc))
	assert.Equal(t, Current, res.Verdict, "string equality is case-insensitive")
	assert.Equal(t, "NOT INSTALLED", res.Record.AppVersionFound)
}

func TestEvaluate_SlicesBeforeComparing(t *testing.T) {
	doc := writeDoc(t, strings.Replace(appVerDoc, "<textIfFalse>", "<left>6</left><textIfFalse>", 1))
	res := newEvaluator("22.120.0.3").Evaluate(runContext(doc))
	assert.Equal(t, "22.120", res.Sliced)
	assert.Equal(t, Current, res.Verdict)
}

func TestEvaluate_ResolvesDeliveryFields(t *testing.T) {
	doc := writeDoc(t, strings.Replace(appVerDoc, "<textIfFalse>",
		"<path>%toolpath%\\pkg</path><args2cmd>/v %prosetver%</args2cmd><textIfFalse>", 1))
	e := newEvaluator("22.120.0.3")
	e.Resolve = func(rec *checkitem.UpdateRecord, s string) string {
		s = strings.ReplaceAll(s, "%toolpath%", `C:\Tools`)
		return strings.ReplaceAll(s, "%prosetver%", rec.AppVersionCurrentRelease)
	}
	res := e.Evaluate(runContext(doc))
	assert.Equal(t, `C:\Tools\pkg`, res.Record.PathToInstaller)
	assert.Equal(t, "/v 22.110.0.5", res.Record.CmdArguments)
}

type panickyExtractor struct{}

func (panickyExtractor) Extract(*checkitem.UpdateRecord) string { panic("boom") }

func TestEvaluate_PanicCollapsesToUnknown(t *testing.T) {
	e := &Evaluator{Extractor: panickyExtractor{}}
	res := e.Evaluate(runContext(writeDoc(t, appVerDoc)))
	assert.Equal(t, Unknown, res.Verdict)
	assert.Error(t, res.Err)
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	doc := writeDoc(t, appVerDoc)
	e := newEvaluator("21.10.0.1")
	first := e.Evaluate(runContext(doc))
	for i := 0; i < 5; i++ {
		again := e.Evaluate(runContext(doc))
		assert.Equal(t, first.Verdict, again.Verdict)
		assert.Equal(t, first.Record, again.Record)
	}
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "CURRENT", Current.String())
	assert.Equal(t, "UPDATE_AVAILABLE", UpdateAvailable.String())
	assert.Equal(t, "NOT_APPLICABLE", NotApplicable.String())
	assert.Equal(t, "CANNOT_READ_XML_CONFIG", ConfigUnreadable.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
}

// pkg/selector/selector.go - loads the check-item document and picks the rule
// for the detected adapter and OS version.
//
// The document looks like:
//
//	<wlan>
//	  <adapter>
//	    <name>intel(r) wi-fi 6 ax201 160mhz</name>
//	    <os ver="10.0">
//	      <AppVersionCurrentRelease>22.110.0.5</AppVersionCurrentRelease>
//	      <chktype>app_ver</chktype>
//	      <provider>appnamesubstring</provider>
//	      ...
//	    </os>
//	  </adapter>
//	</wlan>
//
// Every leaf under os is optional. When several os nodes match, they are
// applied in document order and the last occurrence of each field wins.

package selector

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
	"github.com/windowsadmins/wlaninfo/pkg/logging"
)

// ErrConfigUnreadable is wrapped by every error that should end evaluation
// with the config-unreadable verdict.
var ErrConfigUnreadable = errors.New("configuration document cannot be read")

type document struct {
	XMLName  xml.Name
	Adapters []adapterNode `xml:"adapter"`
}

type adapterNode struct {
	Name string   `xml:"name"`
	OS   []osNode `xml:"os"`
}

type osNode struct {
	Ver string `xml:"ver,attr"`
	Rule
}

// Rule holds the leaves of one os node. A nil field means the tag was absent.
type Rule struct {
	AppVersionCurrentRelease *string `xml:"AppVersionCurrentRelease"`
	Provider                 *string `xml:"provider"`
	Parameter                *string `xml:"parameter"`
	Property                 *string `xml:"property"`
	ChkType                  *string `xml:"chktype"`
	Left                     *string `xml:"left"`
	Right                    *string `xml:"right"`
	Operator                 *string `xml:"operator"`
	CompareTo                *string `xml:"CompareTo"`
	TextIfTrue               *string `xml:"textIfTrue"`
	TextIfFalse              *string `xml:"textIfFalse"`
	Path                     *string `xml:"path"`
	Cmd2Run                  *string `xml:"cmd2run"`
	Args2Cmd                 *string `xml:"args2cmd"`
	PassThruPath             *string `xml:"passthrupath"`
}

// Document is a parsed check-item document.
type Document struct {
	doc document
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnreadable, err)
	}
	defer f.Close()

	h := sha256.New()
	d, err := Parse(io.TeeReader(f, h))
	if err != nil {
		return nil, err
	}
	logging.Debug("Check-item document loaded", "path", path, "sha256", hex.EncodeToString(h.Sum(nil)))
	return d, nil
}

// Parse reads a document from r.
func Parse(r io.Reader) (*Document, error) {
	var d Document
	if err := xml.NewDecoder(r).Decode(&d.doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnreadable, err)
	}
	return &d, nil
}

// CleanAdapterName drops the " #N" suffix Windows appends to the description
// of the second and later instances of the same adapter model.
func CleanAdapterName(name string) string {
	if i := strings.Index(name, " #"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}

// Select merges every os node under a matching adapter whose ver attribute
// equals osVersion. It returns the merged rule and the number of nodes that
// matched; zero matches is not an error.
func (d *Document) Select(adapterName, osVersion string) (Rule, int) {
	want := CleanAdapterName(adapterName)
	var merged Rule
	matches := 0
	for _, a := range d.doc.Adapters {
		if !strings.EqualFold(CleanAdapterName(a.Name), want) {
			continue
		}
		for _, node := range a.OS {
			if node.Ver != osVersion {
				continue
			}
			matches++
			merged.merge(node.Rule)
		}
	}
	if matches > 1 {
		logging.Warn("Several check-item nodes match, last value of each field wins",
			"adapter", want, "os", osVersion, "matches", matches)
	}
	return merged, matches
}

func (r *Rule) merge(o Rule) {
	set := func(dst **string, src *string) {
		if src != nil {
			*dst = src
		}
	}
	set(&r.AppVersionCurrentRelease, o.AppVersionCurrentRelease)
	set(&r.Provider, o.Provider)
	set(&r.Parameter, o.Parameter)
	set(&r.Property, o.Property)
	set(&r.ChkType, o.ChkType)
	set(&r.Left, o.Left)
	set(&r.Right, o.Right)
	set(&r.Operator, o.Operator)
	set(&r.CompareTo, o.CompareTo)
	set(&r.TextIfTrue, o.TextIfTrue)
	set(&r.TextIfFalse, o.TextIfFalse)
	set(&r.Path, o.Path)
	set(&r.Cmd2Run, o.Cmd2Run)
	set(&r.Args2Cmd, o.Args2Cmd)
	set(&r.PassThruPath, o.PassThruPath)
}

// CheckItem converts the rule into a validated check item. Unknown chktype,
// operator or provider strings, or a provider the kind cannot use, are
// returned as *checkitem.InvalidValueError wrapped in ErrConfigUnreadable.
func (r Rule) CheckItem(name string) (checkitem.CheckItem, error) {
	item := checkitem.CheckItem{
		Name:        name,
		Parameter:   deref(r.Parameter),
		Property:    deref(r.Property),
		Left:        parseBound(r.Left),
		Right:       parseBound(r.Right),
		CompareTo:   deref(r.CompareTo),
		TextIfTrue:  deref(r.TextIfTrue),
		TextIfFalse: deref(r.TextIfFalse),
	}
	var err error
	if item.Kind, err = checkitem.ParseKind(deref(r.ChkType)); err != nil {
		return checkitem.CheckItem{}, fmt.Errorf("%w: %w", ErrConfigUnreadable, err)
	}
	if item.Operator, err = checkitem.ParseOperator(deref(r.Operator)); err != nil {
		return checkitem.CheckItem{}, fmt.Errorf("%w: %w", ErrConfigUnreadable, err)
	}
	if item.Provider, err = checkitem.ParseProvider(deref(r.Provider)); err != nil {
		return checkitem.CheckItem{}, fmt.Errorf("%w: %w", ErrConfigUnreadable, err)
	}
	if err := checkitem.ValidateProvider(item.Kind, item.Provider); err != nil {
		return checkitem.CheckItem{}, fmt.Errorf("%w: %w", ErrConfigUnreadable, err)
	}
	return item, nil
}

// Apply binds the rule to rec: the check item, the expected release and the
// update delivery fields. resolve expands variables in path and args2cmd; it
// runs after AppVersionCurrentRelease is set so it may refer to it.
func (r Rule) Apply(rec *checkitem.UpdateRecord, resolve func(string) string) error {
	item, err := r.CheckItem(CleanAdapterName(rec.AdapterName))
	if err != nil {
		return err
	}
	if resolve == nil {
		resolve = func(s string) string { return s }
	}
	rec.CheckItem = item
	if r.AppVersionCurrentRelease != nil {
		rec.AppVersionCurrentRelease = *r.AppVersionCurrentRelease
	}
	if r.Path != nil {
		rec.PathToInstaller = resolve(*r.Path)
	}
	if r.Cmd2Run != nil {
		rec.Installer = *r.Cmd2Run
	}
	if r.Args2Cmd != nil {
		rec.CmdArguments = resolve(*r.Args2Cmd)
	}
	if r.PassThruPath != nil {
		rec.PassThruPath = *r.PassThruPath
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseBound reads a slice bound as a 16-bit integer; anything unparsable is 0.
func parseBound(s *string) int {
	if s == nil {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 16)
	if err != nil {
		return 0
	}
	return int(n)
}

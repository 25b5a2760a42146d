// pkg/evaluator/evaluator.go - decides whether the wireless client is current.
//
// Evaluate walks Unknown -> {NotApplicable, ConfigUnreadable, Current,
// UpdateAvailable} once per run. Every failure ends in one of those verdicts;
// nothing is returned as an error and panics are recovered.

package evaluator

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
	"github.com/windowsadmins/wlaninfo/pkg/compare"
	"github.com/windowsadmins/wlaninfo/pkg/logging"
	"github.com/windowsadmins/wlaninfo/pkg/selector"
)

// Verdict is the terminal outcome of an evaluation.
type Verdict int

const (
	Unknown Verdict = iota
	Current
	UpdateAvailable
	NotApplicable
	ConfigUnreadable
)

// String returns the name persisted in the Status registry value.
func (v Verdict) String() string {
	switch v {
	case Current:
		return "CURRENT"
	case UpdateAvailable:
		return "UPDATE_AVAILABLE"
	case NotApplicable:
		return "NOT_APPLICABLE"
	case ConfigUnreadable:
		return "CANNOT_READ_XML_CONFIG"
	default:
		return "UNKNOWN"
	}
}

// RunContext carries what was detected about the machine. It is built once
// in main and not modified afterwards.
type RunContext struct {
	AdapterName   string
	DeviceID      string
	DriverVersion string // from the netsh driver report
	OSVersion     string // major.minor
	Is64Bit       bool
	Verbose       bool
	Silent        bool
	DocumentPath  string
}

// Extractor produces the found value for a record's check item.
type Extractor interface {
	Extract(rec *checkitem.UpdateRecord) string
}

// Evaluator composes selection, extraction, slicing and comparison.
type Evaluator struct {
	Extractor Extractor
	// LoadDocument defaults to selector.LoadFile.
	LoadDocument func(path string) (*selector.Document, error)
	// Resolve expands variables in path and args2cmd. It receives the record
	// so that %prosetver% can see the expected release.
	Resolve func(rec *checkitem.UpdateRecord, s string) string
}

// Result is the verdict plus the record it was computed from.
type Result struct {
	Verdict Verdict
	Record  *checkitem.UpdateRecord
	Matches int    // number of document nodes bound to the record
	Sliced  string // the part of the found value that was compared
	Err     error  // why the verdict is ConfigUnreadable or Unknown, if known
}

// Evaluate runs the state machine for rc.
func (e *Evaluator) Evaluate(rc RunContext) (res Result) {
	rec := checkitem.NewUpdateRecord(rc.AdapterName, rc.DeviceID, rc.DriverVersion)
	res = Result{Verdict: Unknown, Record: rec}

	logging.Info("Current wireless adapter", "adapter", rc.AdapterName, "os", rc.OSVersion)
	if strings.TrimSpace(rc.AdapterName) == "" || strings.EqualFold(rc.AdapterName, "unknown") {
		logging.Info("Cannot determine the wireless adapter")
		res.Verdict = NotApplicable
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Evaluation failed", "panic", r, "stack", string(debug.Stack()))
			res.Verdict = Unknown
			res.Err = fmt.Errorf("evaluation panicked: %v", r)
		}
	}()

	load := e.LoadDocument
	if load == nil {
		load = selector.LoadFile
	}
	doc, err := load(rc.DocumentPath)
	if err != nil {
		logging.Error("Cannot read check-item document", "path", rc.DocumentPath, "error", err)
		res.Verdict = ConfigUnreadable
		res.Err = err
		return res
	}

	rule, matches := doc.Select(rc.AdapterName, rc.OSVersion)
	res.Matches = matches
	resolve := func(s string) string {
		if e.Resolve == nil {
			return s
		}
		return e.Resolve(rec, s)
	}
	if err := rule.Apply(rec, resolve); err != nil {
		logging.Error("Check-item document holds an invalid rule", "adapter", rc.AdapterName, "error", err)
		res.Verdict = ConfigUnreadable
		res.Err = err
		return res
	}
	logging.Info("Check-item document read OK", "matches", matches)

	if rec.CheckItem.Kind == checkitem.KindUnknown {
		logging.Info("No check item for this adapter and OS", "adapter", rc.AdapterName, "os", rc.OSVersion)
		return res
	}

	rec.AppVersionFound = e.Extractor.Extract(rec)
	res.Sliced = compare.Slice(rec.AppVersionFound, rec.CheckItem.Left, rec.CheckItem.Right)
	current := compare.Compare(res.Sliced, rec.AppVersionCurrentRelease, rec.CheckItem.Operator)
	rec.CheckItem.SetStatus(current)

	logging.Info("Check item evaluated",
		"kind", rec.CheckItem.Kind,
		"found", rec.AppVersionFound,
		"compared", res.Sliced,
		"operator", rec.CheckItem.Operator,
		"expected", rec.AppVersionCurrentRelease,
		"status", rec.CheckItem.Status,
	)
	if current {
		res.Verdict = Current
	} else {
		res.Verdict = UpdateAvailable
	}
	return res
}

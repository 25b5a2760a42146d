// pkg/checkitem/checkitem.go - declarative check items for the wireless client evaluator.
//
// A check item describes where a value lives on the machine (registry, file
// version resource, installed-application catalog, driver key), how to cut the
// interesting part out of it and how to compare it with the release declared
// in the configuration document.

package checkitem

// Kind selects the extraction strategy of a check item.
type Kind int

const (
	KindUnknown Kind = iota
	KindRegistryValue
	KindRegistryKey
	KindRegistryValueSubtree
	KindFileVersion
	KindAppVersion
	KindDriverVersion
	KindWLANDriverVersion
	KindWMI
	KindService
	KindOSVersion
	KindServicePack
	KindBrowserVersion
	KindExactCopy
)

// Operator is the comparison applied between the found and expected values.
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterOrEqual
	OpLessThan
	OpLessOrEqual
	OpOneOf
	OpSubstring
)

// Provider selects the data source variant within a Kind.
type Provider int

const (
	ProviderDefault Provider = iota
	ProviderHKLM
	ProviderHKCU
	ProviderHKCR
	ProviderHKU
	ProviderHKPD
	ProviderHKCC
	ProviderPath
	ProviderExpandPath
	ProviderAppNameSubstring
	ProviderDeviceID
)

// Status is the tri-state result of a check item.
type Status int

const (
	StatusUndetermined Status = iota
	StatusCurrent
	StatusNotCurrent
)

// CheckItem is a single rule loaded from the configuration document.
type CheckItem struct {
	Name        string
	Kind        Kind
	Provider    Provider
	Parameter   string
	Property    string
	Left        int
	Right       int
	Operator    Operator
	CompareTo   string // kept for completeness; the expected value lives on UpdateRecord
	TextIfTrue  string
	TextIfFalse string
	Status      Status
}

// Executable reports whether the kind has an extraction strategy.
// The remaining kinds are recognized in configuration but always yield "".
func (k Kind) Executable() bool {
	switch k {
	case KindRegistryValue, KindRegistryKey, KindFileVersion,
		KindAppVersion, KindDriverVersion, KindWLANDriverVersion:
		return true
	default:
		return false
	}
}

// IsHive reports whether the provider names one of the six registry roots.
func (p Provider) IsHive() bool {
	return p >= ProviderHKLM && p <= ProviderHKCC
}

// SetStatus records the evaluation outcome. Only the first call has an effect
// so that a check item is decided exactly once per evaluation.
func (c *CheckItem) SetStatus(current bool) {
	if c.Status != StatusUndetermined {
		return
	}
	if current {
		c.Status = StatusCurrent
		return
	}
	c.Status = StatusNotCurrent
}

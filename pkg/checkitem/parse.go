package checkitem

import (
	"fmt"
	"strings"
)

// InvalidValueError is returned when a configuration string does not map to
// any known variant.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

var kindNames = map[string]Kind{
	"unknown":         KindUnknown,
	"reg_val":         KindRegistryValue,
	"reg_key":         KindRegistryKey,
	"reg_val_subtree": KindRegistryValueSubtree,
	"file_ver":        KindFileVersion,
	"app_ver":         KindAppVersion,
	"drv_ver":         KindDriverVersion,
	"wlandriver_ver":  KindWLANDriverVersion,
	"wmi":             KindWMI,
	"service":         KindService,
	"os_ver":          KindOSVersion,
	"sp_ver":          KindServicePack,
	"ie_ver":          KindBrowserVersion,
	"exact_copy":      KindExactCopy,
}

var operatorNames = map[string]Operator{
	"equal":                 OpEqual,
	"==":                    OpEqual,
	"=":                     OpEqual,
	"eq":                    OpEqual,
	"not_equal":             OpNotEqual,
	"!=":                    OpNotEqual,
	"ne":                    OpNotEqual,
	"greater_then":          OpGreaterThan,
	"greater_than":          OpGreaterThan,
	">":                     OpGreaterThan,
	"gt":                    OpGreaterThan,
	"greater_then_or_equal": OpGreaterOrEqual,
	"greater_than_or_equal": OpGreaterOrEqual,
	">=":                    OpGreaterOrEqual,
	"gte":                   OpGreaterOrEqual,
	"less_then":             OpLessThan,
	"less_than":             OpLessThan,
	"<":                     OpLessThan,
	"lt":                    OpLessThan,
	"less_then_or_equal":    OpLessOrEqual,
	"less_than_or_equal":    OpLessOrEqual,
	"<=":                    OpLessOrEqual,
	"lte":                   OpLessOrEqual,
	"oneof":                 OpOneOf,
	"one_of":                OpOneOf,
	"substring":             OpSubstring,
}

var providerNames = map[string]Provider{
	"hklm":             ProviderHKLM,
	"hkcu":             ProviderHKCU,
	"hkcr":             ProviderHKCR,
	"hku":              ProviderHKU,
	"hkpd":             ProviderHKPD,
	"hkcc":             ProviderHKCC,
	"path":             ProviderPath,
	"expand_path":      ProviderExpandPath,
	"appnamesubstring": ProviderAppNameSubstring,
	"deviceid":         ProviderDeviceID,
}

// ParseKind maps a chktype string to a Kind. An empty string is KindUnknown.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindUnknown, nil
	}
	if k, ok := kindNames[s]; ok {
		return k, nil
	}
	return KindUnknown, &InvalidValueError{Field: "chktype", Value: s}
}

// ParseOperator maps an operator string to an Operator. An empty string is OpEqual.
func ParseOperator(s string) (Operator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return OpEqual, nil
	}
	if op, ok := operatorNames[s]; ok {
		return op, nil
	}
	return OpEqual, &InvalidValueError{Field: "operator", Value: s}
}

// ParseProvider maps a provider string to a Provider. An empty string is ProviderDefault.
func ParseProvider(s string) (Provider, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ProviderDefault, nil
	}
	if p, ok := providerNames[s]; ok {
		return p, nil
	}
	return ProviderDefault, &InvalidValueError{Field: "provider", Value: s}
}

// ValidateProvider checks that the provider is meaningful for the kind.
// Kinds without an extraction strategy accept any provider.
func ValidateProvider(k Kind, p Provider) error {
	ok := true
	switch k {
	case KindRegistryValue, KindRegistryKey:
		ok = p == ProviderDefault || p.IsHive()
	case KindFileVersion:
		ok = p == ProviderHKLM || p == ProviderHKCU || p == ProviderPath || p == ProviderExpandPath
	case KindAppVersion:
		ok = p == ProviderDefault || p == ProviderAppNameSubstring
	case KindDriverVersion:
		ok = p == ProviderDeviceID
	}
	if !ok {
		return &InvalidValueError{Field: "provider for " + k.String(), Value: p.String()}
	}
	return nil
}

func (k Kind) String() string {
	for name, v := range kindNames {
		if v == k {
			return name
		}
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (p Provider) String() string {
	if p == ProviderDefault {
		return ""
	}
	for name, v := range providerNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("provider(%d)", int(p))
}

func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpNotEqual:
		return "not_equal"
	case OpGreaterThan:
		return "greater_then"
	case OpGreaterOrEqual:
		return "greater_then_or_equal"
	case OpLessThan:
		return "less_then"
	case OpLessOrEqual:
		return "less_then_or_equal"
	case OpOneOf:
		return "oneof"
	case OpSubstring:
		return "substring"
	default:
		return fmt.Sprintf("operator(%d)", int(op))
	}
}

func (s Status) String() string {
	switch s {
	case StatusCurrent:
		return "CURRENT"
	case StatusNotCurrent:
		return "NOT_CURRENT"
	default:
		return "UNDETERMINED"
	}
}

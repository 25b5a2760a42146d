// pkg/compare/compare.go - found vs. expected comparison for check items.
//
// Values that both look like dotted numeric versions are compared field by
// field (missing fields count as zero). Anything else falls back to string
// comparison: case-insensitive for equality, ordinal for ordering.

package compare

import (
	"strings"

	version "github.com/hashicorp/go-version"

	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
	"github.com/windowsadmins/wlaninfo/pkg/logging"
)

// Compare reports whether found satisfies op against expected.
func Compare(found, expected string, op checkitem.Operator) bool {
	vFound, okFound := parseVersion(found)
	vExpected, okExpected := parseVersion(expected)
	bothVersions := okFound && okExpected

	if !bothVersions {
		logging.Debug("Comparing as strings",
			"found", found,
			"expected", expected,
			"operator", op.String(),
		)
	}

	// ordering is only consulted for the relational operators
	order := func() int {
		if bothVersions {
			return vFound.Compare(vExpected)
		}
		return strings.Compare(found, expected)
	}

	switch op {
	case checkitem.OpEqual:
		if bothVersions {
			return vFound.Equal(vExpected)
		}
		return strings.EqualFold(found, expected)
	case checkitem.OpNotEqual:
		// never version-aware; "1.0" != "1.0.0" holds
		return !strings.EqualFold(found, expected)
	case checkitem.OpGreaterThan:
		return order() > 0
	case checkitem.OpGreaterOrEqual:
		return order() >= 0
	case checkitem.OpLessThan:
		return order() < 0
	case checkitem.OpLessOrEqual:
		return order() <= 0
	case checkitem.OpOneOf, checkitem.OpSubstring:
		// Both test whether expected contains found; oneof does not split
		// expected into a list.
		return strings.Contains(expected, found)
	default:
		logging.Warn("Unknown comparison operator, treating as equal", "operator", int(op))
		return strings.EqualFold(found, expected)
	}
}

// parseVersion accepts dotted numeric versions only: the value must contain a
// dot, must not start with one and must carry no prerelease or metadata part.
func parseVersion(s string) (*version.Version, bool) {
	if !strings.Contains(s, ".") || strings.HasPrefix(s, ".") {
		return nil, false
	}
	v, err := version.NewVersion(s)
	if err != nil {
		return nil, false
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return nil, false
	}
	return v, true
}

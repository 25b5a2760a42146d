package compare

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
)

func TestCompare_VersionsUseNumericOrdering(t *testing.T) {
	tests := []struct {
		found, expected string
		op              checkitem.Operator
		want            bool
	}{
		{"10.2", "9.30", checkitem.OpGreaterThan, true},
		{"9.30", "10.2", checkitem.OpLessThan, true},
		{"22.120.0.3", "22.110.0.5", checkitem.OpGreaterOrEqual, true},
		{"21.10.0.1", "22.110.0.5", checkitem.OpGreaterOrEqual, false},
		{"22.110.0.5", "22.110.0.5", checkitem.OpGreaterOrEqual, true},
		{"22.110.0.5", "22.110.0.5", checkitem.OpLessOrEqual, true},
		{"1.2", "1.2.0.0", checkitem.OpEqual, true},
		{"1.2.1", "1.2", checkitem.OpLessOrEqual, false},
	}
	for _, tt := range tests {
		got := Compare(tt.found, tt.expected, tt.op)
		assert.Equal(t, tt.want, got, "%s %s %s", tt.found, tt.op, tt.expected)
	}
}

func TestCompare_NonVersionsFallBackToOrdinal(t *testing.T) {
	assert.True(t, Compare("B", "A", checkitem.OpGreaterThan))
	assert.False(t, Compare("A", "B", checkitem.OpGreaterThan))
	assert.True(t, Compare("A", "B", checkitem.OpLessThan))
	// lexical, not numeric, when only one side parses
	assert.True(t, Compare("9", "10.0", checkitem.OpGreaterThan))
	// ordinal: uppercase sorts before lowercase
	assert.True(t, Compare("a", "B", checkitem.OpGreaterThan))
}

func TestCompare_EqualIsCaseInsensitiveForStrings(t *testing.T) {
	for _, s := range []string{"Installed", "not found", "PROSet", ""} {
		assert.True(t, Compare(s, strings.ToUpper(s), checkitem.OpEqual), s)
		assert.True(t, Compare(s, s, checkitem.OpEqual), s)
	}
}

func TestCompare_NotEqualIsStringOnly(t *testing.T) {
	assert.True(t, Compare("1.0", "1.0.0", checkitem.OpNotEqual))
	assert.True(t, Compare("1.0", "1.0.0", checkitem.OpEqual))
	assert.False(t, Compare("abc", "ABC", checkitem.OpNotEqual))
}

func TestCompare_OneOfAndSubstringTestContainment(t *testing.T) {
	for _, op := range []checkitem.Operator{checkitem.OpOneOf, checkitem.OpSubstring} {
		assert.True(t, Compare("22.120", "21.90;22.120;23.0", op))
		assert.False(t, Compare("24.0", "21.90;22.120;23.0", op))
		// case-sensitive
		assert.False(t, Compare("ax201", "AX201,AX211", op))
	}
}

func TestCompare_MalformedVersionsDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Compare("1..2", "1.2", checkitem.OpGreaterThan)
		Compare(".5", "0.5", checkitem.OpEqual)
		Compare("1.2-beta", "1.2", checkitem.OpLessThan)
	})
	// ".5" is not a version, so equality is a string comparison
	assert.False(t, Compare(".5", "0.5", checkitem.OpEqual))
}

func TestSlice(t *testing.T) {
	const v = "ABCDEFGH"
	assert.Equal(t, "ABC", Slice(v, 3, 0))
	assert.Equal(t, "FGH", Slice(v, 0, 3))
	assert.Equal(t, "CDEF", Slice(v, 2, 4))
	assert.Equal(t, v, Slice(v, 0, 0))
}

func TestSlice_ClampsOutOfRange(t *testing.T) {
	const v = "ABCDEFGH"
	assert.Equal(t, v, Slice(v, 20, 0))
	assert.Equal(t, v, Slice(v, 0, 20))
	assert.Equal(t, "GH", Slice(v, 6, 10))
	assert.Equal(t, "", Slice(v, 12, 2))
	assert.Equal(t, "", Slice("", 2, 2))
	assert.Equal(t, v, Slice(v, -1, -4))
}

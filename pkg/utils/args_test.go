package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"/v", "/S", "/W"}, []string{"-v", "-s", "-w"}},
		{[]string{"/f", "--document", `C:\a b\doc.xml`}, []string{"--document", `C:\a b\doc.xml`}},
		{[]string{"-vv", "/x"}, []string{"-vv", "/x"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeArgs(tt.in), "%v", tt.in)
	}
}


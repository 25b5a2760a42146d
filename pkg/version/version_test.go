package version

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := Version()
	assert.Equal(t, "wlaninfo", v.AppName)
	assert.Equal(t, runtime.Version(), v.GoVersion)
	assert.Equal(t, "wlaninfo dev", v.String())
}

func TestPrintFull(t *testing.T) {
	var buf bytes.Buffer
	PrintFull(&buf)
	assert.Contains(t, buf.String(), "wlaninfo dev\n")
	assert.Contains(t, buf.String(), "go version:")
}

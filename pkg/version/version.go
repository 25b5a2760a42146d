// pkg/version/version.go - build information stamped in with -ldflags -X.

package version

import (
	"fmt"
	"io"
	"runtime"
)

// Set with -ldflags "-X github.com/windowsadmins/wlaninfo/pkg/version.version=..."
var (
	version   = "dev"
	revision  = "unknown"
	buildDate = "unknown"
	appName   = "wlaninfo"
)

// Info is a structure with version build information about the current application.
type Info struct {
	AppName   string `json:"app_name" yaml:"app_name"`
	Version   string `json:"version" yaml:"version"`
	Revision  string `json:"revision" yaml:"revision"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	BuildDate string `json:"build_date" yaml:"build_date"`
}

// Version returns the current build information.
func Version() Info {
	return Info{
		AppName:   appName,
		Version:   version,
		Revision:  revision,
		GoVersion: runtime.Version(),
		BuildDate: buildDate,
	}
}

// String is the value persisted as GWInfoVer.
func (i Info) String() string {
	return fmt.Sprintf("%s %s", i.AppName, i.Version)
}

// PrintFull writes the application name and detailed version information.
func PrintFull(w io.Writer) {
	v := Version()
	fmt.Fprintf(w, "%s %s\n", v.AppName, v.Version)
	fmt.Fprintf(w, "  revision: \t%s\n", v.Revision)
	fmt.Fprintf(w, "  build date: \t%s\n", v.BuildDate)
	fmt.Fprintf(w, "  go version: \t%s\n", v.GoVersion)
}

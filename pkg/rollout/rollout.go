// pkg/rollout/rollout.go - deployment gate read from the rollout flag file.

package rollout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/windowsadmins/wlaninfo/pkg/logging"
)

// Enabled reports whether the flag file asks for the update to run.
// A line starting with "check" or "run" (any case, leading blanks ignored)
// turns the gate on. A missing file leaves it off.
func Enabled(path string) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("Rollout flag file not present", "path", path)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening rollout flag file: %w", err)
	}
	defer f.Close()

	on, err := Parse(f)
	if err != nil {
		return false, fmt.Errorf("reading rollout flag file %s: %w", path, err)
	}
	logging.Debug("Rollout flag evaluated", "path", path, "enabled", on)
	return on, nil
}

// Parse scans r for a gate line.
func Parse(r io.Reader) (bool, error) {
	on := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if strings.HasPrefix(line, "check") || strings.HasPrefix(line, "run") {
			on = true
		}
	}
	return on, sc.Err()
}

// DWord renders the gate the way it is persisted.
func DWord(on bool) uint32 {
	if on {
		return 1
	}
	return 0
}

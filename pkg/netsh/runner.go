// pkg/netsh/runner.go - runs the network shell and feeds its output to Parse.

package netsh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/windowsadmins/wlaninfo/pkg/logging"
	"github.com/windowsadmins/wlaninfo/pkg/retry"
)

// ErrServiceNotRunning is returned when the WLAN AutoConfig service is stopped.
// Retrying does not help in that case.
var ErrServiceNotRunning = errors.New("the Wireless AutoConfig Service (wlansvc) is not running")

const serviceStoppedPrefix = "The Wireless AutoConfig Service (wlansvc) is not running"

// CommandFunc executes the named program and returns its combined output.
type CommandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Runner collects the driver report.
type Runner struct {
	Path    string
	Retry   retry.RetryConfig
	Command CommandFunc
}

// NewRunner returns a Runner for %SystemRoot%\System32\netsh.exe with the
// given retry budget.
func NewRunner(retries int, interval time.Duration) *Runner {
	root := os.Getenv("SystemRoot")
	if root == "" {
		root = `C:\Windows`
	}
	return &Runner{
		Path: filepath.Join(root, "System32", "netsh.exe"),
		Retry: retry.RetryConfig{
			MaxRetries:      retries,
			InitialInterval: interval,
			Multiplier:      2.0,
		},
		Command: combinedOutput,
	}
}

func combinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Drivers runs "netsh wlan show drivers" and parses the report.
func (r *Runner) Drivers(ctx context.Context) (Report, error) {
	var rep Report
	err := retry.Retry(ctx, r.Retry, func() error {
		out, err := r.Command(ctx, r.Path, "wlan", "show", "drivers")
		text := string(out)
		if strings.HasPrefix(strings.TrimSpace(text), serviceStoppedPrefix) {
			return retry.Permanent(ErrServiceNotRunning)
		}
		if err != nil {
			return fmt.Errorf("netsh wlan show drivers: %w", err)
		}
		rep = Parse(text)
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	logging.Debug("netsh driver report parsed",
		"interface", rep.InterfaceName,
		"adapter", rep.Adapter,
		"version", rep.DriverVersion,
		"file", rep.DriverFile)
	return rep, nil
}

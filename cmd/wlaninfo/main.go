// cmd/wlaninfo/main.go

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/windowsadmins/wlaninfo/pkg/catalog"
	"github.com/windowsadmins/wlaninfo/pkg/checkitem"
	"github.com/windowsadmins/wlaninfo/pkg/config"
	"github.com/windowsadmins/wlaninfo/pkg/device"
	"github.com/windowsadmins/wlaninfo/pkg/evaluator"
	"github.com/windowsadmins/wlaninfo/pkg/extract"
	"github.com/windowsadmins/wlaninfo/pkg/fileversion"
	"github.com/windowsadmins/wlaninfo/pkg/logging"
	"github.com/windowsadmins/wlaninfo/pkg/netsh"
	"github.com/windowsadmins/wlaninfo/pkg/reporting"
	"github.com/windowsadmins/wlaninfo/pkg/rollout"
	"github.com/windowsadmins/wlaninfo/pkg/sysinfo"
	"github.com/windowsadmins/wlaninfo/pkg/utils"
	"github.com/windowsadmins/wlaninfo/pkg/version"
	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

type options struct {
	verbosity  int
	silent     bool
	wait       bool
	configPath string
	document   string
	adapter    string
	osVersion  string
	format     string
	version    bool
}

func parseFlags(fs *pflag.FlagSet, args []string) (*options, error) {
	o := &options{}
	fs.CountVarP(&o.verbosity, "verbose", "v", "Increase verbosity (e.g. -v, -vv)")
	fs.BoolVarP(&o.silent, "silent", "s", false, "Run without console output.")
	fs.BoolVarP(&o.wait, "wait", "w", false, "Wait for Enter before exiting.")
	fs.StringVar(&o.configPath, "config", config.ConfigPath, "Path to the YAML configuration.")
	fs.StringVar(&o.document, "document", "", "Override the check-item XML document.")
	fs.StringVar(&o.adapter, "adapter", "", "Evaluate as if this wireless adapter was detected.")
	fs.StringVar(&o.osVersion, "os", "", "Evaluate for this OS version (major.minor).")
	fs.StringVar(&o.format, "format", "", "Report format: text or yaml.")
	fs.BoolVar(&o.version, "version", false, "Print the version and exit.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

// applyOptions folds command-line overrides into the loaded configuration.
// One -v turns on verbose INFO logging, two or more select DEBUG.
func applyOptions(cfg *config.Configuration, o *options) {
	switch {
	case o.verbosity == 1:
		cfg.Verbose = true
		cfg.LogLevel = "INFO"
	case o.verbosity >= 2:
		cfg.Verbose = true
		cfg.LogLevel = "DEBUG"
	}
	if o.silent {
		cfg.Silent = true
	}
	if o.document != "" {
		cfg.ConfigDocument = o.document
	}
	if o.format != "" {
		cfg.ReportFormat = o.format
	}
	if cfg.ToolPath == "" {
		cfg.ToolPath = utils.ExecutableDir()
	}
}

func main() {
	args := utils.NormalizeArgs(utils.CommandLineArgs())
	opts, err := parseFlags(pflag.CommandLine, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if opts.version {
		version.PrintFull(os.Stdout)
		os.Exit(0)
	}

	reg := winreg.NewSystem()
	cfg, err := config.LoadConfig(opts.configPath, reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyOptions(cfg, opts)

	if cfg.Silent {
		hideConsole()
	}

	if err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := run(ctx, cfg, opts, reg, strings.Join(args, " "))

	if opts.wait && !cfg.Silent {
		fmt.Println("Hit Enter to close")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	}
	logging.CloseLogger()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Configuration, opts *options, reg winreg.ReadWriter, cmdLine string) int {
	logging.Info("Starting "+version.Version().String(), "args", cmdLine)

	sys := sysinfo.Collect(reg)
	if opts.osVersion != "" {
		sys.OSVersion = opts.osVersion
	}
	logging.Info("OS Version", "version", sys.OSVersion, "64bit", sys.Is64Bit)

	runner := netsh.NewRunner(cfg.NetshRetries, time.Duration(cfg.NetshRetryIntervalSeconds)*time.Second)
	drivers, err := runner.Drivers(ctx)
	if err != nil {
		if errors.Is(err, netsh.ErrServiceNotRunning) {
			logging.Warn("The Wireless AutoConfig Service (wlansvc) is not running")
		} else {
			logging.Warn("Failed to read the wireless driver report", "error", err)
		}
	}

	inv := detectAdapter(reg, device.NewLister(), drivers)
	inv.Hostname = sys.Hostname
	inv.OSVersion = sys.OSVersion
	if opts.adapter != "" {
		inv.Adapter = opts.adapter
	}

	cat := catalog.Build(reg, cfg.IncludeWow64 && sys.Is64Bit)
	inv.PROSetVersion = cat.PROSetVersion()
	logging.Debug("Installed applications catalog built", "entries", cat.Len(), "proset", inv.PROSetVersion)

	base := utils.Resolver{
		Registry:    reg,
		Is64Bit:     sys.Is64Bit,
		ToolPath:    cfg.ToolPath,
		CommandLine: cmdLine,
	}
	eval := &evaluator.Evaluator{
		Extractor: extract.New(extract.Sources{
			Registry: reg,
			Files:    fileversion.NewSystem(),
			Catalog:  cat,
		}),
		Resolve: func(rec *checkitem.UpdateRecord, s string) string {
			r := base
			r.PROSetVersion = rec.AppVersionCurrentRelease
			return r.Resolve(s)
		},
	}

	res := eval.Evaluate(evaluator.RunContext{
		AdapterName:   inv.Adapter,
		DeviceID:      inv.DeviceInstanceID,
		DriverVersion: inv.DriverVersion,
		OSVersion:     sys.OSVersion,
		Is64Bit:       sys.Is64Bit,
		Verbose:       cfg.Verbose,
		Silent:        cfg.Silent,
		DocumentPath:  utils.ExpandPath(cfg.ConfigDocument, os.Getenv),
	})
	logging.Info("Wireless LAN Client Status", "status", res.Verdict)

	gate, err := rollout.Enabled(utils.ExpandPath(cfg.RolloutFlagFile, os.Getenv))
	if err != nil {
		logging.Warn("Failed to read rollout flag", "error", err)
	}

	report := reporting.Report{
		Inventory:   inv,
		Verdict:     res.Verdict,
		Record:      res.Record,
		Rollout:     gate,
		ToolVersion: version.Version().String(),
		RunTime:     time.Now(),
	}
	resolvePass := func(s string) string {
		r := base
		r.PROSetVersion = res.Record.AppVersionCurrentRelease
		return r.Resolve(s)
	}
	persister := &reporting.Persister{Registry: reg, Key: cfg.ResultsKey, Resolve: resolvePass}
	if err := persister.Save(report); err != nil {
		logging.Error("Err in saving info to registry", "error", err)
		return 1
	}

	if !cfg.Silent {
		if err := reporting.Write(os.Stdout, report, cfg.ReportFormat); err != nil {
			logging.Error("Failed to print report", "error", err)
			return 1
		}
	}
	return 0
}

// detectAdapter combines the adapter list with the driver report. The first
// physical wireless adapter wins; the driver report fills what WMI left out.
func detectAdapter(reg winreg.Accessor, lister device.Lister, drivers netsh.Report) reporting.Inventory {
	inv := reporting.Inventory{
		InterfaceName: drivers.InterfaceName,
		Adapter:       drivers.Adapter,
		DriverFile:    drivers.DriverFile,
		DriverVersion: drivers.DriverVersion,
	}

	all, err := lister.Adapters()
	if err != nil {
		logging.Warn("Error while reading wireless connections", "error", err)
	}
	wireless := device.SelectWireless(all)
	if len(wireless) == 0 {
		if inv.Adapter == "" {
			logging.Info("No wireless adapter detected")
		}
		return inv
	}

	a := wireless[0]
	inv.InterfaceName = a.Name
	inv.Adapter = a.Description
	inv.DeviceInstanceID = a.PNPDeviceID

	m, err := device.Resolve(reg, a.Description, a.GUID)
	if err != nil {
		logging.Debug("Adapter class key not resolved", "adapter", a.Description, "error", err)
		return inv
	}
	if m.DeviceInstanceID != "" {
		inv.DeviceInstanceID = m.DeviceInstanceID
	}
	if !m.Intel() {
		logging.Info("Device Instance ID not matching an Intel adapter", "device_instance_id", m.DeviceInstanceID)
	}
	return inv
}

// pkg/config/config.go - configuration settings for wlaninfo.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/windowsadmins/wlaninfo/pkg/winreg"
)

const ConfigPath = `C:\ProgramData\WLAN\Config.yaml`

// CSP OMA-URI registry path for enterprise policy configuration
const CSPRegistryPath = `SOFTWARE\WLANInfo\Config`

// Configuration holds the configurable options for wlaninfo in YAML format
type Configuration struct {
	ConfigDocument            string `yaml:"ConfigDocument"`  // check-item XML document
	RolloutFlagFile           string `yaml:"RolloutFlagFile"` // VACFlag.txt
	ResultsKey                string `yaml:"ResultsKey"`      // HKLM subkey receiving the results
	LogDir                    string `yaml:"LogDir"`
	LogLevel                  string `yaml:"LogLevel"`
	Verbose                   bool   `yaml:"Verbose"`
	Silent                    bool   `yaml:"Silent"`
	IncludeWow64              bool   `yaml:"IncludeWow64"`
	NetshRetries              int    `yaml:"NetshRetries"`
	NetshRetryIntervalSeconds int    `yaml:"NetshRetryIntervalSeconds"`
	ReportFormat              string `yaml:"ReportFormat"` // "text" or "yaml"

	// Directory of the running executable, used for %toolpath% (not exposed in YAML)
	ToolPath string `yaml:"-"`
}

// LoadConfig loads the configuration from the YAML file at path.
// If the file doesn't exist, it falls back to CSP OMA-URI registry settings,
// and then to defaults. Only a file that exists but cannot be read or parsed
// is an error.
func LoadConfig(path string, reg winreg.Accessor) (*Configuration, error) {
	if path == "" {
		path = ConfigPath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Configuration file does not exist: %s", path)

		config, cspErr := LoadConfigFromCSP(reg)
		if cspErr == nil {
			log.Printf("Loaded configuration from CSP OMA-URI registry settings")
			return config, nil
		}
		log.Printf("No CSP registry settings either (%v), using defaults", cspErr)
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}
	config.applyDefaults()
	return config, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(path string, config *Configuration) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// GetDefaultConfig provides default configuration values.
func GetDefaultConfig() *Configuration {
	systemDrive := os.Getenv("SystemDrive")
	if systemDrive == "" {
		systemDrive = "C:"
	}
	return &Configuration{
		ConfigDocument:            systemDrive + `\ProgramData\Intel\WLAN\WLANInfoConfig.xml`,
		RolloutFlagFile:           systemDrive + `\ProgramData\Intel\WLAN\VACFlag.txt`,
		ResultsKey:                `SOFTWARE\Intel\WLAN`,
		LogDir:                    systemDrive + `\ProgramData\Intel\WLAN\logs`,
		LogLevel:                  "INFO",
		IncludeWow64:              true,
		NetshRetries:              3,
		NetshRetryIntervalSeconds: 2,
		ReportFormat:              "text",
	}
}

// applyDefaults fills fields a partial YAML file or registry key left empty.
func (c *Configuration) applyDefaults() {
	d := GetDefaultConfig()
	if c.ConfigDocument == "" {
		c.ConfigDocument = d.ConfigDocument
	}
	if c.RolloutFlagFile == "" {
		c.RolloutFlagFile = d.RolloutFlagFile
	}
	if c.ResultsKey == "" {
		c.ResultsKey = d.ResultsKey
	}
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.NetshRetries <= 0 {
		c.NetshRetries = d.NetshRetries
	}
	if c.NetshRetryIntervalSeconds <= 0 {
		c.NetshRetryIntervalSeconds = d.NetshRetryIntervalSeconds
	}
	switch strings.ToLower(c.ReportFormat) {
	case "text", "yaml":
		c.ReportFormat = strings.ToLower(c.ReportFormat)
	default:
		c.ReportFormat = d.ReportFormat
	}
}

// LoadConfigFromCSP loads configuration from Windows CSP OMA-URI registry settings.
func LoadConfigFromCSP(reg winreg.Accessor) (*Configuration, error) {
	if reg == nil || !reg.KeyExists(winreg.LocalMachine, CSPRegistryPath) {
		return nil, fmt.Errorf("CSP registry key %s not found", CSPRegistryPath)
	}
	config := GetDefaultConfig()
	k := cspKey{reg: reg, path: CSPRegistryPath}

	k.loadString("ConfigDocument", &config.ConfigDocument)
	k.loadString("RolloutFlagFile", &config.RolloutFlagFile)
	k.loadString("ResultsKey", &config.ResultsKey)
	k.loadString("LogDir", &config.LogDir)
	k.loadString("LogLevel", &config.LogLevel)
	k.loadString("ReportFormat", &config.ReportFormat)

	k.loadInt("NetshRetries", &config.NetshRetries)
	k.loadInt("NetshRetryIntervalSeconds", &config.NetshRetryIntervalSeconds)

	k.loadBool("Verbose", &config.Verbose)
	k.loadBool("Silent", &config.Silent)
	k.loadBool("IncludeWow64", &config.IncludeWow64)

	config.applyDefaults()
	return config, nil
}

type cspKey struct {
	reg  winreg.Accessor
	path string
}

func (k cspKey) loadString(valueName string, target *string) {
	if val, err := k.reg.GetString(winreg.LocalMachine, k.path, valueName); err == nil && val != "" {
		*target = val
		log.Printf("CSP: Loaded %s = %s", valueName, val)
	}
}

// loadBool accepts "true"/"false", "1"/"0" and DWORD values (rendered as decimal).
func (k cspKey) loadBool(valueName string, target *bool) {
	val, err := k.reg.GetString(winreg.LocalMachine, k.path, valueName)
	if err != nil {
		return
	}
	if parsed, perr := strconv.ParseBool(strings.TrimSpace(val)); perr == nil {
		*target = parsed
		log.Printf("CSP: Loaded %s = %t", valueName, parsed)
		return
	}
	if n, perr := strconv.Atoi(strings.TrimSpace(val)); perr == nil {
		*target = n != 0
		log.Printf("CSP: Loaded %s = %t", valueName, n != 0)
	}
}

func (k cspKey) loadInt(valueName string, target *int) {
	val, err := k.reg.GetString(winreg.LocalMachine, k.path, valueName)
	if err != nil {
		return
	}
	if parsed, perr := strconv.Atoi(strings.TrimSpace(val)); perr == nil {
		*target = parsed
		log.Printf("CSP: Loaded %s = %d", valueName, parsed)
	}
}

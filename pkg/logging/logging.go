// pkg/logging/logging.go - leveled logging for wlaninfo.
//
// One run writes to three sinks in the log directory:
// - wlaninfo.log  plain text, one line per entry
// - events.jsonl  one JSON object per entry
// - wlaninfo.yaml YAML documents, one per entry
// Each sink is deleted at startup once it grows past the size cap so the
// files never accumulate across scheduled runs.

package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/windowsadmins/wlaninfo/pkg/config"
	"github.com/windowsadmins/wlaninfo/pkg/version"
	"gopkg.in/yaml.v3"
)

// DefaultMaxLogSize is the size in bytes above which a sink is discarded at startup.
const DefaultMaxLogSize = 256000

const (
	textLogName = "wlaninfo.log"
	jsonLogName = "events.jsonl"
	yamlLogName = "wlaninfo.yaml"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a level. Unknown strings give LevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// LogEntry is the structured form written to the JSON and YAML sinks.
type LogEntry struct {
	Time       int64                  `json:"time" yaml:"time"`
	Timestamp  string                 `json:"timestamp" yaml:"timestamp"`
	Level      string                 `json:"level" yaml:"level"`
	Message    string                 `json:"message" yaml:"message"`
	Component  string                 `json:"component" yaml:"component"`
	PID        int64                  `json:"pid" yaml:"pid"`
	Hostname   string                 `json:"hostname" yaml:"hostname"`
	Version    string                 `json:"version" yaml:"version"`
	SessionID  string                 `json:"session_id" yaml:"session_id"`
	Properties map[string]interface{} `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Dir           string
	Component     string
	SessionID     string
	Level         LogLevel
	MaxLogSize    int64
	EnableJSON    bool
	EnableYAML    bool
	EnableConsole bool
	Console       io.Writer // defaults to os.Stdout
}

// Logger writes entries to the configured sinks.
type Logger struct {
	mu       sync.Mutex
	config   LoggerConfig
	logLevel LogLevel
	text     *log.Logger
	console  io.Writer
	color    bool
	logFile  *os.File
	jsonFile *os.File
	yamlFile *os.File
	hostname string
	version  string
}

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the package logger from the application configuration.
// It must be called before any logging functions are used.
func Init(cfg *config.Configuration) error {
	var initErr error
	once.Do(func() {
		instance, initErr = newLoggerWithConfig(configFrom(cfg))
	})
	return initErr
}

// InitWithConfig initializes the package logger with an explicit LoggerConfig.
func InitWithConfig(logCfg LoggerConfig) error {
	var initErr error
	once.Do(func() {
		instance, initErr = newLoggerWithConfig(logCfg)
	})
	return initErr
}

func configFrom(cfg *config.Configuration) LoggerConfig {
	// Verbose raises the level to at least INFO; DEBUG still comes from LogLevel.
	level := ParseLevel(cfg.LogLevel)
	if cfg.Verbose && level < LevelInfo {
		level = LevelInfo
	}
	return LoggerConfig{
		Dir:           cfg.LogDir,
		Component:     "wlaninfo",
		SessionID:     fmt.Sprintf("wlaninfo-%d", time.Now().Unix()),
		Level:         level,
		MaxLogSize:    DefaultMaxLogSize,
		EnableJSON:    true,
		EnableYAML:    true,
		EnableConsole: cfg.Verbose && !cfg.Silent,
	}
}

func newLoggerWithConfig(cfg LoggerConfig) (*Logger, error) {
	if cfg.MaxLogSize <= 0 {
		cfg.MaxLogSize = DefaultMaxLogSize
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	l := &Logger{
		config:   cfg,
		logLevel: cfg.Level,
		hostname: hostname,
		version:  version.Version().Version,
	}
	if err := l.openFiles(); err != nil {
		l.closeFiles()
		return nil, err
	}

	if cfg.EnableConsole {
		l.console = cfg.Console
		if l.console == nil {
			l.console = os.Stdout
		}
		l.color = colorCapable(l.console)
	}
	l.text = log.New(l.logFile, "", 0)
	return l, nil
}

func (l *Logger) openFiles() error {
	var err error
	if l.logFile, err = openCapped(filepath.Join(l.config.Dir, textLogName), l.config.MaxLogSize); err != nil {
		return fmt.Errorf("failed to open main log file: %w", err)
	}
	if l.config.EnableJSON {
		if l.jsonFile, err = openCapped(filepath.Join(l.config.Dir, jsonLogName), l.config.MaxLogSize); err != nil {
			return fmt.Errorf("failed to open JSON log file: %w", err)
		}
	}
	if l.config.EnableYAML {
		if l.yamlFile, err = openCapped(filepath.Join(l.config.Dir, yamlLogName), l.config.MaxLogSize); err != nil {
			return fmt.Errorf("failed to open YAML log file: %w", err)
		}
	}
	return nil
}

// openCapped opens path for appending after removing it if it exceeds max bytes.
func openCapped(path string, max int64) (*os.File, error) {
	if info, err := os.Stat(path); err == nil && info.Size() > max {
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func (l *Logger) closeFiles() {
	for _, f := range []**os.File{&l.logFile, &l.jsonFile, &l.yamlFile} {
		if *f != nil {
			if err := (*f).Close(); err != nil {
				fmt.Printf("Failed to close log file: %v\n", err)
			}
			*f = nil
		}
	}
}

// CloseLogger closes all log files if they're open.
func CloseLogger() {
	if instance == nil {
		return
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.closeFiles()
}

// LogDir returns the directory the package logger writes to, or "" before Init.
func LogDir() string {
	if instance == nil {
		return ""
	}
	return instance.config.Dir
}

func (l *Logger) logMessage(level LogLevel, message string, keyValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.logLevel {
		return
	}

	properties := make(map[string]interface{})
	for i := 0; i+1 < len(keyValues); i += 2 {
		properties[fmt.Sprintf("%v", keyValues[i])] = propertyValue(keyValues[i+1])
	}
	now := time.Now()
	entry := LogEntry{
		Time:       now.Unix(),
		Timestamp:  now.Format(time.RFC3339),
		Level:      level.String(),
		Message:    message,
		Component:  l.config.Component,
		PID:        int64(os.Getpid()),
		Hostname:   l.hostname,
		Version:    l.version,
		SessionID:  l.config.SessionID,
		Properties: properties,
	}
	if len(properties) == 0 {
		entry.Properties = nil
	}

	line := formatLine(entry, keyValues)
	if l.logFile != nil {
		l.text.Println(line)
	}
	if l.console != nil {
		if c := levelColor(level); l.color && c != "" {
			fmt.Fprintf(l.console, "%s%s%s\n", c, line, colorReset)
		} else {
			fmt.Fprintln(l.console, line)
		}
	}
	if l.jsonFile != nil {
		if data, err := json.Marshal(entry); err == nil {
			l.jsonFile.Write(append(data, '\n'))
		}
	}
	if l.yamlFile != nil {
		if data, err := yaml.Marshal(entry); err == nil {
			l.yamlFile.WriteString("---\n" + string(data))
		}
	}
}

// propertyValue renders errors and Stringers as text so the JSON and YAML
// sinks keep their message instead of an empty object or a bare enum number.
func propertyValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}

// formatLine renders the text sink format: timestamp, level, message, then
// key=value pairs. Long pair lists go one per line.
func formatLine(entry LogEntry, keyValues []interface{}) string {
	ts := time.Unix(entry.Time, 0).Format("2006-01-02 15:04:05")
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %-5s %s", ts, entry.Level, entry.Message)
	multiline := len(keyValues)/2 > 4
	for i := 0; i+1 < len(keyValues); i += 2 {
		if multiline {
			fmt.Fprintf(&b, "\n        %v: %v", keyValues[i], keyValues[i+1])
		} else {
			fmt.Fprintf(&b, " %v=%v", keyValues[i], keyValues[i+1])
		}
	}
	return b.String()
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
)

func levelColor(level LogLevel) string {
	switch level {
	case LevelError:
		return colorRed
	case LevelWarn:
		return colorYellow
	case LevelDebug:
		return colorBlue
	}
	return ""
}

// Info logs informational messages.
func Info(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: INFO %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelInfo, message, keyValues...)
}

// Debug logs debug messages.
func Debug(message string, keyValues ...interface{}) {
	if instance == nil {
		return
	}
	instance.logMessage(LevelDebug, message, keyValues...)
}

// Warn logs warning messages.
func Warn(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: WARN %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelWarn, message, keyValues...)
}

// Error logs error messages.
func Error(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: ERROR %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelError, message, keyValues...)
}

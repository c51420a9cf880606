package logger

import (
	"time"
)

// Console configures logging to stdout and stderr.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool // human readable output instead of json lines
}

// Roll configures one rolling log file.
type Roll struct {
	Name       string // file name inside LogFile.Path
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
}

// LogFile configures file logging. Every level family gets its own file.
type LogFile struct {
	Enabled bool
	Path    string

	Access Roll // http access log written by the fiber adapter
	Error  Roll // error, fatal and panic
	Info   Roll // debug and info
	Trace  Roll
	Warn   Roll
}

// DataDog configures log shipping to datadog.
type DataDog struct {
	ServiceName string
	APIKey      string
	Enabled     bool
	Site        string        // DD_SITE, e.g. datadoghq.eu
	URL         string        // optional intake url, overrides Site
	MinLevel    string        // lowest level shipped, defaults to warn
	Timeout     time.Duration // per submitted line
}

// Log is the logger configuration.
type Log struct {
	LogLevel string // trace, debug, info, warn, error
	LogEnv   string

	// EnableAccessLogToConsole writes the access log to stdout as well.
	// It has no effect while Console.Enabled is false.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // skip /checkalive in the access log

	AppName     string
	ServiceName string

	Console Console
	File    LogFile
	DataDog DataDog
}

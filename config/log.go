package config

import (
	"io"

	"github.com/charmbracelet/log"
)

const logPrefix = "glifecycle"

type LogConfig struct {
	Level  string
	Format string
}

// NewLogger builds the logger described by c, writing to w. Unknown levels fall back to info,
// unknown formats to text.
func (c *LogConfig) NewLogger(w io.Writer) *log.Logger {
	level, levelError := log.ParseLevel(c.Level)
	if nil != levelError || "" == c.Level {
		level = log.InfoLevel
	}

	var formatter log.Formatter
	switch c.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		formatter = log.TextFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          logPrefix,
		ReportTimestamp: log.TextFormatter == formatter,
	})
}

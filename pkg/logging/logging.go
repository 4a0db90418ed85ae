// Package logging provides the logger interface used across ipsex and its
// logrus-backed implementation.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Logger interface {
	Tracef(format string, args ...interface{})
	Trace(args ...interface{})
	Debugf(format string, args ...interface{})
	Debug(args ...interface{})
	Infof(format string, args ...interface{})
	Info(args ...interface{})
	Warningf(format string, args ...interface{})
	Warning(args ...interface{})
	Errorf(format string, args ...interface{})
	Error(args ...interface{})
	WithField(key string, value interface{}) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
	WriterLevel(logrus.Level) *io.PipeWriter
	NewEntry() *logrus.Entry
	SetLevel(logrus.Level)
	Metrics() []prometheus.Collector
}

type logger struct {
	*logrus.Logger
	metrics metrics
}

func New(w io.Writer, level logrus.Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	metrics := newMetrics()
	l.AddHook(metrics)
	return &logger{
		Logger:  l,
		metrics: metrics,
	}
}

func (l *logger) NewEntry() *logrus.Entry {
	return logrus.NewEntry(l.Logger)
}

func (l *logger) Metrics() []prometheus.Collector {
	return []prometheus.Collector{l.metrics.ErrorCount, l.metrics.WarnCount, l.metrics.InfoCount, l.metrics.DebugCount, l.metrics.TraceCount}
}

// ParseLevel accepts both level names and the numeric verbosity 0-5.
func ParseLevel(v string) (logrus.Level, error) {
	switch strings.ToLower(v) {
	case "0", "silent":
		return logrus.PanicLevel, nil
	case "1", "error":
		return logrus.ErrorLevel, nil
	case "2", "warn", "warning":
		return logrus.WarnLevel, nil
	case "3", "info":
		return logrus.InfoLevel, nil
	case "4", "debug":
		return logrus.DebugLevel, nil
	case "5", "trace":
		return logrus.TraceLevel, nil
	default:
		return 0, fmt.Errorf("unknown verbosity level %q", v)
	}
}

var std = New(os.Stderr, logrus.InfoLevel)

// Default returns the package level logger used by code that is not handed
// one explicitly, such as the RPC helpers.
func Default() Logger {
	return std
}

// SetDefault replaces the package level logger.
func SetDefault(l Logger) {
	if l != nil {
		std = l
	}
}

func Tracef(format string, args ...interface{}) {
	std.Tracef(format, args...)
}

func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

func Warningf(format string, args ...interface{}) {
	std.Warningf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}

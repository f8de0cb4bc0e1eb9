package logger

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	globalLogger *logrus.Logger
	once         sync.Once
)

// Initialize sets up the global logger from LOG_LEVEL and LOG_FORMAT.
func Initialize() *logrus.Logger {
	once.Do(func() {
		globalLogger = New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	})
	return globalLogger
}

// New builds a logger writing to stdout. Unknown levels default to info,
// any format other than "text" is JSON.
func New(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(parseLevel(level))

	if strings.ToLower(format) == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			ForceColors:      true,
			CallerPrettyfier: callerPrettyfier,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  "2006-01-02T15:04:05.000Z07:00",
			CallerPrettyfier: callerPrettyfier,
		})
	}

	logger.SetReportCaller(true)
	logger.SetOutput(os.Stdout)
	return logger
}

// Get returns the global logger instance, initializing it if necessary
func Get() *logrus.Logger {
	return Initialize()
}

// WithModule creates a new entry with module name
func WithModule(moduleName string) *logrus.Entry {
	return Get().WithField("module", moduleName)
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func callerPrettyfier(f *runtime.Frame) (string, string) {
	filename := path.Base(f.File)
	return fmt.Sprintf("%s()", f.Function), fmt.Sprintf("%s:%d", filename, f.Line)
}

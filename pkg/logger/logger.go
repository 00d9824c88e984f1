package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

var (
	log      *logrus.Logger
	logMutex sync.Mutex
)

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	logMutex.Lock()
	defer logMutex.Unlock()

	if log == nil {
		log = newLogger(os.Stderr, logrus.WarnLevel)
	}
	return log
}

// Configure sets the level and output of the global logger.
// An empty level keeps the current one.
func Configure(level string, out io.Writer) error {
	l := GetLogger()

	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		l.SetLevel(parsed)
	}
	if out != nil {
		l.SetOutput(out)
	}
	return nil
}

// WrapError logs an error together with its context and returns it unchanged
func WrapError(err error, context map[string]interface{}) error {
	if err == nil {
		return nil
	}

	GetLogger().WithFields(logrus.Fields(context)).WithError(err).Error("Operation failed")

	return err
}

// ResetLogger resets the global logger instance (for testing only)
func ResetLogger() {
	logMutex.Lock()
	defer logMutex.Unlock()
	log = nil
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)

	// JSON format for better parsing
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: timestampFormat,
	})
	return l
}

package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init initializes the logger with the specified level and format ("text" or "json")
func Init(level string, format ...string) error {
	f := "text"
	if len(format) > 0 && format[0] != "" {
		f = format[0]
	}

	switch f {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", f)
	}

	// Parse and set log level
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	return nil
}

// SetOutput redirects log output, mainly for tests
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Debug logs a debug message
func Debug(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		log.WithFields(fields[0]).Debug(msg)
	} else {
		log.Debug(msg)
	}
}

// Info logs an info message
func Info(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		log.WithFields(fields[0]).Info(msg)
	} else {
		log.Info(msg)
	}
}

// Warn logs a warning, optionally with the error that caused it
func Warn(msg string, err error, fields ...map[string]interface{}) {
	entry := logrus.NewEntry(log)
	if len(fields) > 0 {
		entry = entry.WithFields(fields[0])
	}
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}

// Error logs an error message
func Error(msg string, err error, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		log.WithFields(fields[0]).WithError(err).Error(msg)
	} else {
		log.WithError(err).Error(msg)
	}
}

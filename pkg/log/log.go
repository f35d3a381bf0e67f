package log

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func WithField(key string, value interface{}) *logrus.Entry {
	return logger.WithField(key, value)
}

// Logger returns the process-wide logger.
func Logger() *logrus.Logger {
	return logger
}

// Configure sets the level (logrus names, default info) and the output
// format ("text" or "json").
func Configure(level, format string) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return errors.Wrap(err, "invalid logging level")
		}
		logger.SetLevel(lvl)
	}
	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("unknown logging format %q", format)
	}
	return nil
}

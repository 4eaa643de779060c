// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Setup routes logrus output to path (or stderr when path is empty) at
// the given level. The returned closer releases the log file.
func Setup(path, level string) (io.Closer, error) {
	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", level)
		}
		lvl = parsed
	}

	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		DisableColors:   path != "",
	})

	if path == "" {
		logrus.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open log file %s", path)
	}
	logrus.SetOutput(f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

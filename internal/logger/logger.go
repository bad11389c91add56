// Package logger holds the process-wide logrus logger of the command line
// tools.
package logger

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// Init sets the level and output of Logger. An empty level keeps "info".
func Init(level string, w io.Writer) error {
	if w == nil {
		w = os.Stderr
	}
	Logger.SetOutput(w)
	Logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	Logger.SetLevel(lvl)
	return nil
}

func Debug(args ...interface{}) { Logger.Debug(args...) }

func Info(args ...interface{}) { Logger.Info(args...) }

func Warn(args ...interface{}) { Logger.Warn(args...) }

func Error(args ...interface{}) { Logger.Error(args...) }

func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

// setupLogging configures the global logger. verbose wins over level.
func setupLogging(w io.Writer, level string, verbose bool) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}

	ll, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Failed to parse the log level %s, error %s, fallback to warn level", level, err.Error())
		ll = logrus.WarnLevel
	}
	logrus.SetLevel(ll)
}

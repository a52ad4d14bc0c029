package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Init configures the shared logger. Safe to call once at startup;
// subsequent calls are no-ops.
func Init(level string) {
	once.Do(func() {
		log = logrus.New()
		log.SetOutput(os.Stdout)
		log.SetFormatter(&logrus.JSONFormatter{})

		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			lvl = logrus.InfoLevel
		}
		log.SetLevel(lvl)
	})
}

// GetLogger returns the shared logger, initializing it with defaults if
// Init was never called (tests, tooling).
func GetLogger() *logrus.Logger {
	if log == nil {
		Init("info")
	}
	return log
}

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

// Init configures the process-wide logger. Safe to call once from main.
func Init(level, format string) {
	once.Do(func() {
		log = logrus.New()

		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			parsed = logrus.InfoLevel
		}
		log.SetLevel(parsed)

		if format == "json" {
			log.SetFormatter(&logrus.JSONFormatter{
				TimestampFormat: "2006-01-02 15:04:05",
			})
		} else {
			log.SetFormatter(&logrus.TextFormatter{
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})
		}
		log.SetOutput(os.Stdout)
	})
}

// L returns the shared logger, initializing defaults if Init was skipped (tests).
func L() *logrus.Logger {
	if log == nil {
		Init("info", "text")
	}
	return log
}

// WithFields is a shorthand for structured entries.
func WithFields(fields map[string]any) *logrus.Entry {
	return L().WithFields(logrus.Fields(fields))
}

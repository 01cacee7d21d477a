package logger

import (
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// New builds the service logger. Unknown levels fall back to info, any
// format other than json uses the text formatter.
func New(level, format string) *logrus.Logger {
	log := logrus.New() // Fresh logger, never the global one
	// Pick formatter
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true}) // Same as the server default
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel // Unknown level names fall back to info
	}
	log.SetLevel(lvl)
	return log
}

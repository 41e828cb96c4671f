package logger

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger. JSON output for normal runs,
// human-readable text with debug level when debug is enabled.
func Setup(debug bool) {
	formatter := &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	log.SetFormatter(formatter)
	log.SetLevel(log.InfoLevel)

	if debug {
		log.SetFormatter(&log.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
		log.SetLevel(log.DebugLevel)
	}
}

package utils

import (
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/logfmt"
	"github.com/apex/log/handlers/text"
)

// NewLogger builds a logger writing to output in the given format: "json",
// "text" or logfmt for anything else.
func NewLogger(format string, level log.Level, debug bool, output io.Writer) *log.Logger {
	logger := &log.Logger{}

	if debug {
		logger.Level = log.DebugLevel
	} else {
		logger.Level = level
	}

	switch format {
	case "json":
		logger.Handler = json.New(output)
	case "text":
		logger.Handler = text.New(output)
	default:
		logger.Handler = logfmt.New(output)
	}

	return logger
}

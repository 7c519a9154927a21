// Package logging hands out scoped leveled loggers for the engine. Levels
// are controlled through the PION_LOG_* environment variables understood by
// the default pion factory.
package logging

import (
	"github.com/pion/logging"
)

var loggerFactory = logging.NewDefaultLoggerFactory()

// NewLogger returns a leveled logger for the given scope, e.g.
// "frameengine/cache".
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}

// Package logging wires up the worker's structured operator logger.
package logging

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide logger. DEBUG=1 switches to zap's
// development encoder (human-readable, caller lines); otherwise the
// production JSON encoder is used, matching the teacher's env-gated
// dev/prod split.
func New() *zap.Logger {
	if os.Getenv("DEBUG") == "1" {
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

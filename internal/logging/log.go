// Package logging builds the structured diagnostic logger.
package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog logger writing JSON lines to w. Unknown levels
// fall back to error.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.ErrorLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

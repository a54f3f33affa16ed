// Package logging builds the zerolog logger used for --debug output.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at debug level when debug is
// set, and a disabled logger otherwise.
func New(w io.Writer, debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}

	consoleWriter := zerolog.NewConsoleWriter()
	consoleWriter.Out = w
	consoleWriter.NoColor = true
	consoleWriter.TimeFormat = time.TimeOnly

	return zerolog.New(consoleWriter).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}

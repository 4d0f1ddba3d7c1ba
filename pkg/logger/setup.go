package logger

import (
	"io"
)

// SetupLogger builds the process logger from the logging settings.
// A nil output means stderr.
func SetupLogger(level LogLevel, logJSON, logSource bool, output io.Writer) Logger {
	return NewLogger(&Config{
		Level:      level,
		Output:     output,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
}

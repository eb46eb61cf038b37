// Package monitoring carries the report's diagnostic logging and run metrics.
package monitoring

import "log"

// Logf is the package-level diagnostic logger used by every pipeline stage.
// It defaults to log.Printf; SetLogger redirects or mutes it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Stagef logs a message tagged with the pipeline stage that produced it,
// e.g. "[load] read 412 rows".
func Stagef(stage, format string, v ...interface{}) {
	Logf("["+stage+"] "+format, v...)
}

// Package logging holds the single shared logger instance used across the
// decode engine, layout, mixer and render packages, so a caller's
// vgmstream.SetLogger call (see the root package's logging.go) changes
// every internal package's log destination at once.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// L is the package-level logger. Mid-decode soft faults (corrupt frame,
// blocked-layout offset corruption, decode-deadlock fallback) log at Warn;
// loop-end hits log at Debug.
var L = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Level:           log.WarnLevel,
})

// Set replaces the shared logger, e.g. so a host application can redirect
// to its own sink or raise the verbosity to Debug.
func Set(l *log.Logger) {
	if l != nil {
		L = l
	}
}

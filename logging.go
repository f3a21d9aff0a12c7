package vgmstream

import (
	"github.com/charmbracelet/log"

	internallog "github.com/vgmstream/vgmstream-go/internal/logging"
)

// SetLogger replaces the package-wide logger every internal layer that logs
// (decode engine, mixer, layout, render) writes diagnostics through. The
// default logs warnings and above to stderr.
func SetLogger(l *log.Logger) {
	internallog.Set(l)
}

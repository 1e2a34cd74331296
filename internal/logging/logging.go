// Package logging builds the installer's diagnostic logger.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/ytani/musicbox-installer/internal/branding"
)

// New returns a logger writing to w, prefixed with the CLI name.
// Verbose enables debug output.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: branding.CLIName(),
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Discard returns a logger that drops everything. Used by tests and library
// callers that do not care about diagnostics.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

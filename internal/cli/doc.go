// Package cli defines the installer's single Cobra command. It parses flags,
// loads configuration from the working directory and hands the run to
// internal/installer; it only handles flag parsing, help output and exit
// codes.
package cli

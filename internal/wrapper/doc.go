// Package wrapper renders the launcher script that starts the installed
// Python package from its .in template.
//
// A template carries five %%% NAME %%% tokens. Build substitutes them,
// writes the script into the build directory with mode 0755 and records it
// in the installed-artifacts manifest.
package wrapper

// Package runtime runs the external tools the installer drives: the system
// package manager (apt) and pip through the virtual environment's Python.
// All process execution goes through the Runner interface so install steps
// can be exercised without touching the host.
package runtime

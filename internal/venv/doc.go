// Package venv finds and activates the Python virtual environment the
// package is installed into. An environment is either already active
// (VIRTUAL_ENV is set) or is an ancestor of the project directory that holds
// bin/activate; activation sources that script in an embedded shell and
// keeps the resulting variables as an explicit environment for child
// processes.
package venv

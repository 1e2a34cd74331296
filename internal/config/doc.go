// Package config resolves installer settings from an optional installer.yaml
// in the project directory and MUSICBOX_* environment variables into a single
// Config value that is passed explicitly to every install step.
package config

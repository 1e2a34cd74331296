// Package branding names the things this installer is built around: the
// Python package it installs, the launcher script it generates, its own
// command name and the prefix of its environment overrides.
//
// The values come from the embedded branding.yaml. config.Load uses them as
// defaults for the package and wrapper keys and as the MUSICBOX env prefix,
// and the CLI uses them for its name and help text.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	EnvPrefix   string `yaml:"env_prefix"`
	PackageName string `yaml:"package_name"`
	WrapperName string `yaml:"wrapper_name"`
}

func load() {
	once.Do(func() {
		// Used when branding.yaml omits a key.
		defaults = brand{
			CLIName:     "installer",
			DisplayName: "Robot Music Box",
			Description: "Install or uninstall the Robot Music Box package",
			EnvPrefix:   "MUSICBOX",
			PackageName: "ytani_tcpcmd",
			WrapperName: "musicbox",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "installer").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the environment variable prefix (e.g., "MUSICBOX").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// PackageName returns the Python distribution/import name.
func PackageName() string { load(); return defaults.PackageName }

// WrapperName returns the file name of the generated launcher script.
func WrapperName() string { load(); return defaults.WrapperName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("bin_dir") → "MUSICBOX_BIN_DIR".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/ytani/musicbox-installer/internal/branding"
)

const (
	fileName = "installer"
	fileType = "yaml"
)

// Config keys, usable in installer.yaml or as MUSICBOX_<KEY> env vars.
const (
	KeyBuildDir = "build_dir"
	KeyBinDir   = "bin_dir"
	KeyPackage  = "package"
	KeyWrapper  = "wrapper"
	KeyPkgsFile = "pkgs_file"
	KeyPython   = "python"
	KeyApt      = "apt"
	KeySudo     = "sudo"
	KeyWorkDir  = "work_dir"
	KeyWebRoot  = "web_root"
)

// ManifestFile is the name of the installed-artifacts manifest inside the build dir.
const ManifestFile = "installed"

// TemplateSuffix is appended to the wrapper name to find its template.
const TemplateSuffix = ".in"

// Config is the resolved settings for one installer run. Every path is absolute.
type Config struct {
	ProjectDir  string
	BuildDir    string
	BinDir      string
	PackageName string
	WrapperName string
	PkgsFile    string
	Python      string
	Apt         string
	Sudo        string
	WorkDir     string
	WebRoot     string

	// Fast skips upgrading pip/setuptools/wheel.
	Fast bool
}

// ManifestPath returns build/installed.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.BuildDir, ManifestFile)
}

// TemplatePath returns <project>/<wrapper>.in.
func (c *Config) TemplatePath() string {
	return filepath.Join(c.ProjectDir, c.WrapperName+TemplateSuffix)
}

// FilePath returns the path of the optional config file for a project dir.
func FilePath(projectDir string) string {
	return filepath.Join(projectDir, fileName+"."+fileType)
}

// Load reads installer.yaml (if present) from projectDir, overlays
// MUSICBOX_* environment variables, and resolves the result into a Config.
func Load(projectDir string) (*Config, error) {
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(FilePath(projectDir))
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	// The wrapper template historically reads WORKDIR and WEBROOT unprefixed.
	_ = v.BindEnv(KeyWorkDir, branding.EnvVar(KeyWorkDir), "WORKDIR")
	_ = v.BindEnv(KeyWebRoot, branding.EnvVar(KeyWebRoot), "WEBROOT")

	v.SetDefault(KeyBuildDir, "build")
	v.SetDefault(KeyBinDir, "~/bin")
	v.SetDefault(KeyPackage, branding.PackageName())
	v.SetDefault(KeyWrapper, branding.WrapperName())
	v.SetDefault(KeyPkgsFile, "pkgs.txt")
	v.SetDefault(KeyPython, "python3")
	v.SetDefault(KeyApt, "apt")
	v.SetDefault(KeySudo, "sudo")

	if _, err := os.Stat(FilePath(projectDir)); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", FilePath(projectDir), err)
		}
	}

	cfg := &Config{
		ProjectDir:  projectDir,
		PackageName: v.GetString(KeyPackage),
		WrapperName: v.GetString(KeyWrapper),
		Python:      v.GetString(KeyPython),
		Apt:         v.GetString(KeyApt),
		Sudo:        v.GetString(KeySudo),
		WorkDir:     v.GetString(KeyWorkDir),
		WebRoot:     v.GetString(KeyWebRoot),
	}

	if cfg.PackageName == "" {
		return nil, fmt.Errorf("config key %q must not be empty", KeyPackage)
	}
	if cfg.WrapperName == "" || strings.ContainsAny(cfg.WrapperName, `/\`) {
		return nil, fmt.Errorf("config key %q must be a plain file name, got %q", KeyWrapper, cfg.WrapperName)
	}

	if cfg.BuildDir, err = resolvePath(projectDir, v.GetString(KeyBuildDir)); err != nil {
		return nil, err
	}
	if cfg.BinDir, err = resolvePath(projectDir, v.GetString(KeyBinDir)); err != nil {
		return nil, err
	}
	if cfg.PkgsFile, err = resolvePath(projectDir, v.GetString(KeyPkgsFile)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolvePath expands a leading "~" and anchors relative paths at base.
func resolvePath(base, p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p), nil
}

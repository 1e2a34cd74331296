package installer

import (
	"context"
	"fmt"
	"os"

	"github.com/ytani/musicbox-installer/internal/manifest"
	"github.com/ytani/musicbox-installer/internal/runtime"
)

// Uninstall removes every recorded artifact, uninstalls the package and
// deletes the build directory. A missing manifest is not an error.
func (in *Installer) Uninstall(ctx context.Context) error {
	cfg := in.Config

	in.step("Removing installed files")
	m, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return err
	}
	if m == nil {
		in.Log.Debug("no manifest, nothing recorded to remove", "path", cfg.ManifestPath())
	} else {
		in.Log.Debug("manifest loaded", "path", cfg.ManifestPath(), "artifacts", m.Paths())
		if err := in.removeArtifacts(m); err != nil {
			return err
		}
	}

	in.step("Uninstalling %s", cfg.PackageName)
	py := in.uninstallPython(ctx)
	if err := py.Uninstall(ctx, cfg.PackageName); err != nil {
		in.Log.Warn("package uninstall failed", "err", err)
	}

	in.step("Removing %s", cfg.BuildDir)
	if err := os.RemoveAll(cfg.BuildDir); err != nil {
		return fmt.Errorf("removing build directory: %w", err)
	}

	fmt.Fprintf(in.Out, "\n✓ Uninstalled %s\n", cfg.PackageName)
	return nil
}

func (in *Installer) removeArtifacts(m *manifest.Manifest) error {
	results, err := manifest.RemoveArtifacts(m)
	for _, r := range results {
		switch r.Status {
		case manifest.StatusRemoved:
			fmt.Fprintf(in.Out, "  ✓ removed %s\n", r.Artifact.Path)
		case manifest.StatusMissing:
			fmt.Fprintf(in.Out, "  - %s already gone\n", r.Artifact.Path)
		case manifest.StatusRefused:
			fmt.Fprintf(in.Out, "  ✗ %s is a directory, left in place\n", r.Artifact.Path)
		}
		if r.Modified {
			in.Log.Warn("file changed since it was installed", "path", r.Artifact.Path)
		}
	}
	return err
}

// uninstallPython returns the environment's Python, or the configured
// interpreter on PATH when no environment can be resolved.
func (in *Installer) uninstallPython(ctx context.Context) *runtime.Python {
	env, err := in.resolveEnv(ctx)
	if err == nil {
		return in.python(env)
	}

	in.Log.Warn("no virtual environment, uninstalling with the interpreter on PATH", "python", in.Config.Python)
	in.Log.Debug("environment resolution failed", "err", err)
	return &runtime.Python{
		Runner:      in.Runner,
		Interpreter: in.Config.Python,
		Env:         in.Environ,
		Dir:         in.Config.ProjectDir,
	}
}

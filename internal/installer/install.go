package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ytani/musicbox-installer/internal/manifest"
	"github.com/ytani/musicbox-installer/internal/platform"
	"github.com/ytani/musicbox-installer/internal/runtime"
	"github.com/ytani/musicbox-installer/internal/venv"
	"github.com/ytani/musicbox-installer/internal/wrapper"
)

// Install runs the full install sequence. The virtual environment is
// resolved first so that a missing one aborts before anything is installed.
func (in *Installer) Install(ctx context.Context) error {
	cfg := in.Config

	in.step("Resolving virtual environment")
	env, err := in.resolveEnv(ctx)
	if err != nil {
		return err
	}
	if env.Activated {
		fmt.Fprintf(in.Out, "  activated %s\n", env.Dir)
	} else {
		fmt.Fprintf(in.Out, "  using active %s\n", env.Dir)
	}

	if err := in.installOSPackages(ctx); err != nil {
		return err
	}

	py := in.python(env)

	built, err := in.buildWrapper(ctx, py, env)
	if err != nil {
		return err
	}
	if built {
		if err := in.deploy(); err != nil {
			return err
		}
	}

	if err := in.bootstrapPip(ctx, py); err != nil {
		return err
	}

	in.step("Installing %s", cfg.PackageName)
	if err := py.Install(ctx, cfg.ProjectDir); err != nil {
		return err
	}

	fmt.Fprintf(in.Out, "\n✓ Installed %s into %s\n", cfg.PackageName, env.Dir)
	return nil
}

func (in *Installer) installOSPackages(ctx context.Context) error {
	pkgs, err := runtime.ReadPackageList(in.Config.PkgsFile)
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		in.Log.Debug("no OS packages to install", "file", in.Config.PkgsFile)
		return nil
	}

	in.step("Installing OS packages")
	pm := runtime.NewPackageManager(in.Runner, in.Config.Apt, in.Config.Sudo)
	in.Log.Debug("running package manager", "command", pm.InstallCommand(pkgs).String())
	return pm.Install(ctx, pkgs)
}

// buildWrapper renders the wrapper template. It reports false when the
// project has no template.
func (in *Installer) buildWrapper(ctx context.Context, py *runtime.Python, env *venv.Env) (bool, error) {
	cfg := in.Config
	in.step("Building %s", cfg.WrapperName)
	vals := wrapper.Values{
		Package: cfg.PackageName,
		Version: in.packageVersion(ctx, py),
		VenvDir: env.Dir,
		WorkDir: cfg.WorkDir,
		WebRoot: cfg.WebRoot,
	}
	in.Log.Debug("template values", "version", vals.Version, "venv", vals.VenvDir,
		"workdir", vals.WorkDir, "webroot", vals.WebRoot)

	res, err := wrapper.Build(cfg, vals)
	if errors.Is(err, wrapper.ErrNoTemplate) {
		fmt.Fprintf(in.Out, "  %s not found, skipping\n", cfg.TemplatePath())
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("building wrapper: %w", err)
	}
	if res.CreatedBuildDir {
		in.Log.Debug("created build directory", "dir", cfg.BuildDir)
	}
	if res.Replaced {
		in.Log.Debug("replaced previous build record", "path", res.Path)
	}
	for _, tok := range res.Leftovers {
		in.Log.Warn("unreplaced token in wrapper", "token", tok, "file", res.Path)
	}
	if res.SyntaxErr != nil {
		in.Log.Warn("generated wrapper does not parse as shell", "err", res.SyntaxErr)
	}

	fmt.Fprintf(in.Out, "----- %s -----\n%s-----\n", res.Path, res.Preview)
	return true, nil
}

// packageVersion asks the environment's Python for the installed version and
// falls back to __version__ in the package source.
func (in *Installer) packageVersion(ctx context.Context, py *runtime.Python) string {
	cfg := in.Config
	v, err := py.PackageVersion(ctx, cfg.PackageName)
	if err != nil {
		in.Log.Debug("package metadata unavailable", "err", err)
		if v, err = wrapper.VersionFromSource(cfg.ProjectDir, cfg.PackageName); err != nil {
			in.Log.Warn("package version unknown", "err", err)
			return "unknown"
		}
	}
	return wrapper.NormalizeVersion(v)
}

// deploy copies every generated artifact into the bin directory and records
// the copies.
func (in *Installer) deploy() error {
	cfg := in.Config
	in.step("Deploying to %s", cfg.BinDir)

	if err := os.MkdirAll(cfg.BinDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", cfg.BinDir, err)
	}

	m, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("manifest %s missing after build", cfg.ManifestPath())
	}

	for _, a := range m.ByKind(manifest.KindGenerated) {
		dst := filepath.Join(cfg.BinDir, filepath.Base(a.Path))
		if err := platform.CopyFile(a.Path, dst); err != nil {
			return fmt.Errorf("copying %s: %w", a.Path, err)
		}
		fmt.Fprintf(in.Out, "'%s' -> '%s'\n", a.Path, dst)

		sum, err := manifest.Digest(dst)
		if err != nil {
			return err
		}
		if !m.Add(manifest.Artifact{Path: dst, Kind: manifest.KindDeployed, SHA256: sum}) {
			in.Log.Debug("replaced previous deployment record", "path", dst)
		}
	}
	return manifest.Save(cfg.ManifestPath(), m)
}

func (in *Installer) bootstrapPip(ctx context.Context, py *runtime.Python) error {
	if in.Config.Fast {
		in.Log.Debug("fast mode, not upgrading pip")
	} else {
		in.step("Upgrading pip, setuptools and wheel")
		if err := py.UpgradeTooling(ctx); err != nil {
			return err
		}
	}

	version, err := py.PipVersion(ctx)
	if err != nil {
		var ce *runtime.CommandError
		if errors.As(err, &ce) {
			return err
		}
		in.Log.Warn("could not determine pip version", "err", err)
		return nil
	}
	fmt.Fprintf(in.Out, "  pip %s\n", version)

	outdated, err := runtime.PipOutdated(version)
	switch {
	case err != nil:
		in.Log.Debug("pip version is not semver", "version", version)
	case outdated:
		in.Log.Warn("pip is older than "+runtime.MinPipVersion+"; run without -f to upgrade it", "version", version)
	}
	return nil
}

package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinPipVersion is the oldest pip that builds pyproject-based packages (PEP 517).
const MinPipVersion = "19.0.0"

// Python drives pip through a specific interpreter.
type Python struct {
	Runner Runner
	// Interpreter is the python executable, normally inside the virtual environment.
	Interpreter string
	// Env is the activated environment passed to every invocation.
	Env []string
	// Dir is the working directory, normally the project directory.
	Dir string
}

func (p *Python) command(args ...string) Command {
	return Command{Name: p.Interpreter, Args: args, Dir: p.Dir, Env: p.Env}
}

func (p *Python) pip(args ...string) Command {
	return p.command(append([]string{"-m", "pip"}, args...)...)
}

// UpgradeTooling upgrades pip, setuptools, and wheel in the environment.
func (p *Python) UpgradeTooling(ctx context.Context) error {
	if err := p.Runner.Run(ctx, p.pip("install", "-U", "pip", "setuptools", "wheel")); err != nil {
		return fmt.Errorf("upgrading packaging tools: %w", err)
	}
	return nil
}

// PipVersion returns the version reported by "pip --version".
func (p *Python) PipVersion(ctx context.Context) (string, error) {
	out, err := p.Runner.Output(ctx, p.pip("--version"))
	if err != nil {
		return "", fmt.Errorf("querying pip version: %w", err)
	}
	return ParsePipVersion(out)
}

// Install installs the package defined in dir.
func (p *Python) Install(ctx context.Context, dir string) error {
	if err := p.Runner.Run(ctx, p.pip("install", dir)); err != nil {
		return fmt.Errorf("installing %s: %w", dir, err)
	}
	return nil
}

// Uninstall removes pkg without prompting. pip itself exits zero when the
// package is not installed.
func (p *Python) Uninstall(ctx context.Context, pkg string) error {
	if err := p.Runner.Run(ctx, p.pip("uninstall", "-y", pkg)); err != nil {
		return fmt.Errorf("uninstalling %s: %w", pkg, err)
	}
	return nil
}

// PackageVersion asks the interpreter for the installed distribution version of pkg.
func (p *Python) PackageVersion(ctx context.Context, pkg string) (string, error) {
	script := fmt.Sprintf("import importlib.metadata as m; print(m.version(%q))", pkg)
	out, err := p.Runner.Output(ctx, p.command("-c", script))
	if err != nil {
		return "", fmt.Errorf("querying %s version: %w", pkg, err)
	}
	if out == "" {
		return "", fmt.Errorf("querying %s version: empty output", pkg)
	}
	return out, nil
}

// ParsePipVersion extracts the version from output such as
// "pip 23.0.1 from /env/lib/python3.11/site-packages/pip (python 3.11)".
func ParsePipVersion(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "pip" {
		return "", fmt.Errorf("unrecognized pip version output %q", out)
	}
	return fields[1], nil
}

// PipOutdated reports whether version is older than MinPipVersion.
func PipOutdated(version string) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("parsing pip version %q: %w", version, err)
	}
	return v.LessThan(semver.MustParse(MinPipVersion)), nil
}

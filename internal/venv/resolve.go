package venv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ytani/musicbox-installer/internal/runtime"
)

// EnvVar is the variable an activated environment exports.
const EnvVar = "VIRTUAL_ENV"

// ActivateScript is the marker file, relative to the environment root.
var ActivateScript = filepath.Join("bin", "activate")

// ErrNotFound is returned when no ancestor holds an activation script.
var ErrNotFound = errors.New("no Python virtual environment found")

// Env is an activated virtual environment.
type Env struct {
	// Dir is the environment root (the value of VIRTUAL_ENV).
	Dir string
	// Environ is the full environment for child processes.
	Environ []string
	// Activated is true when this process sourced the activation script,
	// false when the environment was already active.
	Activated bool
}

// Python returns the interpreter named name inside the environment, falling
// back to bin/python when the named one does not exist.
func (e *Env) Python(name string) string {
	if name != "" {
		if p := filepath.Join(e.Dir, "bin", name); isFile(p) {
			return p
		}
	}
	return filepath.Join(e.Dir, "bin", "python")
}

// Find walks from start through its ancestors and returns the first
// directory containing bin/activate. The walk ends when a directory is its
// own parent, so it terminates on any platform's root.
func Find(start string) (string, error) {
	dir, err := canonical(start)
	if err != nil {
		return "", err
	}

	for {
		if isFile(filepath.Join(dir, ActivateScript)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Resolve returns the active environment if base has VIRTUAL_ENV set,
// otherwise finds one above start and activates it.
func Resolve(ctx context.Context, start string, base []string) (*Env, error) {
	if active, ok := runtime.LookupEnv(base, EnvVar); ok && active != "" {
		return &Env{Dir: active, Environ: base}, nil
	}

	dir, err := Find(start)
	if err != nil {
		return nil, err
	}
	return Activate(ctx, dir, base)
}

// canonical returns the absolute, symlink-free form of path.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

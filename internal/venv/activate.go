package venv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ytani/musicbox-installer/internal/runtime"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Activate sources dir/bin/activate in an embedded POSIX shell seeded with
// base and returns the environment it leaves behind. External commands the
// script calls (hash, uname, ...) are not executed.
func Activate(ctx context.Context, dir string, base []string) (*Env, error) {
	script := filepath.Join(dir, ActivateScript)

	// virtualenv's activate refuses to run unless it looks sourced.
	seed := runtime.SetEnv(append([]string(nil), base...), "BASH_SOURCE", script)

	quoted, err := syntax.Quote(script, syntax.LangPOSIX)
	if err != nil {
		return nil, fmt.Errorf("quoting %s: %w", script, err)
	}
	file, err := syntax.NewParser().Parse(strings.NewReader(". "+quoted), "activate")
	if err != nil {
		return nil, fmt.Errorf("preparing activation of %s: %w", dir, err)
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(seed...)),
		interp.StdIO(nil, io.Discard, io.Discard),
		interp.ExecHandlers(skipExternal),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shell for %s: %w", script, err)
	}

	if err := runner.Run(ctx, file); err != nil {
		return nil, fmt.Errorf("sourcing %s: %w", script, err)
	}

	environ := mergeVars(base, runner.Vars)

	// Scripts that do not export VIRTUAL_ENV still mean this directory.
	if v, ok := runtime.LookupEnv(environ, EnvVar); !ok || v == "" {
		environ = runtime.SetEnv(environ, EnvVar, dir)
		path, _ := runtime.LookupEnv(environ, "PATH")
		environ = runtime.SetEnv(environ, "PATH", filepath.Join(dir, "bin")+string(os.PathListSeparator)+path)
	}

	venvDir, _ := runtime.LookupEnv(environ, EnvVar)
	return &Env{Dir: venvDir, Environ: environ, Activated: true}, nil
}

func skipExternal(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		return nil
	}
}

// mergeVars overlays the exported variables a script set (or unset) onto base.
func mergeVars(base []string, vars map[string]expand.Variable) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	for name, vr := range vars {
		switch name {
		case "BASH_SOURCE", "PWD", "OLDPWD":
			continue
		}
		if !vr.IsSet() {
			delete(env, name)
			continue
		}
		if vr.Exported {
			env[name] = vr.String()
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

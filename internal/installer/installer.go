package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ytani/musicbox-installer/internal/config"
	"github.com/ytani/musicbox-installer/internal/runtime"
	"github.com/ytani/musicbox-installer/internal/venv"
)

// Installer carries everything one run needs. Nothing is read from ambient
// process state after construction.
type Installer struct {
	Config *config.Config
	Runner runtime.Runner
	// Out receives operator-facing progress.
	Out io.Writer
	Log *log.Logger
	// Environ is the base environment for child processes.
	Environ []string
}

// New returns an Installer seeded with the current process environment.
func New(cfg *config.Config, r runtime.Runner, out io.Writer, logger *log.Logger) *Installer {
	return &Installer{
		Config:  cfg,
		Runner:  r,
		Out:     out,
		Log:     logger,
		Environ: os.Environ(),
	}
}

func (in *Installer) step(format string, args ...any) {
	fmt.Fprintf(in.Out, "\n==> "+format+"\n", args...)
}

// resolveEnv finds and activates the virtual environment, turning a failed
// search into instructions for the operator.
func (in *Installer) resolveEnv(ctx context.Context) (*venv.Env, error) {
	env, err := venv.Resolve(ctx, in.Config.ProjectDir, in.Environ)
	if errors.Is(err, venv.ErrNotFound) {
		return nil, fmt.Errorf(`%w in %s or any parent directory

Create and activate one, then run the installer again:

    cd ~
    python3 -m venv env
    . ~/env/bin/activate`, err, in.Config.ProjectDir)
	}
	if err != nil {
		return nil, fmt.Errorf("activating virtual environment: %w", err)
	}
	return env, nil
}

func (in *Installer) python(env *venv.Env) *runtime.Python {
	return &runtime.Python{
		Runner:      in.Runner,
		Interpreter: env.Python(in.Config.Python),
		Env:         env.Environ,
		Dir:         in.Config.ProjectDir,
	}
}

//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytani/musicbox-installer/internal/config"
	"github.com/ytani/musicbox-installer/internal/installer"
	"github.com/ytani/musicbox-installer/internal/logging"
	"github.com/ytani/musicbox-installer/internal/runtime"
)

// testEnv holds paths to an isolated project, virtual environment and bin dir.
type testEnv struct {
	Root       string
	VenvDir    string // contains bin/activate and a stub bin/python
	ProjectDir string // inside VenvDir, like a checkout under ~/env
	BinDir     string // MUSICBOX_BIN_DIR
	PythonLog  string // one line per stub python invocation
	AptLog     string // one line per stub apt invocation
}

const template = `#!/bin/bash
# %%% MY_PKG %%% %%% MY_VERSION %%%
VENVDIR="%%% VENVDIR %%%"
WORKDIR="%%% WORKDIR %%%"
WEBROOT="%%% WEBROOT %%%"
#
# main
#
exec "${VENVDIR}/bin/python" -m %%% MY_PKG %%% "$@"
`

// setupTestEnv creates a project inside a stub virtual environment. Python
// and apt are shell scripts that log their arguments.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	env := &testEnv{
		Root:      root,
		VenvDir:   filepath.Join(root, "env"),
		BinDir:    filepath.Join(root, "home", "bin"),
		PythonLog: filepath.Join(root, "python.log"),
		AptLog:    filepath.Join(root, "apt.log"),
	}
	env.ProjectDir = filepath.Join(env.VenvDir, "musicbox")

	writeFile(t, filepath.Join(env.VenvDir, "bin", "activate"), `deactivate () { :; }
VIRTUAL_ENV="`+env.VenvDir+`"
export VIRTUAL_ENV
_OLD_VIRTUAL_PATH="$PATH"
PATH="$VIRTUAL_ENV/bin:$PATH"
export PATH
hash -r 2> /dev/null
`, 0644)

	writeFile(t, filepath.Join(env.VenvDir, "bin", "python"), `#!/bin/sh
echo "$*" >> "`+env.PythonLog+`"
case "$*" in
  "-m pip --version") echo "pip 23.0.1 from `+env.VenvDir+`/lib/python3.11/site-packages/pip (python 3.11)" ;;
  -c*) exit 1 ;;
esac
exit 0
`, 0755)

	stubs := filepath.Join(root, "stubs")
	writeFile(t, filepath.Join(stubs, "apt"), "#!/bin/sh\necho \"$*\" >> \""+env.AptLog+"\"\n", 0755)
	writeFile(t, filepath.Join(stubs, "sudo"), "#!/bin/sh\nexec \"$@\"\n", 0755)

	writeFile(t, filepath.Join(env.ProjectDir, "musicbox.in"), template, 0644)
	writeFile(t, filepath.Join(env.ProjectDir, "ytani_tcpcmd", "__init__.py"), "__version__ = '0.0.0'\n", 0644)

	t.Setenv("MUSICBOX_BIN_DIR", env.BinDir)
	t.Setenv("MUSICBOX_APT", filepath.Join(stubs, "apt"))
	t.Setenv("MUSICBOX_SUDO", filepath.Join(stubs, "sudo"))
	t.Setenv("WORKDIR", "/srv/musicbox")
	t.Setenv("WEBROOT", "")
	return env
}

// newInstaller loads configuration for dir the way the CLI does and returns
// an installer with no virtual environment active.
func newInstaller(t *testing.T, env *testEnv, dir string) (*installer.Installer, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	var out bytes.Buffer
	runner := &runtime.ExecRunner{Stdout: &out, Stderr: &out}
	in := installer.New(cfg, runner, &out, logging.Discard())
	in.Environ = []string{"PATH=" + os.Getenv("PATH"), "HOME=" + env.Root}
	return in, &out
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// logLines returns the lines of a stub log, or nil if the stub never ran.
func logLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func assertLogged(t *testing.T, path, line string) {
	t.Helper()
	for _, l := range logLines(t, path) {
		if l == line {
			return
		}
	}
	t.Errorf("%s does not contain %q:\n%s", filepath.Base(path), line, strings.Join(logLines(t, path), "\n"))
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

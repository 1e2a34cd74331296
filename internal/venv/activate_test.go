package venv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytani/musicbox-installer/internal/runtime"
)

const stdlibActivate = `# This file must be used with "source bin/activate" *from bash*
deactivate () {
    if [ -n "${_OLD_VIRTUAL_PATH:-}" ] ; then
        PATH="${_OLD_VIRTUAL_PATH:-}"
        export PATH
        unset _OLD_VIRTUAL_PATH
    fi
    unset VIRTUAL_ENV
}

deactivate nondestructive

case "$(uname)" in
    CYGWIN*|MSYS*|MINGW*)
        VIRTUAL_ENV=$(cygpath "__DIR__")
        ;;
    *)
        VIRTUAL_ENV="__DIR__"
        ;;
esac
export VIRTUAL_ENV

_OLD_VIRTUAL_PATH="$PATH"
PATH="$VIRTUAL_ENV/bin:$PATH"
export PATH

if [ -n "${PYTHONHOME:-}" ] ; then
    _OLD_VIRTUAL_PYTHONHOME="${PYTHONHOME:-}"
    unset PYTHONHOME
fi

hash -r 2> /dev/null
`

func writeActivate(t *testing.T, root, body string) {
	t.Helper()
	bin := filepath.Join(root, "bin")
	if err := os.MkdirAll(bin, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bin, "activate"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestActivate_StdlibScript(t *testing.T) {
	root := t.TempDir()
	writeActivate(t, root, strings.ReplaceAll(stdlibActivate, "__DIR__", root))

	base := []string{"PATH=/usr/bin:/bin", "PYTHONHOME=/opt/python", "HOME=/home/pi"}
	env, err := Activate(context.Background(), root, base)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}

	if !env.Activated {
		t.Error("Activated should be true")
	}
	if env.Dir != root {
		t.Errorf("Dir = %q, want %q", env.Dir, root)
	}

	wantPath := filepath.Join(root, "bin") + ":/usr/bin:/bin"
	if got, _ := runtime.LookupEnv(env.Environ, "PATH"); got != wantPath {
		t.Errorf("PATH = %q, want %q", got, wantPath)
	}
	if got, _ := runtime.LookupEnv(env.Environ, "VIRTUAL_ENV"); got != root {
		t.Errorf("VIRTUAL_ENV = %q, want %q", got, root)
	}
	if got, _ := runtime.LookupEnv(env.Environ, "HOME"); got != "/home/pi" {
		t.Errorf("HOME = %q, want inherited value", got)
	}
	for _, key := range []string{"PYTHONHOME", "_OLD_VIRTUAL_PATH", "BASH_SOURCE"} {
		if v, ok := runtime.LookupEnv(env.Environ, key); ok {
			t.Errorf("%s should not be exported, got %q", key, v)
		}
	}
}

func TestActivate_VirtualenvGuard(t *testing.T) {
	root := t.TempDir()
	script := `if [ "${BASH_SOURCE-}" = "$0" ]; then
    echo "You must source this script: \$ source $0" >&2
    exit 33
fi
VIRTUAL_ENV='` + root + `'
export VIRTUAL_ENV
PATH="$VIRTUAL_ENV/bin:$PATH"
export PATH
`
	writeActivate(t, root, script)

	env, err := Activate(context.Background(), root, []string{"PATH=/usr/bin"})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if env.Dir != root {
		t.Errorf("Dir = %q, want %q", env.Dir, root)
	}
}

func TestActivate_ScriptWithoutExports(t *testing.T) {
	root := t.TempDir()
	writeActivate(t, root, "# nothing here\n")

	env, err := Activate(context.Background(), root, []string{"PATH=/usr/bin"})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got, _ := runtime.LookupEnv(env.Environ, "VIRTUAL_ENV"); got != root {
		t.Errorf("VIRTUAL_ENV = %q, want %q", got, root)
	}
	want := filepath.Join(root, "bin") + ":/usr/bin"
	if got, _ := runtime.LookupEnv(env.Environ, "PATH"); got != want {
		t.Errorf("PATH = %q, want %q", got, want)
	}
}

func TestActivate_FailingScript(t *testing.T) {
	root := t.TempDir()
	writeActivate(t, root, "exit 2\n")

	if _, err := Activate(context.Background(), root, nil); err == nil {
		t.Fatal("expected error from failing activation script")
	}
}

func TestActivate_SyntaxError(t *testing.T) {
	root := t.TempDir()
	writeActivate(t, root, "if then fi (\n")

	if _, err := Activate(context.Background(), root, nil); err == nil {
		t.Fatal("expected error from unparsable activation script")
	}
}

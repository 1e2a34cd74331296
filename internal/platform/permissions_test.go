package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}

	tests := []struct {
		name  string
		start os.FileMode
		apply func(string) error
		want  os.FileMode
	}{
		{"chmod private", 0644, func(p string) error { return Chmod(p, 0600) }, 0600},
		{"make executable from 0644", 0644, MakeExecutable, ExecPerm},
		{"make executable from 0700", 0700, MakeExecutable, ExecPerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "musicbox")
			if err := os.WriteFile(path, []byte("#!/bin/sh\n"), tt.start); err != nil {
				t.Fatal(err)
			}
			if err := tt.apply(path); err != nil {
				t.Fatalf("apply: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if got := info.Mode().Perm(); got != tt.want {
				t.Errorf("mode = %o, want %o", got, tt.want)
			}
		})
	}
}

func TestChmod_Missing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no-op on Windows")
	}
	if err := Chmod(filepath.Join(t.TempDir(), "absent"), 0644); err == nil {
		t.Error("expected error for missing file")
	}
}

package platform

import (
	"os"
	"runtime"
)

// ExecPerm is the mode given to generated launcher scripts.
const ExecPerm os.FileMode = 0755

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// MakeExecutable marks path as executable by everyone, readable by everyone,
// writable by the owner.
func MakeExecutable(path string) error {
	return Chmod(path, ExecPerm)
}

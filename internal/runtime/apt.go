package runtime

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ReadPackageList reads OS package names from path. Names are separated by
// whitespace or newlines and "#" starts a comment. A missing file yields an
// empty list.
func ReadPackageList(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening package list %s: %w", path, err)
	}
	defer f.Close()

	var pkgs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		pkgs = append(pkgs, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading package list %s: %w", path, err)
	}
	return pkgs, nil
}

// PackageManager installs OS packages with apt.
type PackageManager struct {
	Runner Runner
	// Apt is the apt executable, e.g. "apt".
	Apt string
	// Sudo is the privilege escalation command; empty runs apt directly.
	Sudo string
}

// NewPackageManager returns an apt package manager that escalates with sudo
// unless the process is already root.
func NewPackageManager(r Runner, apt, sudo string) *PackageManager {
	if os.Geteuid() == 0 {
		sudo = ""
	}
	return &PackageManager{Runner: r, Apt: apt, Sudo: sudo}
}

// InstallCommand builds "sudo apt install -y <pkgs...>".
func (m *PackageManager) InstallCommand(pkgs []string) Command {
	args := append([]string{"install", "-y"}, pkgs...)
	if m.Sudo == "" {
		return Command{Name: m.Apt, Args: args}
	}
	return Command{Name: m.Sudo, Args: append([]string{m.Apt}, args...)}
}

// Install installs pkgs. An empty list is a no-op.
func (m *PackageManager) Install(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	if err := m.Runner.Run(ctx, m.InstallCommand(pkgs)); err != nil {
		return fmt.Errorf("installing OS packages: %w", err)
	}
	return nil
}

package wrapper

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ytani/musicbox-installer/internal/config"
	"github.com/ytani/musicbox-installer/internal/manifest"
	"github.com/ytani/musicbox-installer/internal/platform"
)

// ErrNoTemplate is returned by Build when the project has no .in template.
var ErrNoTemplate = errors.New("wrapper template not found")

// Result describes a generated wrapper script.
type Result struct {
	// Path is the generated script inside the build directory.
	Path string
	// Digest is the hex SHA-256 of the generated script.
	Digest string
	// CreatedBuildDir is true when this build created the build directory.
	CreatedBuildDir bool
	// Preview is the script up to the main marker.
	Preview string
	// Leftovers lists unreplaced token markers.
	Leftovers []string
	// SyntaxErr is set when the script does not parse as shell.
	SyntaxErr error
	// Replaced is true when the manifest already recorded this script.
	Replaced bool
}

// Build renders cfg's wrapper template with v into the build directory and
// records the result in the manifest. Rebuilding overwrites the same file
// and replaces its manifest entry.
func Build(cfg *config.Config, v Values) (*Result, error) {
	tmpl, err := os.ReadFile(cfg.TemplatePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", cfg.TemplatePath(), ErrNoTemplate)
	}
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	res := &Result{Path: filepath.Join(cfg.BuildDir, cfg.WrapperName)}

	if _, err := os.Stat(cfg.BuildDir); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(cfg.BuildDir, 0755); err != nil {
			return nil, fmt.Errorf("creating build directory: %w", err)
		}
		if err := manifest.Init(cfg.ManifestPath(), cfg.PackageName); err != nil {
			return nil, err
		}
		res.CreatedBuildDir = true
	}

	script := Render(tmpl, v)
	if err := os.WriteFile(res.Path, script, platform.ExecPerm); err != nil {
		return nil, fmt.Errorf("writing %s: %w", res.Path, err)
	}
	if err := platform.MakeExecutable(res.Path); err != nil {
		return nil, fmt.Errorf("marking %s executable: %w", res.Path, err)
	}

	if res.Digest, err = manifest.Digest(res.Path); err != nil {
		return nil, err
	}
	added, err := record(cfg, manifest.Artifact{Path: res.Path, Kind: manifest.KindGenerated, SHA256: res.Digest})
	if err != nil {
		return nil, err
	}
	res.Replaced = !added

	res.Preview = Preview(script)
	res.Leftovers = Leftovers(script)
	res.SyntaxErr = CheckSyntax(script, cfg.WrapperName)
	return res, nil
}

// record adds a to the manifest, creating the manifest if it is missing. It
// reports whether a new entry was appended.
func record(cfg *config.Config, a manifest.Artifact) (bool, error) {
	m, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return false, err
	}
	if m == nil {
		m = manifest.New(cfg.PackageName)
	}
	if m.Package == "" {
		m.Package = cfg.PackageName
	}
	added := m.Add(a)
	return added, manifest.Save(cfg.ManifestPath(), m)
}

package manifest

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Load reads the manifest at path. It returns nil, nil if the file does not
// exist. A YAML manifest is validated against the schema; anything else is
// read as the legacy one-path-per-line format.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return New(""), nil
	}

	if !isYAMLDocument(data) {
		return parseLegacy(data), nil
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid manifest %s: %s", path, result.Summary())
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Artifacts == nil {
		m.Artifacts = []Artifact{}
	}
	return &m, nil
}

// Save writes m to path, replacing the previous file atomically.
func Save(path string, m *Manifest) error {
	for _, a := range m.Artifacts {
		if !a.Kind.Valid() {
			return fmt.Errorf("saving manifest: %s has unknown kind %q", a.Path, a.Kind)
		}
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalizing manifest %s: %w", path, err)
	}
	return nil
}

// Init creates an empty manifest for pkg at path unless one already exists.
func Init(path, pkg string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Save(path, New(pkg))
}

// Digest returns the hex SHA-256 of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// isYAMLDocument reports whether data is a structured manifest: a YAML
// mapping with a version key. Plain path lists decode to a scalar, or to a
// mapping when a path contains ": ", and are read as the legacy format.
func isYAMLDocument(data []byte) bool {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false
	}
	_, ok := raw["version"]
	return ok
}

// parseLegacy turns a plain-text manifest into a manifest of legacy artifacts.
// Blank lines are skipped and duplicate paths collapse to one entry.
func parseLegacy(data []byte) *Manifest {
	m := New("")
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m.Add(Artifact{Path: filepath.Clean(line), Kind: KindLegacy})
	}
	return m
}

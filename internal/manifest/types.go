package manifest

import "path/filepath"

// FormatVersion is the manifest document version written by this package.
const FormatVersion = 1

// Kind classifies an installed artifact.
type Kind string

// Artifact kinds.
const (
	// KindGenerated is a file rendered into the build directory.
	KindGenerated Kind = "generated"
	// KindDeployed is a copy placed outside the build directory.
	KindDeployed Kind = "deployed"
	// KindLegacy is a path read from a plain-text manifest.
	KindLegacy Kind = "legacy"
)

// ValidKinds contains all valid artifact kind values.
var ValidKinds = []Kind{KindGenerated, KindDeployed, KindLegacy}

// Valid reports whether k is one of ValidKinds.
func (k Kind) Valid() bool {
	for _, v := range ValidKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Artifact is one file the installer placed on disk.
type Artifact struct {
	Path   string `yaml:"path" json:"path"`
	Kind   Kind   `yaml:"kind" json:"kind"`
	SHA256 string `yaml:"sha256,omitempty" json:"sha256,omitempty"`
}

// Manifest is the ordered list of installed artifacts for one package.
type Manifest struct {
	Version   int        `yaml:"version" json:"version"`
	Package   string     `yaml:"package" json:"package"`
	Artifacts []Artifact `yaml:"artifacts" json:"artifacts"`
}

// New returns an empty manifest for pkg.
func New(pkg string) *Manifest {
	return &Manifest{Version: FormatVersion, Package: pkg, Artifacts: []Artifact{}}
}

// Add records a, replacing any existing record for the same path so that
// repeated installs never produce duplicate entries. It reports whether a
// new entry was appended.
func (m *Manifest) Add(a Artifact) bool {
	a.Path = filepath.Clean(a.Path)
	for i := range m.Artifacts {
		if filepath.Clean(m.Artifacts[i].Path) == a.Path {
			m.Artifacts[i] = a
			return false
		}
	}
	m.Artifacts = append(m.Artifacts, a)
	return true
}

// ByKind returns the artifacts of kind k in recorded order.
func (m *Manifest) ByKind(k Kind) []Artifact {
	var out []Artifact
	for _, a := range m.Artifacts {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// Paths returns every recorded path in order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Artifacts))
	for _, a := range m.Artifacts {
		paths = append(paths, a.Path)
	}
	return paths
}

package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// RemoveStatus describes what happened to one artifact during removal.
type RemoveStatus int

const (
	// StatusRemoved means the file was deleted.
	StatusRemoved RemoveStatus = iota
	// StatusMissing means the path no longer existed.
	StatusMissing
	// StatusRefused means the path exists but is not a file; it was left alone.
	StatusRefused
)

// String returns a human-readable name for the status.
func (s RemoveStatus) String() string {
	switch s {
	case StatusRemoved:
		return "removed"
	case StatusMissing:
		return "missing"
	case StatusRefused:
		return "refused"
	default:
		return "unknown"
	}
}

// RemoveResult is the outcome for a single artifact.
type RemoveResult struct {
	Artifact Artifact
	Status   RemoveStatus
	// Modified is set when the file's digest no longer matched the record.
	Modified bool
}

// RemoveArtifacts deletes every artifact in m, newest first. Each path is
// checked before deletion: absent paths are skipped, directories are refused,
// and a digest mismatch is flagged on the result but does not prevent
// removal. The first deletion failure stops the walk and is returned along
// with the results gathered so far.
func RemoveArtifacts(m *Manifest) ([]RemoveResult, error) {
	var results []RemoveResult
	for i := len(m.Artifacts) - 1; i >= 0; i-- {
		a := m.Artifacts[i]
		res := RemoveResult{Artifact: a}

		info, err := os.Lstat(a.Path)
		if errors.Is(err, fs.ErrNotExist) {
			res.Status = StatusMissing
			results = append(results, res)
			continue
		}
		if err != nil {
			return results, fmt.Errorf("inspecting %s: %w", a.Path, err)
		}
		if info.IsDir() {
			res.Status = StatusRefused
			results = append(results, res)
			continue
		}

		if a.SHA256 != "" && info.Mode().IsRegular() {
			if sum, err := Digest(a.Path); err == nil && sum != a.SHA256 {
				res.Modified = true
			}
		}

		if err := os.Remove(a.Path); err != nil {
			return results, fmt.Errorf("removing %s: %w", a.Path, err)
		}
		res.Status = StatusRemoved
		results = append(results, res)
	}
	return results, nil
}

// Package manifest records the files an install run placed on disk so that
// uninstall can reverse it. The manifest is a YAML document validated against
// an embedded JSON Schema; the older one-path-per-line text form is still
// read so that installs made before the YAML format can be removed.
package manifest

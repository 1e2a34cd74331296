// Package platform provides the small filesystem operations the installer
// needs on every OS: copying a file over an existing one while keeping its
// mode, and setting permission bits where the platform supports them.
package platform

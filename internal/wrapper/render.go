package wrapper

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Template tokens.
const (
	TokenPackage = "%%% MY_PKG %%%"
	TokenVersion = "%%% MY_VERSION %%%"
	TokenVenvDir = "%%% VENVDIR %%%"
	TokenWorkDir = "%%% WORKDIR %%%"
	TokenWebRoot = "%%% WEBROOT %%%"
)

var (
	leftoverPattern = regexp.MustCompile(`%%%\s*[A-Za-z0-9_]+\s*%%%`)
	mainMarker      = regexp.MustCompile(`(?i)^#+\s*main\b`)
)

// Values are the substitutions for one render. WorkDir and WebRoot may be empty.
type Values struct {
	Package string
	Version string
	VenvDir string
	WorkDir string
	WebRoot string
}

// Render replaces every token in tmpl with its value.
func Render(tmpl []byte, v Values) []byte {
	r := strings.NewReplacer(
		TokenPackage, v.Package,
		TokenVersion, v.Version,
		TokenVenvDir, v.VenvDir,
		TokenWorkDir, v.WorkDir,
		TokenWebRoot, v.WebRoot,
	)
	return []byte(r.Replace(string(tmpl)))
}

// Leftovers returns the distinct %%% NAME %%% markers still present in script.
func Leftovers(script []byte) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range leftoverPattern.FindAll(script, -1) {
		tok := string(m)
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// Preview returns script up to and including the first "# main" marker
// line, or all of it when there is no marker.
func Preview(script []byte) string {
	var b strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(script))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		b.WriteString(line)
		b.WriteByte('\n')
		if mainMarker.MatchString(strings.TrimSpace(line)) {
			break
		}
	}
	return b.String()
}

// CheckSyntax parses script as a POSIX/bash shell program.
func CheckSyntax(script []byte, name string) error {
	_, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(bytes.NewReader(script), name)
	return err
}

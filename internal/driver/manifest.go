package driver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DependencySpec names one imported library and the version constraint a
// project manifest places on it: a "dependencies" table entry of
// name = version constraint.
type DependencySpec struct {
	Name       string
	Constraint string
}

// Manifest is a parsed project file: the entry source, any extra search
// paths for locally built bundles, and the dependency set a build must
// resolve before compiling the entry unit.
type Manifest struct {
	Name         string
	Version      string
	Entry        string
	SearchPaths  []string
	Dependencies []DependencySpec
}

// ParseManifestFile reads and parses a project manifest from disk.
func ParseManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseManifest(f)
}

// ParseManifest reads a small INI-shaped key=value format: [section]
// headers switch which table is being populated, blank lines and lines
// starting with '#' are skipped. No third-party TOML parser exists
// anywhere in the dependency pack this project draws from, so the format
// is deliberately this much simpler than real TOML (DESIGN.md).
func ParseManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	section := ""
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			section = strings.TrimSpace(text[1 : len(text)-1])
			continue
		}
		key, val, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("manifest line %d: expected key=value, got %q", line, text)
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch section {
		case "package":
			switch key {
			case "name":
				m.Name = val
			case "version":
				m.Version = val
			case "entry":
				m.Entry = val
			}
		case "paths":
			if key == "search" {
				m.SearchPaths = append(m.SearchPaths, val)
			}
		case "dependencies":
			m.Dependencies = append(m.Dependencies, DependencySpec{Name: key, Constraint: val})
		default:
			return nil, fmt.Errorf("manifest line %d: key %q outside any [section]", line, key)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

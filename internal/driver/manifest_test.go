package driver

import (
	"strings"
	"testing"
)

func TestParseManifestReadsAllSections(t *testing.T) {
	src := `
# a comment
[package]
name = demo
version = 1.0.0
entry = src/main.tk

[paths]
search = ../lib

[dependencies]
mathlib = ^1.2.0
stringutil = 0.9.1
`
	m, err := ParseManifest(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if m.Name != "demo" || m.Version != "1.0.0" || m.Entry != "src/main.tk" {
		t.Fatalf("package fields wrong: %+v", m)
	}
	if len(m.SearchPaths) != 1 || m.SearchPaths[0] != "../lib" {
		t.Fatalf("search paths wrong: %+v", m.SearchPaths)
	}
	if len(m.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies, got %+v", m.Dependencies)
	}
	if m.Dependencies[0].Name != "mathlib" || m.Dependencies[0].Constraint != "^1.2.0" {
		t.Fatalf("first dependency wrong: %+v", m.Dependencies[0])
	}
}

func TestParseManifestRejectsKeyOutsideSection(t *testing.T) {
	_, err := ParseManifest(strings.NewReader("name = demo"))
	if err == nil {
		t.Fatalf("expected an error for a key with no enclosing section")
	}
}

func TestParseManifestRejectsMalformedLine(t *testing.T) {
	_, err := ParseManifest(strings.NewReader("[package]\nnot-a-key-value-line"))
	if err == nil {
		t.Fatalf("expected an error for a line with no '='")
	}
}

package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/tlib"
)

// ProjectResult is a whole-project build's outcome: the entry unit's
// result plus which dependency bundles fed into it.
type ProjectResult struct {
	Entry        *UnitResult
	Report       *BuildReport
	Dependencies []ResolvedDependency
}

// pathImporter resolves each dependency name to the exact file path
// version resolution already picked, rather than tlib.FileImporter's
// single-root-directory-per-name convention: a project can depend on two
// different versions of the same library, each built to its own path.
type pathImporter struct {
	byName map[string]string
}

func newPathImporter(resolved []ResolvedDependency) *pathImporter {
	pi := &pathImporter{byName: make(map[string]string, len(resolved))}
	for _, d := range resolved {
		pi.byName[d.Name] = d.Path
	}
	return pi
}

func (pi *pathImporter) Import(name string) ([]tlib.Decl, error) {
	p, ok := pi.byName[name]
	if !ok {
		return nil, fmt.Errorf("no resolved bundle for dependency %q", name)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tlib.Import(f)
}

// BuildProject resolves m's dependencies against available, prepares
// each resolved dependency's declarations through importer, then
// compiles the entry file with every dependency's declarations lifted
// under its own name and seeded ahead of analysis. A nil importer uses
// the default, which reads each resolved dependency straight from the
// path ResolveDependencies picked; tests substitute a
// tlib.MockImporter to inject library contents without touching the
// filesystem. Dependency preparation runs concurrently across
// independent bundle files; the entry unit's own three passes still run
// single-threaded, since nothing about analysing or lifetime-checking
// one unit is safe to parallelize.
func BuildProject(ctx context.Context, m *Manifest, available []AvailableBundle, cache BundleCache, importer tlib.Importer) (*ProjectResult, error) {
	resolved, err := ResolveDependencies(m.Dependencies, available)
	if err != nil {
		return nil, err
	}
	if importer == nil {
		importer = newPathImporter(resolved)
	}

	imported := make([][]tlib.Decl, len(resolved))
	g, _ := errgroup.WithContext(ctx)
	for i, dep := range resolved {
		i, dep := i, dep
		g.Go(func() error {
			decls, err := prepareDependency(dep, importer, cache)
			if err != nil {
				return fmt.Errorf("dependency %s: %w", dep.Name, err)
			}
			imported[i] = tlib.LiftPrefix(decls, path.New(dep.Name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []tlib.Decl
	for _, decls := range imported {
		all = append(all, decls...)
	}

	start := time.Now()
	res, err := CompileUnit(m.Entry, path.New(m.Name), all, m.SearchPaths)
	if err != nil {
		return nil, err
	}
	report := NewBuildReport(m.Entry)
	report.Fill(res, time.Since(start))

	return &ProjectResult{Entry: res, Report: report, Dependencies: resolved}, nil
}

// prepareDependency fetches one dependency's declarations through
// importer, re-encoding them to derive a content hash for cache
// bookkeeping: a cache hit here records that this exact declaration set
// was already prepared in a previous invocation, letting a caller skip
// whatever expensive validation it layers on top (the cache stores the
// encoding, not a decoding shortcut, since decoding from an Importer is
// already as cheap as it gets).
func prepareDependency(dep ResolvedDependency, importer tlib.Importer, cache BundleCache) ([]tlib.Decl, error) {
	decls, err := importer.Import(dep.Name)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		var buf bytes.Buffer
		if err := tlib.Export(&buf, decls); err == nil {
			key := HashBundle(buf.Bytes())
			if _, ok, _ := cache.Get(key); !ok {
				_ = cache.Put(key, buf.Bytes())
			}
		}
	}
	return decls, nil
}

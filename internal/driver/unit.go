// Package driver sequences the compiler's passes over a single unit, and
// composes multi-unit project builds on top of that: dependency
// resolution, a content-addressed bundle cache and optional watch mode
// live here, one layer above the passes themselves.
package driver

import (
	"os"

	"github.com/tarik-lang/tarikc/internal/lifetime"
	"github.com/tarik-lang/tarikc/internal/parser"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/sema"
	"github.com/tarik-lang/tarikc/internal/tlib"
	"github.com/tarik-lang/tarikc/internal/typedast"
)

// UnitResult carries every artifact a single-unit compile can produce,
// whichever passes actually ran. A later pass only runs if every earlier
// one left the bucket clean: parse, then analyse only if parsing was
// clean, then check lifetimes only if analysis was clean.
type UnitResult struct {
	Bucket  *position.Bucket
	Parsed  *typedast.File
	Bundle  []tlib.Decl
	Ran     RanPasses
}

// RanPasses records which passes actually executed, so a caller can tell
// "parsing failed" apart from "lifetime checking never got a chance to
// run" without re-deriving it from ErrorCount() and nil checks.
type RanPasses struct {
	Parsed   bool
	Analysed bool
	Checked  bool
}

// CompileUnit runs scan/parse, then semantic analysis, then lifetime
// checking over one source file, stopping early the moment the shared
// bucket has recorded an error. modPath is the path this unit's own
// declarations are registered under; imported carries every declaration
// visible from already-built dependency bundles, seeded into the program
// ahead of the pre-scan pass. searchPaths is consulted by source-level
// `import` statements, after the process's working directory;
// this is a distinct mechanism from imported/dependency bundles.
func CompileUnit(filename string, modPath path.Path, imported []tlib.Decl, searchPaths []string) (*UnitResult, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return compileSource(filename, string(src), modPath, imported, searchPaths), nil
}

// compileSource is CompileUnit split out from file I/O so tests can drive
// it directly from an in-memory source string.
func compileSource(filename, src string, modPath path.Path, imported []tlib.Decl, searchPaths []string) *UnitResult {
	bucket := position.NewBucket()
	res := &UnitResult{Bucket: bucket}

	file := parser.ParseFile(filename, src, searchPaths, bucket)
	res.Ran.Parsed = true
	if bucket.ErrorCount() > 0 {
		return res
	}

	prog := sema.NewProgram()
	prog.ImportDecls(imported)
	sema.PreScan(prog, file, bucket)
	typed := sema.AnalyseFile(prog, file, bucket)
	res.Ran.Analysed = true
	res.Parsed = typed
	if bucket.ErrorCount() > 0 {
		return res
	}

	checker := lifetime.NewChecker(bucket, prog)
	checker.CheckFile(typed)
	res.Ran.Checked = true
	if bucket.ErrorCount() > 0 {
		return res
	}

	res.Bundle = tlib.FromFile(typed, modPath)
	return res
}

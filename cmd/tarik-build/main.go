// Package main provides the entry point for tarik-build, the
// project-level build composer over a dependency manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tarik-lang/tarikc/internal/driver"
)

var version = "0.1.0-alpha"

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		watch       = flag.Bool("watch", false, "rebuild whenever the entry file or a dependency bundle changes")
		manifestOpt = flag.String("manifest", "tarik.toml", "project manifest file, relative to the project directory")
		cacheDir    = flag.String("cache-dir", "", "build cache directory (defaults to <project>/.tarik-cache)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tarik-build version %s\n", version)
		return
	}

	projectDir := "."
	if args := flag.Args(); len(args) > 0 {
		projectDir = args[0]
	}

	m, err := driver.ParseManifestFile(filepath.Join(projectDir, *manifestOpt))
	if err != nil {
		log.Fatalf("error: failed to read manifest: %v", err)
	}
	if !filepath.IsAbs(m.Entry) {
		m.Entry = filepath.Join(projectDir, m.Entry)
	}

	searchDirs := append([]string{}, m.SearchPaths...)
	for i, d := range searchDirs {
		if !filepath.IsAbs(d) {
			searchDirs[i] = filepath.Join(projectDir, d)
		}
	}
	// Source-level `import` resolution (package parser) shares the same
	// directory list as the prebuilt-.tlib bundle scan below.
	m.SearchPaths = searchDirs

	cd := *cacheDir
	if cd == "" {
		cd = filepath.Join(projectDir, ".tarik-cache")
	}
	cache, err := driver.NewFSBundleCache(cd)
	if err != nil {
		log.Fatalf("error: failed to open build cache: %v", err)
	}

	lock, err := driver.AcquireBuildLock(cd)
	if err != nil {
		log.Fatalf("error: failed to acquire build lock: %v", err)
	}
	defer lock.Release()

	runOnce := func() bool {
		available, err := driver.ScanBundles(searchDirs)
		if err != nil {
			log.Printf("error: failed to scan dependency bundles: %v", err)
			return false
		}
		result, err := driver.BuildProject(context.Background(), m, available, cache, nil)
		if err != nil {
			log.Printf("error: build failed: %v", err)
			return false
		}
		fmt.Print(result.Report.String())
		return result.Entry.Bucket.ErrorCount() == 0
	}

	if !*watch {
		if !runOnce() {
			os.Exit(1)
		}
		return
	}

	var resolved []driver.ResolvedDependency
	if available, err := driver.ScanBundles(searchDirs); err == nil {
		if r, err := driver.ResolveDependencies(m.Dependencies, available); err == nil {
			resolved = r
		}
	}
	paths := driver.WatchPaths(m, resolved)

	if err := driver.Watch(context.Background(), paths, func() { runOnce() }); err != nil {
		log.Fatalf("error: watch failed: %v", err)
	}
}

// Package main provides the entry point for the tarik compiler.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tarik-lang/tarikc/internal/driver"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/tlib"
)

var version = "0.1.0-alpha"

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		jsonOutput  = flag.Bool("json", false, "output version in JSON format")
		emitLib     = flag.String("emit", "", "comma-separated outputs to emit: lib")
		output      = flag.String("output", "", "output file stem; extension is ignored")
		imports     stringListFlag
		searchPaths stringListFlag
	)
	flag.Var(&imports, "import", "import declarations from a .tlib file (repeatable)")
	flag.Var(&searchPaths, "search", "directory to search for `import`ed .tk source files (repeatable)")
	flag.Parse()

	if *showVersion {
		printVersion(*jsonOutput)
		return
	}
	if *showHelp {
		showUsage()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("Error: No input file specified")
		showUsage()
		os.Exit(1)
	}
	if len(args) > 1 {
		log.Fatalf("Error: multiple input files given")
	}
	inputFile := args[0]

	var imported []tlib.Decl
	for _, p := range imports {
		decls, err := (&tlib.FileImporter{Root: filepath.Dir(p)}).Import(strings.TrimSuffix(filepath.Base(p), ".tlib"))
		if err != nil {
			log.Fatalf("Error: failed to import %q: %v", p, err)
		}
		imported = append(imported, decls...)
	}

	stem := stemFor(*output, inputFile)
	modPath := path.New(filepath.Base(stem))

	res, err := driver.CompileUnit(inputFile, modPath, imported, searchPaths)
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}

	for _, d := range res.Bucket.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if res.Bucket.ErrorCount() > 0 {
		os.Exit(1)
	}

	for _, kind := range strings.Split(*emitLib, ",") {
		if kind != "lib" {
			continue
		}
		out, err := os.Create(stem + ".tlib")
		if err != nil {
			log.Fatalf("Error: failed to create output %q: %v", stem+".tlib", err)
		}
		defer out.Close()
		if err := tlib.Export(out, res.Bundle); err != nil {
			log.Fatalf("Error: failed to write bundle: %v", err)
		}
	}
}

func stemFor(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return strings.TrimSuffix(output, filepath.Ext(output))
}

// stringListFlag collects every occurrence of a repeatable flag (-import,
// -search).
type stringListFlag []string

func (s *stringListFlag) String() string { return strings.Join(*s, ",") }
func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func showUsage() {
	fmt.Println("tarikc - the tarik compiler")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    tarikc [OPTIONS] <INPUT_FILE>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    --version        Show version information")
	fmt.Println("    --help           Show this help message")
	fmt.Println("    --import path    Import declarations from a .tlib file (repeatable)")
	fmt.Println("    --search dir     Search dir for `import`ed .tk source files (repeatable)")
	fmt.Println("    --emit lib       Emit a library bundle (name.tlib)")
	fmt.Println("    --output file    Output file stem")
}

func printVersion(jsonOutput bool) {
	info := map[string]any{
		"version":    version,
		"go_version": runtime.Version(),
		"platform":   runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
	if jsonOutput {
		data, err := json.MarshalIndent(map[string]any{"tool": "tarikc", "version_info": info}, "", "  ")
		if err == nil {
			fmt.Println(string(data))
			return
		}
	}
	fmt.Printf("tarikc version %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

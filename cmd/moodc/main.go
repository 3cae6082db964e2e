package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mood-lang/mood/internal/compiler"
	"github.com/mood-lang/mood/internal/formatter"
)

const usage = `moodc - the Mood language compiler

Usage:
  moodc build <file.mood>    Compile to a Wasm binary
  moodc check <file.mood>    Parse and type-check only

Examples:
  moodc build hello.mood     Build hello.mood -> hello.wasm
  moodc check hello.mood     Check for errors without building
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		handleBuild(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func handleBuild(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	filePath := args[0]

	source, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}

	out, diag := compiler.Compile(string(source))
	if diag != nil {
		fmt.Fprint(os.Stderr, formatter.Format(string(source), filePath, diag))
		os.Exit(1)
	}

	baseName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	outPath := baseName + ".wasm"
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Built %s\n", outPath)
}

func handleCheck(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	filePath := args[0]

	source, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}

	if diag := compiler.Check(string(source)); diag != nil {
		fmt.Fprint(os.Stderr, formatter.Format(string(source), filePath, diag))
		os.Exit(1)
	}

	fmt.Println("No errors found.")
}

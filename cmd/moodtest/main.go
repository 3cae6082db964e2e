// moodtest discovers *.mood/*.expected fixture pairs under a directory and
// checks that compiling (and, for a fixture exporting "test", executing)
// each .mood file produces its .expected outcome: the diagnostic's message
// for a fixture that shouldn't check cleanly, the decimal value returned by
// a "test" export, or the literal text "OK" for a fixture with no "test"
// export that should merely check cleanly. It is a standalone collaborator
// the compiler's own unit test suites don't replace.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tetratelabs/wazero"

	"github.com/mood-lang/mood/internal/compiler"
)

const usage = `moodtest - fixture runner for .mood/.expected pairs

Usage:
  moodtest [--write] <dir>

  --write    Regenerate .expected files from the compiler's current output
             instead of comparing against them.
`

func main() {
	args := os.Args[1:]
	write := false
	var dir string
	for _, a := range args {
		if a == "--write" {
			write = true
			continue
		}
		dir = a
	}
	if dir == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	fixtures, err := discover(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering fixtures: %s\n", err)
		os.Exit(1)
	}

	failures := 0
	for _, f := range fixtures {
		actual, err := run(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", f, err)
			failures++
			continue
		}

		expectedPath := expectedPathFor(f)
		if write {
			if err := os.WriteFile(expectedPath, []byte(actual), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "%s: error writing expected file: %s\n", f, err)
				failures++
			}
			continue
		}

		expected, err := os.ReadFile(expectedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: missing .expected file (run with --write)\n", f)
			failures++
			continue
		}

		if strings.TrimSpace(string(expected)) != strings.TrimSpace(actual) {
			fmt.Printf("FAIL %s\n  expected: %s\n  actual:   %s\n", f, strings.TrimSpace(string(expected)), strings.TrimSpace(actual))
			failures++
			continue
		}
		fmt.Printf("ok   %s\n", f)
	}

	if failures > 0 {
		fmt.Printf("\n%d fixture(s) failed.\n", failures)
		os.Exit(1)
	}
	fmt.Printf("\nAll %d fixture(s) passed.\n", len(fixtures))
}

// discover walks dir for every file ending in .mood.
func discover(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".mood") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func expectedPathFor(moodPath string) string {
	return strings.TrimSuffix(moodPath, ".mood") + ".expected"
}

// run compiles a fixture and renders its outcome as the text a .expected
// file is compared against: the diagnostic's message on failure; otherwise,
// if the module exports "test", the decimal value that export returns when
// executed under wazero; otherwise "OK".
func run(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	out, diag := compiler.Compile(string(source))
	if diag != nil {
		return diag.Message, nil
	}

	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := r.Instantiate(ctx, out)
	if err != nil {
		return "", fmt.Errorf("instantiating module: %w", err)
	}
	defer mod.Close(ctx)

	test := mod.ExportedFunction("test")
	if test == nil {
		return "OK", nil
	}

	results, err := test.Call(ctx)
	if err != nil {
		return "", fmt.Errorf("executing test: %w", err)
	}
	return fmt.Sprintf("%d", int32(results[0])), nil
}

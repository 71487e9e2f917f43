//go:build mage

// Package main contains Mage build targets for scroll-convert developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "convert"
	cmdPkg  = "./cmd/convert"

	sampleInput = "testdata/sample.csv"
	sampleDir   = "out"
)

// sampleOutputs lists the extensions Sample writes, one file per format.
var sampleOutputs = []string{".json", ".yaml", ".db", ".json.xz"}

// Build compiles the CLI binary into bin/ using the CGO SQLite driver.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// BuildPure compiles the CLI without CGO, using modernc.org/sqlite.
func BuildPure() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName+"-pure")
	env := map[string]string{"CGO_ENABLED": "0"}
	if err := sh.RunWithV(env, "go", "build", "-tags", "sqlite_purego", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with both SQLite drivers.
func Test() error {
	if err := sh.RunV("go", "test", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "test", "-tags", "sqlite_purego", "./internal/sqlitedb/...", "./internal/export/...")
}

// Sample converts testdata/sample.csv into every output format under out/.
func Sample() error {
	mg.Deps(Build)

	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sampleDir, err)
	}
	bin := filepath.Join(binDir, binName)
	for _, ext := range sampleOutputs {
		out := filepath.Join(sampleDir, "sample"+ext)
		if err := sh.RunV(bin, sampleInput, out, "--checksum"); err != nil {
			return fmt.Errorf("converting to %s: %w", out, err)
		}
	}
	return nil
}

// Clean removes build and sample output.
func Clean() error {
	for _, dir := range []string{binDir, sampleDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints non-blank Go line counts for production and test code.
func Stats() error {
	prod, test, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	return nil
}

// countGoLines walks root and counts non-blank lines in Go files, skipping
// hidden and underscore-prefixed directories the go tool also ignores.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(name, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

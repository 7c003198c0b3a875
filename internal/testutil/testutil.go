// Package testutil provides package repository fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/localstash/localstash/internal/pkgrepo"
)

// PackageSpec describes a package fixture to materialize in a repository.
// Files maps payload-relative paths to contents; the same payload is
// written into every declared variant, or beside package.toml when the
// package declares none.
type PackageSpec struct {
	Name        string
	Version     string
	Relocatable *bool
	Requires    []string
	Variants    [][]string
	Files       map[string]string
}

// WritePackage writes spec under root as name/version/ and returns the
// version directory. Variant payload directories always exist on disk,
// even when Files is empty.
func WritePackage(t *testing.T, root string, spec PackageSpec) string {
	t.Helper()
	dir := filepath.Join(root, spec.Name, spec.Version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("write package fixture: %v", err)
	}
	def := pkgrepo.Definition{
		Name:        spec.Name,
		Version:     spec.Version,
		Relocatable: spec.Relocatable,
		Requires:    spec.Requires,
		Variants:    spec.Variants,
	}
	if err := pkgrepo.WriteDefinition(dir, def); err != nil {
		t.Fatalf("write package fixture: %v", err)
	}
	if len(spec.Variants) == 0 {
		writePayload(t, dir, spec.Files)
		return dir
	}
	for i := range spec.Variants {
		variantDir := filepath.Join(dir, strconv.Itoa(i))
		if err := os.MkdirAll(variantDir, 0o755); err != nil {
			t.Fatalf("write package fixture: %v", err)
		}
		writePayload(t, variantDir, spec.Files)
	}
	return dir
}

func writePayload(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("write payload fixture: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write payload fixture: %v", err)
		}
	}
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}

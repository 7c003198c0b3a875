package pkgrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/localstash/localstash/internal/fsutil"
	"github.com/localstash/localstash/internal/messages"
)

// DefinitionFile is the package definition file name inside a version
// directory.
const DefinitionFile = "package.toml"

// Definition is the on-disk package definition, stored as package.toml in the
// version directory. Variants is a list of per-variant requirement lists; the
// position of each list is the variant index.
type Definition struct {
	Name        string     `toml:"name"`
	Version     string     `toml:"version"`
	Description string     `toml:"description,omitempty"`
	Relocatable *bool      `toml:"relocatable,omitempty"`
	Requires    []string   `toml:"requires,omitempty"`
	Variants    [][]string `toml:"variants,omitempty"`
}

// Package is a name+version grouping of one or more variants.
type Package struct {
	Name            string
	Version         Version
	Description     string
	Relocatable     Relocatable
	Requires        []string
	VariantRequires [][]string
	Path            string // directory holding package.toml; empty for non-filesystem packages
	RepoType        RepoType
}

// Label returns the user-facing "name-version" form.
func (p *Package) Label() string {
	return p.Name + "-" + p.Version.String()
}

// NumVariants returns how many variants the package carries. A package with no
// declared variants still has the single implicit one.
func (p *Package) NumVariants() int {
	if len(p.VariantRequires) == 0 {
		return 1
	}
	return len(p.VariantRequires)
}

// Variants materializes every variant of the package, in index order.
func (p *Package) Variants() []Variant {
	if len(p.VariantRequires) == 0 {
		return []Variant{p.implicitVariant()}
	}
	out := make([]Variant, 0, len(p.VariantRequires))
	for i := range p.VariantRequires {
		v, _ := p.Variant(i)
		out = append(out, v)
	}
	return out
}

// Variant returns the variant at index. ImplicitIndex addresses the implicit
// variant of a package that declares none.
func (p *Package) Variant(index int) (Variant, error) {
	if len(p.VariantRequires) == 0 {
		if index != ImplicitIndex && index != 0 {
			return Variant{}, fmt.Errorf(messages.RepoVariantIndexFmt, index, p.Name, p.Version)
		}
		return p.implicitVariant(), nil
	}
	if index < 0 || index >= len(p.VariantRequires) {
		return Variant{}, fmt.Errorf(messages.RepoVariantIndexFmt, index, p.Name, p.Version)
	}
	return Variant{
		Name:        p.Name,
		Version:     p.Version,
		Index:       index,
		Root:        p.variantRoot(index),
		PackagePath: p.Path,
		Relocatable: p.Relocatable,
		RepoType:    p.RepoType,
		Requires:    p.VariantRequires[index],
	}, nil
}

func (p *Package) implicitVariant() Variant {
	return Variant{
		Name:        p.Name,
		Version:     p.Version,
		Index:       ImplicitIndex,
		Root:        p.Path,
		PackagePath: p.Path,
		Relocatable: p.Relocatable,
		RepoType:    p.RepoType,
	}
}

func (p *Package) variantRoot(index int) string {
	if p.Path == "" {
		return ""
	}
	if index == ImplicitIndex {
		return p.Path
	}
	return filepath.Join(p.Path, strconv.Itoa(index))
}

// Definition converts the package back into its on-disk form.
func (p *Package) Definition() Definition {
	def := Definition{
		Name:        p.Name,
		Version:     p.Version.String(),
		Description: p.Description,
		Requires:    p.Requires,
		Variants:    p.VariantRequires,
	}
	switch p.Relocatable {
	case RelocatableTrue:
		v := true
		def.Relocatable = &v
	case RelocatableFalse:
		v := false
		def.Relocatable = &v
	}
	return def
}

// LoadPackage reads and validates the package definition in dir. The name and
// version declared by the definition must agree with the directory layout.
func LoadPackage(dir string, name string, version Version) (*Package, error) {
	path := filepath.Join(dir, DefinitionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.RepoReadDefinitionFmt, path, err)
	}
	var def Definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf(messages.RepoInvalidDefinitionFmt, path, err)
	}
	if def.Name != name {
		return nil, fmt.Errorf(messages.RepoNameMismatchFmt, path, def.Name, name)
	}
	if def.Version != version.String() {
		return nil, fmt.Errorf(messages.RepoVersionMismatchFmt, path, def.Version, version.String())
	}
	return &Package{
		Name:            def.Name,
		Version:         version,
		Description:     def.Description,
		Relocatable:     relocatableFromDefinition(def.Relocatable),
		Requires:        def.Requires,
		VariantRequires: def.Variants,
		Path:            dir,
		RepoType:        RepoFilesystem,
	}, nil
}

// WriteDefinition writes the package definition into dir as package.toml.
// The write is atomic so a concurrent reader never sees a partial definition.
func WriteDefinition(dir string, def Definition) error {
	path := filepath.Join(dir, DefinitionFile)
	data, err := toml.Marshal(def)
	if err != nil {
		return fmt.Errorf(messages.RepoInvalidDefinitionFmt, path, err)
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

func relocatableFromDefinition(v *bool) Relocatable {
	switch {
	case v == nil:
		return RelocatableUnset
	case *v:
		return RelocatableTrue
	}
	return RelocatableFalse
}

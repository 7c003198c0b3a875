// Package pkgrepo models package repositories: families of versioned packages
// holding one or more variants, laid out on disk as name/version/index trees
// with a package.toml definition per version.
package pkgrepo

import "fmt"

// Relocatable is the tri-state policy attribute controlling whether a package
// may be copied out of its source repository. Unset defers to the configured
// global default.
type Relocatable int

const (
	// RelocatableUnset inherits the global default.
	RelocatableUnset Relocatable = iota
	// RelocatableFalse pins the package to its source repository.
	RelocatableFalse
	// RelocatableTrue allows copying out of the source repository.
	RelocatableTrue
)

// Bool resolves the tri-state against the global default.
func (r Relocatable) Bool(def bool) bool {
	switch r {
	case RelocatableTrue:
		return true
	case RelocatableFalse:
		return false
	}
	return def
}

func (r Relocatable) String() string {
	switch r {
	case RelocatableTrue:
		return "true"
	case RelocatableFalse:
		return "false"
	}
	return "unset"
}

// RepoType tags where a variant's payload lives.
type RepoType string

const (
	// RepoFilesystem marks variants backed by an on-disk repository.
	RepoFilesystem RepoType = "filesystem"
	// RepoMemory marks variants served from a non-filesystem source, e.g. a
	// discovery cache with no payload behind it.
	RepoMemory RepoType = "memory"
)

// ImplicitIndex is the variant index of a package that declares no variants:
// the package body itself is the single implicit variant.
const ImplicitIndex = -1

// Variant is one concrete build of a package, identified by
// (name, version, index).
type Variant struct {
	Name        string
	Version     Version
	Index       int
	Root        string // payload directory of this variant
	PackagePath string // directory holding the package definition
	Relocatable Relocatable
	RepoType    RepoType
	Requires    []string // variant-level requirements
}

// ID is the value identity of a variant, suitable as a map key.
type ID struct {
	Name    string
	Version string
	Index   int
}

func (id ID) String() string {
	if id.Index == ImplicitIndex {
		return fmt.Sprintf("%s-%s", id.Name, id.Version)
	}
	return fmt.Sprintf("%s-%s[%d]", id.Name, id.Version, id.Index)
}

// ID returns the variant's identity.
func (v Variant) ID() ID {
	return ID{Name: v.Name, Version: v.Version.String(), Index: v.Index}
}

// Label returns the user-facing "name-version" form.
func (v Variant) Label() string {
	return v.Name + "-" + v.Version.String()
}

package pkgrepo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/localstash/localstash/internal/messages"
)

// Repository is a filesystem package repository rooted at a directory laid out
// as name/version/package.toml. An optional FindCache memoizes directory scans
// and loaded definitions; cached results can go stale when packages are
// deleted out-of-band, which callers checking existence must account for.
type Repository struct {
	root  string
	cache *FindCache
}

// NewRepository opens the repository rooted at root. cache may be nil.
// The root does not have to exist yet; scans of a missing root see an empty
// repository.
func NewRepository(root string, cache *FindCache) (*Repository, error) {
	if root == "" {
		return nil, errors.New(messages.RepoRootRequired)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf(messages.FsutilResolvePathFmt, root, err)
	}
	return &Repository{root: filepath.Clean(abs), cache: cache}, nil
}

// Root returns the normalized repository root.
func (r *Repository) Root() string {
	return r.root
}

// Cached reports whether a discovery cache is configured.
func (r *Repository) Cached() bool {
	return r.cache != nil
}

// Versions returns every parseable version of the family, ascending. A missing
// family directory yields an empty slice, not an error.
func (r *Repository) Versions(name string) ([]Version, error) {
	if r.cache != nil {
		if versions, ok := r.cache.versions(r.root, name); ok {
			return versions, nil
		}
	}
	dir := filepath.Join(r.root, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.RepoReadFamilyFmt, dir, err)
	}
	versions := make([]Version, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		v, err := ParseVersion(entry.Name())
		if err != nil {
			// Not a version directory; foreign entries are tolerated.
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Compare(versions[j]) < 0 })
	if r.cache != nil {
		r.cache.putVersions(r.root, name, versions)
	}
	return versions, nil
}

// Package loads the definition of name-version. Returns nil (no error) when
// the version directory carries no package definition.
func (r *Repository) Package(name string, version Version) (*Package, error) {
	if r.cache != nil {
		if pkg, ok := r.cache.pkg(r.root, name, version.String()); ok {
			return pkg, nil
		}
	}
	dir := filepath.Join(r.root, name, version.String())
	pkg, err := LoadPackage(dir, name, version)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if r.cache != nil {
		r.cache.putPkg(r.root, name, version.String(), pkg)
	}
	return pkg, nil
}

// Packages returns every package of the family matching rng, ascending by
// version.
func (r *Repository) Packages(name string, rng Range) ([]*Package, error) {
	versions, err := r.Versions(name)
	if err != nil {
		return nil, err
	}
	var out []*Package
	for _, v := range versions {
		if !rng.Matches(v) {
			continue
		}
		pkg, err := r.Package(name, v)
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			continue
		}
		out = append(out, pkg)
	}
	return out, nil
}

// Latest returns the highest-versioned package of the family matching rng, or
// nil when the family has no match.
func (r *Repository) Latest(name string, rng Range) (*Package, error) {
	pkgs, err := r.Packages(name, rng)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, nil
	}
	return pkgs[len(pkgs)-1], nil
}

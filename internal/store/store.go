// Package store manages the destination repository of localized
// packages.
//
// The store is an ordinary package repository on disk, laid out
// name/version/index exactly like the repositories packages are
// localized from, so localized packages are indistinguishable from
// originals.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/localstash/localstash/internal/config"
	"github.com/localstash/localstash/internal/fsutil"
	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/pkgrepo"
)

// DefaultPath is the fallback destination when nothing else names one.
const DefaultPath = "~/.packages"

// ResolveDest returns the destination store root: the explicit override
// when given, else LSTASH_PACKAGES_PATH, else the config's
// packages_path, else ~/.packages. The result is home-expanded,
// absolutized, and lexically cleaned, which defends against traversal
// sequences in the environment.
func ResolveDest(override string, cfg *config.Config) (string, error) {
	path := override
	if path == "" {
		path = os.Getenv(messages.EnvPackagesPath)
	}
	if path == "" && cfg != nil {
		path = cfg.PackagesPath
	}
	if path == "" {
		path = DefaultPath
	}
	return config.ExpandPath(path)
}

// LocalStore is the persistent destination repository.
type LocalStore struct {
	root string
	repo *pkgrepo.Repository
}

// New opens the store rooted at root. Opening never writes; the first
// commit creates the tree. cache may be nil.
func New(root string, cache *pkgrepo.FindCache) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New(messages.StoreDestRequired)
	}
	repo, err := pkgrepo.NewRepository(root, cache)
	if err != nil {
		return nil, err
	}
	return &LocalStore{root: repo.Root(), repo: repo}, nil
}

// Root returns the normalized store root.
func (s *LocalStore) Root() string {
	return s.root
}

// Repo exposes the store as a package repository, for resolving
// delocalize requests against the store itself.
func (s *LocalStore) Repo() *pkgrepo.Repository {
	return s.repo
}

// Contains reports whether path lies under the store root.
func (s *LocalStore) Contains(path string) bool {
	norm, err := fsutil.NormalizePath(path)
	if err != nil {
		return false
	}
	return norm == s.root || strings.HasPrefix(norm, s.root+string(filepath.Separator))
}

// Exists reports whether a variant with v's identity is already
// committed. The version is queried as a range, so 1.1.2 also surfaces
// 1.1.2.beta candidates; identity still requires an exact match. A
// positive match additionally requires the variant's payload on disk:
// discovery caches can report packages deleted out-of-band, and a
// definition can declare sibling indexes whose payloads were never
// copied.
func (s *LocalStore) Exists(v pkgrepo.Variant) (bool, error) {
	rng, err := pkgrepo.ParseRange(v.Version.String())
	if err != nil {
		return false, fmt.Errorf(messages.StoreExistsCheckFmt, v.Name, v.Version, err)
	}
	pkgs, err := s.repo.Packages(v.Name, rng)
	if err != nil {
		return false, fmt.Errorf(messages.StoreExistsCheckFmt, v.Name, v.Version, err)
	}
	for _, pkg := range pkgs {
		for _, existing := range pkg.Variants() {
			if existing.Name != v.Name ||
				existing.Version.Compare(v.Version) != 0 ||
				existing.Index != v.Index {
				continue
			}
			if _, err := os.Stat(existing.Root); err != nil {
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

// Remove deletes v's payload from the store and prunes directories left
// empty: a version directory holding only its definition goes, and a
// family directory left without versions goes with it. Refuses paths
// outside the store root.
func (s *LocalStore) Remove(v pkgrepo.Variant) error {
	root, err := fsutil.NormalizePath(v.Root)
	if err != nil || !s.Contains(root) {
		return fmt.Errorf(messages.StoreRemoveOutsideFmt, v.Root, s.root)
	}
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf(messages.StoreRemoveFmt, root, err)
	}
	return s.prune(v)
}

func (s *LocalStore) prune(v pkgrepo.Variant) error {
	versionDir := filepath.Join(s.root, v.Name, v.Version.String())
	entries, err := os.ReadDir(versionDir)
	if err == nil && onlyDefinition(entries) {
		if err := os.RemoveAll(versionDir); err != nil {
			return fmt.Errorf(messages.StoreRemoveFmt, versionDir, err)
		}
	}
	familyDir := filepath.Join(s.root, v.Name)
	entries, err = os.ReadDir(familyDir)
	if err == nil && len(entries) == 0 {
		if err := os.Remove(familyDir); err != nil {
			return fmt.Errorf(messages.StoreRemoveFmt, familyDir, err)
		}
	}
	return nil
}

func onlyDefinition(entries []os.DirEntry) bool {
	for _, entry := range entries {
		if entry.Name() != pkgrepo.DefinitionFile {
			return false
		}
	}
	return true
}

// Package resolver finds the package variants satisfying a set of
// requests across an ordered list of search paths.
//
// Resolution is a single deterministic pass: constraints from every
// request and requirement are gathered per family, the highest version
// satisfying all of them wins (earlier search paths break ties), and the
// first variant whose requirements agree with the selections so far is
// chosen. Transitive requirements join the worklist with their own
// constraints. There is no backtracking; a requirement that contradicts
// an earlier selection fails the resolve.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/pkgrepo"
)

// NotFoundError reports a request whose package family exists in none of
// the search paths, or whose constraints no version can satisfy.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return messages.ResolverNotFoundPrefix + e.Name
	}
	return fmt.Sprintf(messages.ResolverNotFoundFmt, e.Name, strings.Join(e.Searched, ", "))
}

// Resolver resolves package requests against an ordered list of
// filesystem repositories.
type Resolver struct {
	repos []*pkgrepo.Repository
}

// New opens one repository per search path, in priority order. cache may
// be nil; when set it is shared across all paths.
func New(paths []string, cache *pkgrepo.FindCache) (*Resolver, error) {
	if len(paths) == 0 {
		return nil, errors.New(messages.ResolverNoSearchPaths)
	}
	repos := make([]*pkgrepo.Repository, 0, len(paths))
	for _, path := range paths {
		repo, err := pkgrepo.NewRepository(path, cache)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return &Resolver{repos: repos}, nil
}

// Paths returns the search paths in priority order.
func (r *Resolver) Paths() []string {
	out := make([]string, 0, len(r.repos))
	for _, repo := range r.repos {
		out = append(out, repo.Root())
	}
	return out
}

// Resolve returns the variants satisfying requests plus requires, in
// selection order. When full is false the result is filtered to the
// families named by requests; requires and transitive requirements only
// constrain the resolve.
func (r *Resolver) Resolve(ctx context.Context, requests, requires []string, full bool) ([]pkgrepo.Variant, error) {
	reqs, err := pkgrepo.ParseRequests(requests)
	if err != nil {
		return nil, err
	}
	extra, err := pkgrepo.ParseRequests(requires)
	if err != nil {
		return nil, err
	}

	s := &solve{
		constraints: make(map[string][]pkgrepo.Range),
		selected:    make(map[string]pkgrepo.Version),
	}
	for _, req := range reqs {
		if err := s.constrain(req); err != nil {
			return nil, err
		}
	}
	for _, req := range extra {
		if err := s.constrain(req); err != nil {
			return nil, err
		}
	}

	for len(s.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := s.queue[0]
		s.queue = s.queue[1:]
		if _, done := s.selected[name]; done {
			continue
		}
		pkg, err := r.find(name, s.constraints[name])
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			return nil, &NotFoundError{Name: name, Searched: r.Paths()}
		}
		if err := s.pick(pkg); err != nil {
			return nil, err
		}
	}

	if full {
		return s.variants, nil
	}
	wanted := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		wanted[req.Name] = true
	}
	out := make([]pkgrepo.Variant, 0, len(reqs))
	for _, v := range s.variants {
		if wanted[v.Name] {
			out = append(out, v)
		}
	}
	return out, nil
}

// find returns the highest-versioned package of the family that matches
// every range, or nil. Earlier search paths win ties; a later path must
// carry a strictly newer version to displace an earlier one.
func (r *Resolver) find(name string, ranges []pkgrepo.Range) (*pkgrepo.Package, error) {
	var best *pkgrepo.Package
	for _, repo := range r.repos {
		versions, err := repo.Versions(name)
		if err != nil {
			return nil, err
		}
		for i := len(versions) - 1; i >= 0; i-- {
			v := versions[i]
			if best != nil && v.Compare(best.Version) <= 0 {
				break
			}
			if !matchesAll(v, ranges) {
				continue
			}
			pkg, err := repo.Package(name, v)
			if err != nil {
				return nil, err
			}
			if pkg == nil {
				// A version directory without a definition.
				continue
			}
			best = pkg
			break
		}
	}
	return best, nil
}

func matchesAll(v pkgrepo.Version, ranges []pkgrepo.Range) bool {
	for _, rng := range ranges {
		if !rng.Matches(v) {
			return false
		}
	}
	return true
}

// solve carries the state of one resolution pass.
type solve struct {
	constraints map[string][]pkgrepo.Range
	selected    map[string]pkgrepo.Version
	variants    []pkgrepo.Variant
	queue       []string
}

// constrain records a range for the request's family and queues it for
// selection. A constraint that contradicts an already-selected version
// fails immediately.
func (s *solve) constrain(req pkgrepo.Request) error {
	if v, ok := s.selected[req.Name]; ok && !req.Range.Matches(v) {
		return &NotFoundError{Name: req.Name}
	}
	if !req.Range.IsAny() {
		s.constraints[req.Name] = append(s.constraints[req.Name], req.Range)
	}
	s.queue = append(s.queue, req.Name)
	return nil
}

// pick selects the first variant of pkg whose requirements agree with
// the selections so far, records it, and queues its requirements.
func (s *solve) pick(pkg *pkgrepo.Package) error {
	var chosen *pkgrepo.Variant
	var deps []pkgrepo.Request
next:
	for _, v := range pkg.Variants() {
		candidate := v
		reqs, err := variantRequests(pkg, candidate)
		if err != nil {
			return err
		}
		for _, req := range reqs {
			if sel, ok := s.selected[req.Name]; ok {
				if !req.Range.Matches(sel) {
					continue next
				}
				continue
			}
			for _, rng := range s.constraints[req.Name] {
				if !req.Range.Compatible(rng) {
					continue next
				}
			}
		}
		chosen = &candidate
		deps = reqs
		break
	}
	if chosen == nil {
		return &NotFoundError{Name: pkg.Name}
	}
	s.selected[pkg.Name] = pkg.Version
	s.variants = append(s.variants, *chosen)
	for _, req := range deps {
		if err := s.constrain(req); err != nil {
			return err
		}
	}
	return nil
}

// variantRequests parses the package-level plus variant-level
// requirements of v.
func variantRequests(pkg *pkgrepo.Package, v pkgrepo.Variant) ([]pkgrepo.Request, error) {
	specs := make([]string, 0, len(pkg.Requires)+len(v.Requires))
	specs = append(specs, pkg.Requires...)
	specs = append(specs, v.Requires...)
	return pkgrepo.ParseRequests(specs)
}

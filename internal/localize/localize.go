// Package localize drives the localization pipeline: resolved package
// variants are staged into a private workspace, gated by relocatability
// policy, deduplicated against the local store, and committed after
// confirmation. The workspace is removed on every terminal outcome.
package localize

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/localstash/localstash/internal/copier"
	"github.com/localstash/localstash/internal/fsutil"
	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/pkgrepo"
	"github.com/localstash/localstash/internal/workspace"
)

// State is a pipeline phase. A run advances through the sequence below
// and finishes in Done, Cancelled, or Aborted.
type State string

const (
	StateInit       State = "INIT"
	StateResolving  State = "RESOLVING"
	StateStaging    State = "STAGING"
	StateGating     State = "GATING"
	StateDeduping   State = "DEDUPING"
	StateConfirming State = "CONFIRMING"
	StateCommitting State = "COMMITTING"
	StateDone       State = "DONE"
	StateCancelled  State = "CANCELLED"
	StateAborted    State = "ABORTED"
)

// Resolver turns package requests into an ordered list of variants.
type Resolver interface {
	Resolve(ctx context.Context, requests, requires []string, full bool) ([]pkgrepo.Variant, error)
}

// CopyFunc copies package variants between repositories.
type CopyFunc func(ctx context.Context, pkg *pkgrepo.Package, dest string, opts copier.Options) (*copier.Result, error)

// Store answers containment and identity queries against the local
// store.
type Store interface {
	Root() string
	Contains(path string) bool
	Exists(v pkgrepo.Variant) (bool, error)
}

// Confirmer asks whether to proceed. Implementations must never block
// without an interactive input stream.
type Confirmer func(prompt string) bool

// Options configures a localization run.
type Options struct {
	Resolver  Resolver
	Copy      CopyFunc
	Store     Store
	Workspace *workspace.TempWorkspace
	Reporter  *Reporter
	Confirm   Confirmer

	Requests    []string
	Requires    []string
	AllVariants bool
	Full        bool
	Force       bool
	Yes         bool

	// DefaultRelocatable applies to variants that do not declare
	// relocatability themselves.
	DefaultRelocatable bool
}

// Result reports how a run ended.
type Result struct {
	State     State
	Committed []pkgrepo.Variant // variants written to the store
	Skipped   []pkgrepo.Variant // already available locally
	Raced     []pkgrepo.Variant // lost a commit race, present anyway
	SizeMB    float64
}

// stagedVariant pairs a staged copy with its origin.
type stagedVariant struct {
	origin pkgrepo.Variant
	staged pkgrepo.Variant
}

// Pipeline is one localization run. A Pipeline is single-use: Run drives
// it to a terminal state and removes the workspace exactly once.
type Pipeline struct {
	opts     Options
	reporter *Reporter

	state   State
	cleanup sync.Once
}

// New validates the run's collaborators. A nil Reporter discards output
// and a nil Confirm declines, which keeps non-interactive runs from
// blocking.
func New(opts Options) (*Pipeline, error) {
	if opts.Resolver == nil {
		return nil, errors.New(messages.PipelineResolverRequired)
	}
	if opts.Copy == nil {
		return nil, errors.New(messages.PipelineCopierRequired)
	}
	if opts.Store == nil {
		return nil, errors.New(messages.PipelineStoreRequired)
	}
	if opts.Workspace == nil {
		return nil, errors.New(messages.PipelineWorkspaceRequired)
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = NewReporter(nil, nil, 0)
	}
	return &Pipeline{opts: opts, reporter: reporter, state: StateInit}, nil
}

// State returns the phase the run is in, or finished in.
func (p *Pipeline) State() State {
	return p.state
}

func (p *Pipeline) transition(to State) {
	p.reporter.Trace(messages.StateTransitionFmt, p.state, to)
	p.state = to
}

// Run drives the pipeline to a terminal state. Cancellation before the
// commit phase is a normal outcome, not an error. The workspace is
// removed on every exit path, fault paths included.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	defer p.cleanup.Do(p.opts.Workspace.Cleanup)

	p.transition(StateResolving)
	variants, err := p.resolve(ctx)
	if canceled(err) {
		return p.cancelled(), nil
	}
	if err != nil {
		p.transition(StateAborted)
		return nil, err
	}

	p.transition(StateStaging)
	staged, skipped, err := p.stage(ctx, variants)
	if canceled(err) {
		return p.cancelled(), nil
	}
	if err != nil {
		return nil, err
	}

	p.transition(StateGating)
	if ctx.Err() != nil {
		return p.cancelled(), nil
	}
	if err := p.gate(staged); err != nil {
		p.transition(StateAborted)
		return nil, err
	}

	p.transition(StateDeduping)
	toCommit, toSkip, err := p.dedup(staged)
	if err != nil {
		return nil, err
	}
	skipped = append(skipped, toSkip...)

	if len(toCommit) == 0 {
		p.reporter.Tell(messages.NothingToDo)
		p.transition(StateDone)
		return &Result{State: StateDone, Skipped: skipped}, nil
	}

	sizeMB, err := p.review(toCommit, skipped)
	if err != nil {
		return nil, err
	}

	p.transition(StateConfirming)
	if !p.confirmed() {
		return p.cancelled(), nil
	}

	p.transition(StateCommitting)
	committed, raced, err := p.commit(ctx, toCommit)
	if err != nil {
		return nil, err
	}

	p.reporter.Tell(messages.Success)
	p.reporter.Tell(messages.CleaningUp)
	p.transition(StateDone)
	return &Result{
		State:     StateDone,
		Committed: committed,
		Skipped:   skipped,
		Raced:     raced,
		SizeMB:    sizeMB,
	}, nil
}

func (p *Pipeline) cancelled() *Result {
	p.reporter.Tell(messages.Cancelled)
	p.transition(StateCancelled)
	return &Result{State: StateCancelled}
}

func (p *Pipeline) resolve(ctx context.Context) ([]pkgrepo.Variant, error) {
	done := p.reporter.Stage(messages.StageResolving)
	variants, err := p.opts.Resolver.Resolve(ctx, p.opts.Requests, p.opts.Requires, p.opts.Full)
	done(err)
	if err == nil || canceled(err) {
		return variants, err
	}
	if name, ok := unmetPackage(err); ok {
		return nil, &ResolutionError{Name: name, Err: err}
	}
	return nil, err
}

func (p *Pipeline) stage(ctx context.Context, variants []pkgrepo.Variant) ([]stagedVariant, []pkgrepo.Variant, error) {
	done := p.reporter.Stage(messages.StagePreparing)
	staged, skipped, err := p.stageAll(ctx, variants)
	done(err)
	return staged, skipped, err
}

// stageAll copies every resolved variant not already local into the
// workspace. Variants found local here never reach the copier and are
// reported as skipped.
func (p *Pipeline) stageAll(ctx context.Context, variants []pkgrepo.Variant) ([]stagedVariant, []pkgrepo.Variant, error) {
	var staged []stagedVariant
	var skipped []pkgrepo.Variant
	for i, v := range variants {
		if p.reporter.Verbosity() > 0 {
			p.reporter.Tellf(messages.ProgressFmt, i+1, len(variants), v.Label())
		}
		local, err := p.alreadyLocal(v)
		if err != nil {
			return nil, nil, err
		}
		if local {
			skipped = append(skipped, v)
			continue
		}
		pairs, err := p.stageVariant(ctx, v)
		if err != nil {
			return nil, nil, err
		}
		staged = append(staged, pairs...)
	}
	return staged, skipped, nil
}

func (p *Pipeline) stageVariant(ctx context.Context, v pkgrepo.Variant) ([]stagedVariant, error) {
	pkg, err := pkgrepo.LoadPackage(v.PackagePath, v.Name, v.Version)
	if err != nil {
		return nil, err
	}
	res, err := p.opts.Copy(ctx, pkg, p.opts.Workspace.Path(), copier.Options{
		Variants:       variantSelector(v, p.opts.AllVariants),
		FollowSymlinks: true,
		KeepTimestamp:  true,
		Verbose:        p.reporter.Verbosity() > 1,
		Out:            p.reporter.Out(),
	})
	if err != nil {
		return nil, err
	}
	if len(res.Skipped) > 0 {
		return nil, &StagingViolationError{Workspace: p.opts.Workspace.Path(), Skipped: res.Skipped}
	}
	pairs := make([]stagedVariant, len(res.Copied))
	for i, c := range res.Copied {
		pairs[i] = stagedVariant{origin: c.Src, staged: c.Dst}
	}
	return pairs, nil
}

// variantSelector narrows a copy to the resolved index unless every
// variant of the package was requested.
func variantSelector(v pkgrepo.Variant, allVariants bool) []int {
	if allVariants {
		return nil
	}
	return []int{v.Index}
}

// gate applies the relocatability policy to every staged variant. One
// disallowed variant blocks the whole run; nothing is committed
// partially.
func (p *Pipeline) gate(staged []stagedVariant) error {
	done := p.reporter.Stage(messages.StageGating)
	var blocked []pkgrepo.Variant
	for _, pair := range staged {
		if !p.allowed(pair.origin) {
			blocked = append(blocked, pair.origin)
		}
	}
	done(nil)
	if len(blocked) == 0 {
		return nil
	}
	p.reporter.Tell(messages.BlockedHeader)
	p.reporter.Tell(messages.BlockedGuidance)
	for _, v := range blocked {
		p.reporter.Tellf(messages.VariantLineFmt, v.Name, v.Version)
	}
	return &BlockedError{Blocked: blocked}
}

func (p *Pipeline) allowed(v pkgrepo.Variant) bool {
	if p.opts.Force {
		return true
	}
	return v.Relocatable.Bool(p.opts.DefaultRelocatable)
}

// dedup partitions staged variants into those to commit and those whose
// origin identity is already available locally. Each already-local
// variant is dropped from the commit set exactly once, keyed by
// identity.
func (p *Pipeline) dedup(staged []stagedVariant) ([]stagedVariant, []pkgrepo.Variant, error) {
	done := p.reporter.Stage(messages.StageDeduping)
	var toCommit []stagedVariant
	var toSkip []pkgrepo.Variant
	for _, pair := range staged {
		local, err := p.alreadyLocal(pair.origin)
		if err != nil {
			done(err)
			return nil, nil, err
		}
		if local {
			toSkip = append(toSkip, pair.origin)
			continue
		}
		toCommit = append(toCommit, pair)
	}
	done(nil)
	return toCommit, toSkip, nil
}

// alreadyLocal reports whether the variant is available from the local
// store. An origin path under the store root is trusted only while its
// payload is still on disk, because cached discovery can outlive an
// out-of-band removal.
func (p *Pipeline) alreadyLocal(v pkgrepo.Variant) (bool, error) {
	if v.RepoType != pkgrepo.RepoFilesystem {
		return false, nil
	}
	if p.opts.Store.Contains(v.PackagePath) {
		if _, err := os.Stat(v.PackagePath); err == nil {
			return true, nil
		}
	}
	return p.opts.Store.Exists(v)
}

// review prints the commit plan and returns the staged payload size in
// megabytes.
func (p *Pipeline) review(toCommit []stagedVariant, skipped []pkgrepo.Variant) (float64, error) {
	p.reporter.Tell(messages.NewPackagesHeader)
	for _, pair := range toCommit {
		p.reporter.Tellf(messages.VariantLineFmt, pair.origin.Name, pair.origin.Version)
	}
	if len(skipped) > 0 {
		p.reporter.Tell(messages.SkippedPackagesHeader)
		for _, v := range skipped {
			p.reporter.Tellf(messages.VariantLineFmt, v.Name, v.Version)
		}
	}
	p.reporter.Tellf(messages.DestinationFmt, p.opts.Store.Root())
	size, err := fsutil.DirSize(p.opts.Workspace.Path())
	if err != nil {
		return 0, err
	}
	sizeMB := float64(size) / 1e6
	p.reporter.Tellf(messages.SizeFmt, sizeMB)
	return sizeMB, nil
}

func (p *Pipeline) confirmed() bool {
	if p.opts.Yes {
		return true
	}
	if p.opts.Confirm == nil {
		return false
	}
	return p.opts.Confirm(messages.ConfirmContinue)
}

// commit copies each staged variant from the workspace into the store.
// A variant that turns out to be present already lost a race with a
// concurrent run; that is reported and the batch continues.
func (p *Pipeline) commit(ctx context.Context, toCommit []stagedVariant) (committed, raced []pkgrepo.Variant, err error) {
	p.reporter.Tell(messages.LocalizingHeader)
	for _, pair := range toCommit {
		p.reporter.Tellf(messages.VariantLineFmt, pair.origin.Name, pair.origin.Version)
		pkg, err := pkgrepo.LoadPackage(pair.staged.PackagePath, pair.staged.Name, pair.staged.Version)
		if err != nil {
			return nil, nil, err
		}
		res, err := p.opts.Copy(ctx, pkg, p.opts.Store.Root(), copier.Options{
			Variants:       []int{pair.staged.Index},
			FollowSymlinks: true,
			KeepTimestamp:  true,
			Verbose:        p.reporter.Verbosity() > 1,
			Out:            p.reporter.Out(),
		})
		if err != nil {
			return nil, nil, err
		}
		if len(res.Copied) == 0 {
			p.reporter.Tellf(messages.CommitRaceFmt, pair.origin.Label())
			raced = append(raced, pair.origin)
			continue
		}
		committed = append(committed, res.Copied[0].Dst)
	}
	return committed, raced, nil
}

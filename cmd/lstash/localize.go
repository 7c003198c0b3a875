package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localstash/localstash/internal/copier"
	"github.com/localstash/localstash/internal/localize"
	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/resolver"
	"github.com/localstash/localstash/internal/store"
	"github.com/localstash/localstash/internal/workspace"
)

type localizeOptions struct {
	requires    []string
	allVariants bool
	full        bool
	dest        string
	paths       []string
	force       bool
	yes         bool
	verbosity   int
}

func newLocalizeCmd() *cobra.Command {
	opts := localizeOptions{}

	cmd := &cobra.Command{
		Use:     messages.LocalizeUse,
		Short:   messages.LocalizeShort,
		Long:    messages.LocalizeLong,
		Example: messages.LocalizeExample,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(messages.LocalizeRequestRequired)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocalize(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.requires, "requires", nil, messages.LocalizeFlagRequires)
	flags.BoolVar(&opts.allVariants, "all-variants", false, messages.LocalizeFlagAllVariants)
	flags.BoolVar(&opts.full, "full", false, messages.LocalizeFlagFull)
	flags.StringVar(&opts.dest, "dest", "", messages.LocalizeFlagDest)
	flags.StringSliceVar(&opts.paths, "paths", nil, messages.LocalizeFlagPaths)
	flags.BoolVarP(&opts.force, "force", "f", false, messages.LocalizeFlagForce)
	flags.BoolVarP(&opts.yes, "yes", "y", false, messages.LocalizeFlagYes)
	flags.CountVarP(&opts.verbosity, "verbose", "v", messages.FlagVerbose)

	return cmd
}

func runLocalize(cmd *cobra.Command, requests []string, opts localizeOptions) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	reporter := localize.NewReporter(out, errOut, opts.verbosity)

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	cache := newFindCache(cfg)
	res, err := resolver.New(searchPaths(opts.paths, cfg), cache)
	if err != nil {
		return err
	}

	destRoot, err := store.ResolveDest(opts.dest, cfg)
	if err != nil {
		return err
	}
	st, err := store.New(destRoot, cache)
	if err != nil {
		return err
	}

	reporter.Tell(messages.SearchPathsHeader)
	for _, path := range res.Paths() {
		reporter.Tellf(messages.PathLineFmt, path)
	}

	ws, err := workspace.New("", func(format string, args ...any) {
		_, _ = fmt.Fprintf(errOut, format, args...)
	})
	if err != nil {
		return err
	}
	release := ws.Guard(nil)
	defer release()

	pipeline, err := localize.New(localize.Options{
		Resolver:           res,
		Copy:               copier.CopyPackage,
		Store:              st,
		Workspace:          ws,
		Reporter:           reporter,
		Confirm:            confirmer(cmd.InOrStdin(), out),
		Requests:           requests,
		Requires:           opts.requires,
		AllVariants:        opts.allVariants,
		Full:               opts.full,
		Force:              opts.force,
		Yes:                opts.yes,
		DefaultRelocatable: cfg.RelocatableDefault(),
	})
	if err != nil {
		return err
	}

	if _, err := pipeline.Run(cmd.Context()); err != nil {
		return reportError(errOut, err, opts.verbosity)
	}
	return nil
}

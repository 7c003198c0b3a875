package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localstash/localstash/internal/localize"
	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/pkgrepo"
	"github.com/localstash/localstash/internal/store"
)

type delocalizeOptions struct {
	dest      string
	yes       bool
	verbosity int
}

func newDelocalizeCmd() *cobra.Command {
	opts := delocalizeOptions{}

	cmd := &cobra.Command{
		Use:   messages.DelocalizeUse,
		Short: messages.DelocalizeShort,
		Long:  messages.DelocalizeLong,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(messages.LocalizeRequestRequired)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelocalize(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.dest, "dest", "", messages.LocalizeFlagDest)
	flags.BoolVarP(&opts.yes, "yes", "y", false, messages.LocalizeFlagYes)
	flags.CountVarP(&opts.verbosity, "verbose", "v", messages.FlagVerbose)

	return cmd
}

func runDelocalize(cmd *cobra.Command, requests []string, opts delocalizeOptions) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	reporter := localize.NewReporter(out, errOut, opts.verbosity)

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	destRoot, err := store.ResolveDest(opts.dest, cfg)
	if err != nil {
		return err
	}
	st, err := store.New(destRoot, nil)
	if err != nil {
		return err
	}

	variants, err := localizedVariants(st, requests)
	if err != nil {
		return reportError(errOut, err, opts.verbosity)
	}
	if len(variants) == 0 {
		reporter.Tell(messages.DelocalizeNothing)
		return nil
	}

	reporter.Tell(messages.DelocalizeHeader)
	for _, v := range variants {
		reporter.Tellf(messages.VariantLineFmt, v.Name, v.Version)
	}

	if !opts.yes {
		confirm := confirmer(cmd.InOrStdin(), out)
		if !confirm(messages.DelocalizeConfirm) {
			reporter.Tell(messages.Cancelled)
			return nil
		}
	}

	for _, v := range variants {
		if err := st.Remove(v); err != nil {
			return reportError(errOut, fmt.Errorf(messages.DelocalizeRemoveFmt, v.Label(), err), opts.verbosity)
		}
	}
	reporter.Tellf(messages.DelocalizeRemovedFmt, len(variants), st.Root())
	return nil
}

// localizedVariants gathers every variant in the store matching the
// requests, in store order. Declared variants whose payload is gone are
// not offered for removal.
func localizedVariants(st *store.LocalStore, requests []string) ([]pkgrepo.Variant, error) {
	var out []pkgrepo.Variant
	for _, raw := range requests {
		req, err := pkgrepo.ParseRequest(raw)
		if err != nil {
			return nil, err
		}
		pkgs, err := st.Repo().Packages(req.Name, req.Range)
		if err != nil {
			return nil, err
		}
		for _, pkg := range pkgs {
			for _, v := range pkg.Variants() {
				if _, err := os.Stat(v.Root); err != nil {
					continue
				}
				out = append(out, v)
			}
		}
	}
	return out, nil
}

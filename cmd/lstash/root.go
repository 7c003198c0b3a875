package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/localstash/localstash/internal/config"
	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/pkgrepo"
	"github.com/localstash/localstash/internal/terminal"
)

// isTerminalReader is a package-level variable so tests can force the
// interactive prompt path without a real tty.
var isTerminalReader = terminal.IsTerminalReader

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newLocalizeCmd())
	cmd.AddCommand(newDelocalizeCmd())
	cmd.AddCommand(newTrackCmd())

	return cmd
}

// loadConfig resolves the default paths and loads the config file. A
// missing file yields the embedded defaults rather than an error.
func loadConfig() (*config.Config, config.Paths, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, config.Paths{}, err
	}
	cfg, err := config.Load(paths.ConfigPath)
	if err != nil {
		return nil, config.Paths{}, err
	}
	return cfg, paths, nil
}

// searchPaths returns the repositories to resolve against: the flag
// override when given, else $LSTASH_SEARCH_PATHS, else the configured
// paths.
func searchPaths(override []string, cfg *config.Config) []string {
	if len(override) > 0 {
		return override
	}
	if env := os.Getenv(messages.EnvSearchPaths); env != "" {
		return filepath.SplitList(env)
	}
	return cfg.SearchPaths
}

// newFindCache builds the repository discovery cache when the config
// enables one.
func newFindCache(cfg *config.Config) *pkgrepo.FindCache {
	ttl := cfg.CacheTTL()
	if ttl <= 0 {
		return nil
	}
	return pkgrepo.NewFindCache(ttl)
}

// reportError prints err, then its cause when running verbosely or a
// hint about -v otherwise. The returned error carries only the exit
// code; the failure itself has been reported here.
func reportError(errOut io.Writer, err error, verbosity int) error {
	_, _ = fmt.Fprintln(errOut, err)
	cause := errors.Unwrap(err)
	switch {
	case cause == nil:
	case verbosity > 0:
		_, _ = fmt.Fprintln(errOut, cause)
	default:
		_, _ = fmt.Fprintln(errOut, messages.RunVerboseHint)
	}
	return &SilentExitError{Code: 1}
}

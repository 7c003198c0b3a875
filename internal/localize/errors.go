package localize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/pkgrepo"
	"github.com/localstash/localstash/internal/resolver"
)

// ResolutionError wraps a resolve failure with the unmet package name,
// for user-facing reporting.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf(messages.ResolverUserMessageFmt, e.Name)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// BlockedError reports variants the relocatability gate refused to let
// leave their source repository.
type BlockedError struct {
	Blocked []pkgrepo.Variant
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf(messages.BlockedErrorFmt, len(e.Blocked))
}

// StagingViolationError reports a staging copy that skipped variants.
// Staging copies into a fresh private workspace where nothing can
// pre-exist, so a skip is an internal consistency fault, not a user
// error.
type StagingViolationError struct {
	Workspace string
	Skipped   []pkgrepo.Variant
}

func (e *StagingViolationError) Error() string {
	labels := make([]string, len(e.Skipped))
	for i, v := range e.Skipped {
		labels[i] = v.ID().String()
	}
	return fmt.Sprintf(messages.StagingViolationFmt, e.Workspace, strings.Join(labels, ", "))
}

// unmetPackage extracts the package name from a resolve failure, trying
// the typed error first and the stable message prefix second. ok reports
// whether a name was recovered; without one the failure propagates
// unmodified.
func unmetPackage(err error) (name string, ok bool) {
	var notFound *resolver.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Name, true
	}
	rest, found := strings.CutPrefix(err.Error(), messages.ResolverNotFoundPrefix)
	if !found {
		return "", false
	}
	if cut := strings.Index(rest, " ("); cut >= 0 {
		rest = rest[:cut]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

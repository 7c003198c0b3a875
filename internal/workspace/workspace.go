// Package workspace manages the private staging directory of a
// localization run.
package workspace

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/localstash/localstash/internal/messages"
)

// Prefix names staging directories so stray ones are recognizable.
const Prefix = "lstash-"

// TempWorkspace is the staging area of a single run: created empty,
// owned exclusively by that run, removed on every terminal outcome.
type TempWorkspace struct {
	path string
	logf func(format string, args ...any)
}

// New creates a fresh staging directory under parent, or the system
// temp directory when parent is empty. logf receives cleanup failures;
// nil discards them.
func New(parent string, logf func(format string, args ...any)) (*TempWorkspace, error) {
	dir, err := os.MkdirTemp(parent, Prefix)
	if err != nil {
		return nil, fmt.Errorf(messages.WorkspaceCreateFailedFmt, parent, err)
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &TempWorkspace{path: dir, logf: logf}, nil
}

// Path returns the staging directory.
func (w *TempWorkspace) Path() string {
	return w.path
}

// Cleanup removes the staging directory. Safe to call more than once; a
// directory already gone counts as success, and any other removal
// failure is logged rather than returned so cleanup never masks the
// run's outcome.
func (w *TempWorkspace) Cleanup() {
	if err := os.RemoveAll(w.path); err != nil {
		w.logf(messages.WorkspaceCleanupFailedFmt, w.path, err)
	}
}

// Guard runs Cleanup when the process receives SIGINT or SIGTERM, then
// calls exit with the conventional interrupted status (128+signal).
// exit defaults to os.Exit. The returned release function detaches the
// handler; call it once the normal control flow owns cleanup again.
func (w *TempWorkspace) Guard(exit func(int)) (release func()) {
	if exit == nil {
		exit = os.Exit
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGINT, unix.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			w.Cleanup()
			signal.Stop(ch)
			if num, ok := sig.(unix.Signal); ok {
				exit(128 + int(num))
				return
			}
			exit(1)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

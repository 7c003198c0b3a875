package localize

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/terminal"
)

// Reporter renders the run's line protocol. Stage lines stay open until
// their closer finishes them with ok or fail, so progress printed in
// between lands inside the stage.
type Reporter struct {
	out       io.Writer
	errOut    io.Writer
	verbosity int
	okColor   *color.Color
	failColor *color.Color
}

// NewReporter writes protocol lines to out and warnings to errOut. Nil
// writers discard. Stage closers are colored only when out is an
// interactive terminal; pipes and captured buffers get plain text.
func NewReporter(out, errOut io.Writer, verbosity int) *Reporter {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed)
	if !terminal.IsTerminalWriter(out) {
		okColor.DisableColor()
		failColor.DisableColor()
	}
	return &Reporter{
		out:       out,
		errOut:    errOut,
		verbosity: verbosity,
		okColor:   okColor,
		failColor: failColor,
	}
}

// Out exposes the output stream, for the copier's verbose trace.
func (r *Reporter) Out() io.Writer {
	return r.out
}

// Verbosity returns the configured verbosity count.
func (r *Reporter) Verbosity() int {
	return r.verbosity
}

// Tell prints one protocol line.
func (r *Reporter) Tell(line string) {
	_, _ = fmt.Fprintln(r.out, line)
}

// Tellf prints a formatted protocol fragment. The format carries its own
// terminator.
func (r *Reporter) Tellf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Warn prints one line to the error stream.
func (r *Reporter) Warn(line string) {
	_, _ = fmt.Fprintln(r.errOut, line)
}

// Stage opens a stage line and returns its closer. The closer ends the
// line with a green ok, timed at verbosity 1 and up, or a red fail. A
// cancelled stage ends bare so the Cancelled line that follows stands on
// its own.
func (r *Reporter) Stage(label string) func(error) {
	_, _ = fmt.Fprint(r.out, label)
	start := time.Now()
	return func(err error) {
		switch {
		case canceled(err):
			_, _ = fmt.Fprintln(r.out)
		case err != nil:
			_, _ = fmt.Fprintln(r.out, r.failColor.Sprint(messages.StageFail))
		case r.verbosity > 0:
			_, _ = fmt.Fprintln(r.out, r.okColor.Sprintf(messages.StageOKTimeFmt, time.Since(start).Seconds()))
		default:
			_, _ = fmt.Fprintln(r.out, r.okColor.Sprint(messages.StageOK))
		}
	}
}

// Trace prints diagnostic detail at verbosity 2 and up.
func (r *Reporter) Trace(format string, args ...any) {
	if r.verbosity < 2 {
		return
	}
	_, _ = fmt.Fprintf(r.out, format, args...)
}

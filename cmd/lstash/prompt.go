package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/localstash/localstash/internal/localize"
	"github.com/localstash/localstash/internal/messages"
)

// promptYesNo asks a yes/no question on out and reads the answer from
// in. An empty line takes the default; end of input declines.
func promptYesNo(in io.Reader, out io.Writer, prompt string, defaultYes bool) (bool, error) {
	reader := bufio.NewReader(in)
	for {
		format := messages.PromptNoDefaultFmt
		if defaultYes {
			format = messages.PromptYesDefaultFmt
		}
		if _, err := fmt.Fprintf(out, format, prompt); err != nil {
			return false, err
		}

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}

		response := strings.ToLower(strings.TrimSpace(line))
		switch {
		case response == "" && errors.Is(err, io.EOF):
			return false, nil
		case response == "":
			return defaultYes, nil
		case response == "y" || response == "yes" || response == "ok":
			return true, nil
		case response == "n" || response == "no":
			return false, nil
		case errors.Is(err, io.EOF):
			return false, fmt.Errorf(messages.PromptInvalidResponseFmt, response)
		}

		if _, err := fmt.Fprintln(out, messages.PromptRetryYesNo); err != nil {
			return false, err
		}
	}
}

// confirmer builds a confirmation callback on the command's streams.
// A non-terminal input stream declines without prompting, so scripted
// runs never block waiting for an answer.
func confirmer(in io.Reader, out io.Writer) localize.Confirmer {
	return func(prompt string) bool {
		if !isTerminalReader(in) {
			return false
		}
		ok, err := promptYesNo(in, out, prompt, true)
		return err == nil && ok
	}
}

package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func TestMainVersion(t *testing.T) {
	var out bytes.Buffer
	if err := execute([]string{"lstash", "--version"}, &out, &out); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestMainUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := execute([]string{"lstash", "unknown"}, &out, &out)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunMainSuccess(t *testing.T) {
	var out bytes.Buffer
	called := false
	runMain([]string{"lstash", "--version"}, &out, &out, func(code int) {
		called = true
	})
	if called {
		t.Fatalf("unexpected exit")
	}
}

func TestRunMainError(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"lstash", "unknown"}, &out, &out, func(exitCode int) {
		code = exitCode
	})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Fatalf("expected error output, got %q", out.String())
	}
}

func TestRunMainSilentExit(t *testing.T) {
	orig := executeFunc
	defer func() { executeFunc = orig }()
	executeFunc = func(args []string, stdout, stderr io.Writer) error {
		return &SilentExitError{Code: 3}
	}

	var out bytes.Buffer
	code := 0
	runMain([]string{"lstash"}, &out, &out, func(exitCode int) {
		code = exitCode
	})
	if code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
	if out.String() != "" {
		t.Fatalf("silent exit must not print, got %q", out.String())
	}
}

func TestMainCallsExecute(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	os.Args = []string{"lstash", "--version"}
	main()
}

func TestVersionString(t *testing.T) {
	origVersion := Version
	origCommit := Commit
	origBuildDate := BuildDate
	defer func() {
		Version = origVersion
		Commit = origCommit
		BuildDate = origBuildDate
	}()

	tests := []struct {
		name      string
		version   string
		commit    string
		buildDate string
		want      string
	}{
		{
			name:      "Version only",
			version:   "v1.0.0",
			commit:    "",
			buildDate: "",
			want:      "v1.0.0",
		},
		{
			name:      "Version and Commit",
			version:   "v1.0.0",
			commit:    "abcdef",
			buildDate: "",
			want:      "v1.0.0 (commit abcdef)",
		},
		{
			name:      "Version and BuildDate",
			version:   "v1.0.0",
			commit:    "",
			buildDate: "2026-01-01",
			want:      "v1.0.0 (built 2026-01-01)",
		},
		{
			name:      "All metadata",
			version:   "v1.0.0",
			commit:    "abcdef",
			buildDate: "2026-01-01",
			want:      "v1.0.0 (commit abcdef, built 2026-01-01)",
		},
		{
			name:      "Unknown metadata filtered",
			version:   "v1.0.0",
			commit:    "unknown",
			buildDate: "unknown",
			want:      "v1.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			Commit = tt.commit
			BuildDate = tt.buildDate
			if got := versionString(); got != tt.want {
				t.Errorf("versionString() = %v, want %v", got, tt.want)
			}
		})
	}
}

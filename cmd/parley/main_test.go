package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_Version_PrintsVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--version"}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "parley version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_VersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"version"}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "parley version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_Help_PrintsUsage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--help"}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("expected help output, got %q", out.String())
	}
}

func TestRun_InvalidFlag_Returns2(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--unknown-flag"}, &out)

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRun_UnknownCommand_Returns2(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"frobnicate"}, &out)

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Fatalf("expected unknown command message, got %q", out.String())
	}
}

func TestRun_Migrate_CreatesSchema(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARLEY_DB_PATH", dir+"/parley.db")
	t.Setenv("PARLEY_CONFIG", "")

	var out bytes.Buffer
	code := run([]string{"migrate"}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, out.String())
	}
	if !strings.Contains(out.String(), "migrations applied") {
		t.Fatalf("expected migration output, got %q", out.String())
	}
}

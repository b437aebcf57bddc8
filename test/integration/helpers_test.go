//go:build integration

// Package integration exercises spec §8's end-to-end scenarios against real
// components: a real git binary and a fake, recording tmux script on PATH,
// following the teacher's test/integration structure.
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// createLocalRepo initializes a throwaway non-bare repository under a temp
// dir, commits one file, and returns its path so it can be used as a clone
// remote (git can clone from a local path just as well as a URL).
func createLocalRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	run := func(args ...string) {
		t.Helper()

		cmd := exec.Command("git", args...)
		cmd.Dir = dir

		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	run("init", "-b", "main")
	run("config", "user.email", "test@example.test")
	run("config", "user.name", "cgwt integration test")

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("seed\n"), 0o644); err != nil {
		t.Fatalf("failed to seed repo: %v", err)
	}

	run("add", "README.md")
	run("commit", "-m", "seed")

	return dir
}

// fakeTmux writes a recording shell script named "tmux" onto a temp PATH
// entry, mirroring internal/mux's own test fixture: every invocation is
// appended to invocationsFile, has-session always reports "no such
// session", and list-sessions reports no live sessions by default.
func fakeTmux(t *testing.T, invocationsFile string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake tmux script requires a POSIX shell")
	}

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "tmux")

	script := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
case "$1" in
  has-session)
    exit 1
    ;;
  list-sessions)
    exit 0
    ;;
esac
exit 0
`, invocationsFile)

	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil { //nolint:gosec // test fixture
		t.Fatalf("failed to write fake tmux script: %v", err)
	}

	return dir
}

func withFakeTmuxOnPath(t *testing.T, dir string) {
	t.Helper()

	original := os.Getenv("PATH")
	t.Setenv("PATH", dir+string(os.PathListSeparator)+original)
}

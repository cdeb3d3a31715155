// Package testutils holds helpers shared by package tests.
package testutils

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
)

// WriteTempConfig writes content to a .pkgmeta.yaml in a fresh temp dir and
// returns its path.
func WriteTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".pkgmeta.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// Chdir switches to dir for the rest of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		orig = os.TempDir()
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// BuildCLIForTests wraps commands in a minimal root command.
func BuildCLIForTests(commands []*cli.Command) *cli.Command {
	return &cli.Command{
		Name:     "pkgmeta",
		Commands: commands,
	}
}

// RunCLITest runs app with args from workdir and fails the test on error.
func RunCLITest(t *testing.T, app *cli.Command, args []string, workdir string) {
	t.Helper()
	Chdir(t, workdir)
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("app.Run(%v) failed: %v", args, err)
	}
}

// CaptureStdout returns everything fn writes to os.Stdout.
func CaptureStdout(fn func()) (string, error) {
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	var copyErr error
	go func() {
		_, copyErr = io.Copy(&buf, r)
		close(done)
	}()

	defer func() { os.Stdout = orig }()
	fn()

	_ = w.Close()
	<-done
	_ = r.Close()
	return buf.String(), copyErr
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

/* ------------------------------------------------------------------------- */
/* HELPERS                                                                   */
/* ------------------------------------------------------------------------- */

// runInTempDir runs a function in the directory holding tmpPath, then restores to a safe directory.
// This handles the case where the CWD has been deleted by previous test cleanup.
func runInTempDir(t *testing.T, tmpPath string, fn func()) {
	t.Helper()

	origDir, err := os.Getwd()
	if err != nil {
		origDir = os.TempDir()
		if chErr := os.Chdir(origDir); chErr != nil {
			t.Fatalf("failed to chdir to temp dir: %v", chErr)
		}
	}

	targetDir := filepath.Dir(tmpPath)
	if err := os.Chdir(targetDir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", targetDir, err)
	}
	defer func() { _ = os.Chdir(origDir) }()
	fn()
}

func checkError(t *testing.T, err error, wantErr bool) {
	t.Helper()
	if (err != nil) != wantErr {
		t.Fatalf("expected err=%v, got err=%v", wantErr, err)
	}
}

func checkConfigNil(t *testing.T, cfg *Config, wantNil bool) {
	t.Helper()
	if wantNil && cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
	if !wantNil && cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
}

func checkVersionFile(t *testing.T, cfg *Config, wantFile string) {
	t.Helper()
	if cfg.Version.File != wantFile {
		t.Errorf("expected version file %q, got %q", wantFile, cfg.Version.File)
	}
}

func countCategory(results []ValidationResult, category string, failedOnly bool) int {
	n := 0
	for _, r := range results {
		if r.Category == category && (!failedOnly || !r.Passed) {
			n++
		}
	}
	return n
}

package config

import (
	"context"
	"testing"

	"github.com/indaco/pkgmeta/internal/core"
)

func validate(t *testing.T, cfg *Config, files map[string]string) []ValidationResult {
	t.Helper()
	fs := core.NewMockFileSystem()
	for p, c := range files {
		fs.SetFile(p, []byte(c))
	}
	results, err := NewValidator(fs, cfg).Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return results
}

func evilValidationConfig() *Config {
	cfg := &Config{
		Name:            "evil_package",
		Author:          "Ryan",
		AuthorEmail:     "ryan@evilcorp.example",
		InstallRequires: []string{"setuptools>=45.0"},
		Root:            "/proj",
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidator_Valid(t *testing.T) {
	results := validate(t, evilValidationConfig(), map[string]string{
		"/proj/evil_package/__init__.py": `__version__ = "1.2.3"`,
	})

	if HasErrors(results) {
		t.Errorf("unexpected errors: %+v", results)
	}
	if WarningCount(results) != 0 {
		t.Errorf("unexpected warnings: %+v", results)
	}
}

func TestValidator_Findings(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*Config)
		files        map[string]string
		wantErrors   int
		wantWarnings int
		category     string
	}{
		{
			name:       "missing name",
			mutate:     func(c *Config) { c.Name = "" },
			files:      map[string]string{"/proj/evil_package/__init__.py": `__version__ = "1.0.0"`},
			wantErrors: 1,
			category:   "Metadata",
		},
		{
			name:       "missing version file",
			files:      map[string]string{},
			wantErrors: 1,
			category:   "Version Source",
		},
		{
			name:       "executable version file",
			files:      map[string]string{"/proj/evil_package/__init__.py": "import os\nos.system('id')\n"},
			wantErrors: 1,
			category:   "Version Source",
		},
		{
			name:         "defaulted version",
			files:        map[string]string{"/proj/evil_package/__init__.py": `AUTHOR = "Ryan"`},
			wantWarnings: 1,
			category:     "Version Source",
		},
		{
			name:       "strict missing version",
			mutate:     func(c *Config) { c.Version.Strict = true },
			files:      map[string]string{"/proj/evil_package/__init__.py": `AUTHOR = "Ryan"`},
			wantErrors: 1,
			category:   "Version Source",
		},
		{
			name:       "unknown formats",
			mutate:     func(c *Config) { c.Version.Format = "ini"; c.Output = "xml" },
			files:      map[string]string{"/proj/evil_package/__init__.py": `__version__ = "1.0.0"`},
			wantErrors: 3,
		},
		{
			name:       "regex without pattern",
			mutate:     func(c *Config) { c.Version.Format = "regex" },
			files:      map[string]string{"/proj/evil_package/__init__.py": `__version__ = "1.0.0"`},
			wantErrors: 2,
			category:   "Version Source",
		},
		{
			name:       "bad exclude pattern",
			mutate:     func(c *Config) { c.Packages.Exclude = []string{"[tests"} },
			files:      map[string]string{"/proj/evil_package/__init__.py": `__version__ = "1.0.0"`},
			wantErrors: 1,
			category:   "Packages",
		},
		{
			name:         "unknown theme",
			mutate:       func(c *Config) { c.Theme = "neon" },
			files:        map[string]string{"/proj/evil_package/__init__.py": `__version__ = "1.0.0"`},
			wantWarnings: 1,
			category:     "Theme",
		},
		{
			name:         "no author",
			mutate:       func(c *Config) { c.Author, c.AuthorEmail = "", "" },
			files:        map[string]string{"/proj/evil_package/__init__.py": `__version__ = "1.0.0"`},
			wantWarnings: 1,
			category:     "Metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := evilValidationConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			results := validate(t, cfg, tt.files)

			if got := ErrorCount(results); got != tt.wantErrors {
				t.Errorf("ErrorCount = %d, want %d: %+v", got, tt.wantErrors, results)
			}
			if got := WarningCount(results); got != tt.wantWarnings {
				t.Errorf("WarningCount = %d, want %d: %+v", got, tt.wantWarnings, results)
			}
			if tt.category != "" && countCategory(results, tt.category, true) == 0 {
				t.Errorf("expected a failed %q result: %+v", tt.category, results)
			}
		})
	}
}

func TestValidator_NilConfig(t *testing.T) {
	if _, err := NewValidator(core.NewMockFileSystem(), nil).Validate(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestValidator_CanceledContext(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/proj/evil_package/__init__.py", []byte(`__version__ = "1.0.0"`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewValidator(fs, evilValidationConfig()).Validate(ctx); err == nil {
		t.Error("expected error, got nil")
	}
}

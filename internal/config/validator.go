package config

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/indaco/pkgmeta/internal/core"
	"github.com/indaco/pkgmeta/internal/descriptor"
	"github.com/indaco/pkgmeta/internal/parser"
	"github.com/indaco/pkgmeta/internal/tui"
	"github.com/indaco/pkgmeta/internal/version"
)

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	// Category is the validation category (e.g., "Metadata", "Version Source").
	Category string

	// Passed indicates if the check passed.
	Passed bool

	// Message provides details about the validation result.
	Message string

	// Warning indicates if this is a warning rather than an error.
	Warning bool
}

// Validator validates a configuration and the files it points at.
type Validator struct {
	fs          core.FileSystem
	cfg         *Config
	validations []ValidationResult
}

// NewValidator creates a new configuration validator.
func NewValidator(fs core.FileSystem, cfg *Config) *Validator {
	return &Validator{
		fs:          fs,
		cfg:         cfg,
		validations: make([]ValidationResult, 0),
	}
}

// Validate runs all validation checks and returns the results.
func (v *Validator) Validate(ctx context.Context) ([]ValidationResult, error) {
	v.validations = make([]ValidationResult, 0)

	if v.cfg == nil {
		return nil, fmt.Errorf("no configuration to validate")
	}

	v.validateMetadata()
	v.validateFormats()
	v.validatePatterns()
	if err := v.validateVersionSource(ctx); err != nil {
		return nil, err
	}

	return v.validations, nil
}

func (v *Validator) validateMetadata() {
	if strings.TrimSpace(v.cfg.Name) == "" {
		v.addValidation("Metadata", false, "name is required", false)
	} else {
		v.addValidation("Metadata", true, fmt.Sprintf("name: %s", v.cfg.Name), false)
	}

	if v.cfg.Author == "" && v.cfg.AuthorEmail == "" {
		v.addValidation("Metadata", false, "no author or author_email set", true)
	}
	if v.cfg.AuthorEmail != "" && !strings.Contains(v.cfg.AuthorEmail, "@") {
		v.addValidation("Metadata", false, fmt.Sprintf("author_email %q does not look like an address", v.cfg.AuthorEmail), true)
	}
	if len(v.cfg.InstallRequires) == 0 {
		v.addValidation("Dependencies", true, "no install_requires declared", false)
	}
	for _, req := range v.cfg.InstallRequires {
		if strings.TrimSpace(req) == "" {
			v.addValidation("Dependencies", false, "install_requires contains an empty entry", false)
			break
		}
	}
}

func (v *Validator) validateFormats() {
	if f := v.cfg.Version.Format; f != "" && !parser.Format(f).IsValid() {
		v.addValidation("Version Source", false, fmt.Sprintf("unknown version format %q", f), false)
	}
	if v.cfg.Version.Format == string(parser.FormatRegex) && v.cfg.Version.Pattern == "" {
		v.addValidation("Version Source", false, "regex format requires a pattern", false)
	}
	if o := v.cfg.Output; o != "" && !descriptor.Format(o).IsValid() {
		v.addValidation("Output", false, fmt.Sprintf("unknown output format %q", o), false)
	}
	if th := v.cfg.Theme; th != "" && !tui.IsValidTheme(th) {
		v.addValidation("Theme", false, fmt.Sprintf("unknown theme %q, using %s", th, DefaultTheme), true)
	}
}

func (v *Validator) validatePatterns() {
	for _, p := range append(append([]string(nil), v.cfg.Packages.Include...), v.cfg.Packages.Exclude...) {
		if _, err := path.Match(p, ""); err != nil {
			v.addValidation("Packages", false, fmt.Sprintf("invalid pattern %q", p), false)
		}
	}
}

// validateVersionSource reads the version source the way a build would.
func (v *Validator) validateVersionSource(ctx context.Context) error {
	src := v.cfg.VersionSource()
	if src.Path == "" {
		v.addValidation("Version Source", false, "no version file configured", false)
		return nil
	}

	res, err := version.NewExtractor(v.fs).Extract(ctx, src)
	var perr *parser.ParseError
	switch {
	case err == nil && res.Defaulted:
		v.addValidation("Version Source", false,
			fmt.Sprintf("%s declares no %s, falling back to %s", src.Path, res.Source.Key, res.Version), true)
	case err == nil:
		v.addValidation("Version Source", true, fmt.Sprintf("%s: %s", src.Path, res.Version), false)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, version.ErrFileNotFound):
		v.addValidation("Version Source", false, fmt.Sprintf("%s does not exist", src.Path), false)
	case errors.As(err, &perr):
		v.addValidation("Version Source", false, fmt.Sprintf("not a plain assignment file: %v", perr), false)
	default:
		v.addValidation("Version Source", false, err.Error(), false)
	}

	return nil
}

// addValidation adds a validation result to the list.
func (v *Validator) addValidation(category string, passed bool, message string, warning bool) {
	v.validations = append(v.validations, ValidationResult{
		Category: category,
		Passed:   passed,
		Message:  message,
		Warning:  warning,
	})
}

// HasErrors returns true if any validation failed.
func HasErrors(results []ValidationResult) bool {
	return ErrorCount(results) > 0
}

// ErrorCount returns the number of failed validations.
func ErrorCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if !r.Passed && !r.Warning {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warnings.
func WarningCount(results []ValidationResult) int {
	count := 0
	for _, r := range results {
		if r.Warning {
			count++
		}
	}
	return count
}

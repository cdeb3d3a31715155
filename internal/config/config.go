package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/pkgmeta/internal/core"
	"github.com/indaco/pkgmeta/internal/descriptor"
	"github.com/indaco/pkgmeta/internal/discovery"
	"github.com/indaco/pkgmeta/internal/parser"
	"github.com/indaco/pkgmeta/internal/version"
)

const (
	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = ".pkgmeta.yaml"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "PKGMETA_CONFIG"

	// DefaultTheme is the TUI theme used when none is configured.
	DefaultTheme = "pkgmeta"
)

// DefaultExclude is the package exclude list used when none is configured.
var DefaultExclude = []string{"tests"}

// VersionConfig describes the version source.
type VersionConfig struct {
	File    string `yaml:"file,omitempty"`
	Format  string `yaml:"format,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Default string `yaml:"default,omitempty"`
	Strict  bool   `yaml:"strict,omitempty"`
	Semver  bool   `yaml:"semver,omitempty"`
}

// PackagesConfig controls package discovery.
type PackagesConfig struct {
	Where   string   `yaml:"where,omitempty"`
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Config is the main configuration structure for pkgmeta.
type Config struct {
	Name            string         `yaml:"name"`
	Author          string         `yaml:"author,omitempty"`
	AuthorEmail     string         `yaml:"author_email,omitempty"`
	URL             string         `yaml:"url,omitempty"`
	Description     string         `yaml:"description,omitempty"`
	Version         VersionConfig  `yaml:"version,omitempty"`
	Packages        PackagesConfig `yaml:"packages,omitempty"`
	InstallRequires []string       `yaml:"install_requires,omitempty"`
	Classifiers     []string       `yaml:"classifiers,omitempty"`
	Output          string         `yaml:"output,omitempty"`
	Theme           string         `yaml:"theme,omitempty"`

	// Root is the directory relative paths are resolved against.
	// It is the directory holding the config file.
	Root string `yaml:"-"`
}

// Default returns the configuration used when no file exists.
func Default(name string) *Config {
	cfg := &Config{Name: name, Root: "."}
	cfg.ApplyDefaults()
	return cfg
}

// InferName derives a distribution name from a project directory: its base
// name with dashes mapped to underscores, so it is importable.
func InferName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	name := filepath.Base(abs)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.ReplaceAll(name, "-", "_")
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.Version.File == "" && c.Name != "" {
		c.Version.File = filepath.Join(c.Name, "__init__.py")
	}
	if c.Version.Default == "" {
		c.Version.Default = version.DefaultVersion
	}
	if c.Packages.Where == "" {
		c.Packages.Where = "."
	}
	if c.Packages.Exclude == nil {
		c.Packages.Exclude = append([]string(nil), DefaultExclude...)
	}
	if c.Output == "" {
		c.Output = string(descriptor.FormatJSON)
	}
}

// GetTheme returns the configured theme or DefaultTheme.
func (c *Config) GetTheme() string {
	if c.Theme == "" {
		return DefaultTheme
	}
	return c.Theme
}

// VersionSource converts the version section to a version.Source.
func (c *Config) VersionSource() version.Source {
	src := version.Source{
		Key:           c.Version.Key,
		Pattern:       c.Version.Pattern,
		Default:       c.Version.Default,
		Strict:        c.Version.Strict,
		RequireSemver: c.Version.Semver,
	}
	if c.Version.File != "" {
		src.Path = c.resolve(c.Version.File)
	}
	if c.Version.Format != "" {
		src.Format = parser.Format(c.Version.Format)
	}
	return src
}

// PackageOptions converts the packages section to discovery.Options.
func (c *Config) PackageOptions() discovery.Options {
	return discovery.Options{
		Where:   c.resolve(c.Packages.Where),
		Include: c.Packages.Include,
		Exclude: c.Packages.Exclude,
	}
}

// Metadata returns the static descriptor metadata.
func (c *Config) Metadata() descriptor.Metadata {
	return descriptor.Metadata{
		Name:            c.Name,
		Author:          c.Author,
		AuthorEmail:     c.AuthorEmail,
		URL:             c.URL,
		Description:     c.Description,
		InstallRequires: c.InstallRequires,
		Classifiers:     c.Classifiers,
	}
}

// Input assembles the descriptor build input.
func (c *Config) Input() descriptor.Input {
	return descriptor.Input{
		Metadata: c.Metadata(),
		Version:  c.VersionSource(),
		Packages: c.PackageOptions(),
	}
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Root == "" || c.Root == "." {
		return p
	}
	return filepath.Join(c.Root, p)
}

// FileOpener abstracts file opening operations for testability.
type FileOpener interface {
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

// FileWriter abstracts file writing operations for testability.
type FileWriter interface {
	WriteFile(file *os.File, data []byte) (int, error)
}

// ConfigSaver handles configuration saving with injected dependencies.
type ConfigSaver struct {
	marshaler  core.Marshaler
	fileOpener FileOpener
	fileWriter FileWriter
}

type osFileOpener struct{}

func (o *osFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

type osFileWriter struct{}

func (w *osFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	return file.Write(data)
}

type yamlMarshaler struct{}

func (m *yamlMarshaler) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// NewConfigSaver creates a ConfigSaver with the given dependencies.
// If any dependency is nil, the production default is used.
func NewConfigSaver(marshaler core.Marshaler, opener FileOpener, writer FileWriter) *ConfigSaver {
	if marshaler == nil {
		marshaler = &yamlMarshaler{}
	}
	if opener == nil {
		opener = &osFileOpener{}
	}
	if writer == nil {
		writer = &osFileWriter{}
	}
	return &ConfigSaver{
		marshaler:  marshaler,
		fileOpener: opener,
		fileWriter: writer,
	}
}

// Save saves the configuration to DefaultConfigFile.
func (s *ConfigSaver) Save(cfg *Config) error {
	return s.SaveTo(cfg, DefaultConfigFile)
}

// SaveTo saves the configuration to the specified file path.
func (s *ConfigSaver) SaveTo(cfg *Config, configFile string) error {
	data, err := s.marshaler.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", configFile, err)
	}

	file, err := s.fileOpener.OpenFile(configFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open config file %q: %w", configFile, err)
	}
	defer file.Close()

	if _, err := s.fileWriter.WriteFile(file, data); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", configFile, err)
	}

	return nil
}

var defaultConfigSaver = NewConfigSaver(nil, nil, nil)

// LoadConfigFn and SaveConfigFn are function variables so commands can be
// tested without touching the working directory.
var (
	LoadConfigFn = loadConfig
	SaveConfigFn = func(cfg *Config, path string) error {
		if path == "" {
			path = DefaultConfigFile
		}
		return defaultConfigSaver.SaveTo(cfg, path)
	}
)

// loadConfig reads the config file. An explicit path wins over
// PKGMETA_CONFIG, which wins over DefaultConfigFile. A missing
// DefaultConfigFile yields (nil, nil) so callers can fall back to defaults;
// a missing explicit file is an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""

	if !explicit {
		if envPath := os.Getenv(EnvConfigPath); envPath != "" {
			cleanPath := filepath.Clean(envPath)
			if !filepath.IsAbs(cleanPath) && strings.Contains(cleanPath, "..") {
				return nil, fmt.Errorf("invalid %s: path traversal not allowed, use absolute path instead", EnvConfigPath)
			}
			path = cleanPath
			explicit = true
		}
	}

	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	cfg.Root = filepath.Dir(path)
	cfg.ApplyDefaults()

	return &cfg, nil
}

// ConfigFilePerm defines secure file permissions for config files (owner read/write only).
const ConfigFilePerm = core.PermOwnerRW

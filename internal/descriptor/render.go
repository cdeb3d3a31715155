package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Format selects how a descriptor is rendered for the build tool.
type Format string

const (
	// FormatJSON renders setup() keyword arguments as a JSON object.
	FormatJSON Format = "json"

	// FormatYAML renders setup() keyword arguments as YAML.
	FormatYAML Format = "yaml"

	// FormatTOML renders a pyproject.toml with a [project] table.
	FormatTOML Format = "toml"
)

// Formats lists every supported render format.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// IsValid returns true if the format is a known render format.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return true
	default:
		return false
	}
}

// Render serializes d in the requested format. The output ends with a newline.
func Render(d *Descriptor, format Format) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatJSON:
		out, err = renderJSON(d)
	case FormatYAML:
		out, err = renderYAML(d)
	case FormatTOML:
		out, err = renderTOML(d)
	default:
		return nil, fmt.Errorf("unsupported descriptor format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// setupKwargs mirrors the setup() keyword arguments in declaration order.
type setupKwargs struct {
	Name            string   `yaml:"name"`
	Author          string   `yaml:"author,omitempty"`
	AuthorEmail     string   `yaml:"author_email,omitempty"`
	URL             string   `yaml:"url,omitempty"`
	Description     string   `yaml:"description,omitempty"`
	Version         string   `yaml:"version"`
	Packages        []string `yaml:"packages"`
	InstallRequires []string `yaml:"install_requires"`
	Classifiers     []string `yaml:"classifiers"`
}

func kwargs(d *Descriptor) setupKwargs {
	return setupKwargs{
		Name:            d.Name(),
		Author:          d.Author(),
		AuthorEmail:     d.AuthorEmail(),
		URL:             d.URL(),
		Description:     d.Description(),
		Version:         d.Version(),
		Packages:        nonNil(d.Packages()),
		InstallRequires: nonNil(d.InstallRequires()),
		Classifiers:     nonNil(d.Classifiers()),
	}
}

// renderJSON builds the object key by key with sjson so the keys keep the
// setup() argument order.
func renderJSON(d *Descriptor) ([]byte, error) {
	k := kwargs(d)
	fields := []struct {
		key   string
		value any
		skip  bool
	}{
		{"name", k.Name, false},
		{"author", k.Author, k.Author == ""},
		{"author_email", k.AuthorEmail, k.AuthorEmail == ""},
		{"url", k.URL, k.URL == ""},
		{"description", k.Description, k.Description == ""},
		{"version", k.Version, false},
		{"packages", k.Packages, false},
		{"install_requires", k.InstallRequires, false},
		{"classifiers", k.Classifiers, false},
	}

	out := []byte("{}")
	for _, f := range fields {
		if f.skip {
			continue
		}
		raw, err := encodeJSON(f.value)
		if err != nil {
			return nil, fmt.Errorf("failed to render %q: %w", f.key, err)
		}
		out, err = sjson.SetRawBytes(out, f.key, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to render %q: %w", f.key, err)
		}
	}

	return pretty.Pretty(out), nil
}

// encodeJSON marshals v without HTML escaping so requirement specifiers
// such as "setuptools>=45.0" stay readable.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func renderYAML(d *Descriptor) ([]byte, error) {
	out, err := yaml.Marshal(kwargs(d))
	if err != nil {
		return nil, fmt.Errorf("failed to render YAML descriptor: %w", err)
	}
	return out, nil
}

// pyproject is the subset of a PEP 621 pyproject.toml the descriptor fills.
type pyproject struct {
	Project     pyProject     `toml:"project"`
	BuildSystem pyBuildSystem `toml:"build-system"`
	Tool        pyTool        `toml:"tool"`
}

type pyProject struct {
	Name         string            `toml:"name"`
	Version      string            `toml:"version"`
	Description  string            `toml:"description,omitempty"`
	Authors      []pyContact       `toml:"authors,omitempty"`
	Dependencies []string          `toml:"dependencies"`
	Classifiers  []string          `toml:"classifiers"`
	URLs         map[string]string `toml:"urls,omitempty"`
}

type pyContact struct {
	Name  string `toml:"name,omitempty"`
	Email string `toml:"email,omitempty"`
}

type pyBuildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

type pyTool struct {
	Setuptools pySetuptools `toml:"setuptools"`
}

type pySetuptools struct {
	Packages []string `toml:"packages"`
}

func renderTOML(d *Descriptor) ([]byte, error) {
	doc := pyproject{
		Project: pyProject{
			Name:         d.Name(),
			Version:      d.Version(),
			Description:  d.Description(),
			Dependencies: nonNil(d.InstallRequires()),
			Classifiers:  nonNil(d.Classifiers()),
		},
		BuildSystem: pyBuildSystem{
			Requires:     []string{"setuptools>=61.0"},
			BuildBackend: "setuptools.build_meta",
		},
		Tool: pyTool{Setuptools: pySetuptools{Packages: nonNil(d.Packages())}},
	}
	if d.Author() != "" || d.AuthorEmail() != "" {
		doc.Project.Authors = []pyContact{{Name: d.Author(), Email: d.AuthorEmail()}}
	}
	if d.URL() != "" {
		doc.Project.URLs = map[string]string{"Homepage": d.URL()}
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render TOML descriptor: %w", err)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

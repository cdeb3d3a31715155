package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
)

/* ------------------------------------------------------------------------- */
/* MOCK IMPLEMENTATIONS FOR TESTING                                          */
/* ------------------------------------------------------------------------- */

// mockMarshaler implements core.Marshaler for testing.
type mockMarshaler struct {
	marshalErr error
}

func (m *mockMarshaler) Marshal(v any) ([]byte, error) {
	if m.marshalErr != nil {
		return nil, m.marshalErr
	}
	return []byte("name: test\n"), nil
}

// mockFileOpener implements FileOpener for testing.
type mockFileOpener struct {
	openFileErr error
}

func (m *mockFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	if m.openFileErr != nil {
		return nil, m.openFileErr
	}
	return os.OpenFile(name, flag, perm)
}

// mockFileWriter implements FileWriter for testing.
type mockFileWriter struct {
	writeFileErr error
}

func (m *mockFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	if m.writeFileErr != nil {
		return 0, m.writeFileErr
	}
	return file.Write(data)
}

/* ------------------------------------------------------------------------- */
/* SAVE CONFIG                                                               */
/* ------------------------------------------------------------------------- */

func TestConfigSaver_SaveTo(t *testing.T) {
	tests := []struct {
		name          string
		cfg           *Config
		wantErr       bool
		mockMarshaler *mockMarshaler
		mockOpener    *mockFileOpener
		mockWriter    *mockFileWriter
	}{
		{
			name: "save minimal config",
			cfg:  &Config{Name: "evil_package"},
		},
		{
			name: "save full config",
			cfg:  Default("evil_package"),
		},
		{
			name:          "marshal failure",
			cfg:           &Config{Name: "fail"},
			wantErr:       true,
			mockMarshaler: &mockMarshaler{marshalErr: fmt.Errorf("mock marshal failure")},
		},
		{
			name:       "open file failure",
			cfg:        &Config{Name: "fail-open"},
			wantErr:    true,
			mockOpener: &mockFileOpener{openFileErr: fmt.Errorf("permission denied")},
		},
		{
			name:       "write file failure",
			cfg:        &Config{Name: "fail-write"},
			wantErr:    true,
			mockWriter: &mockFileWriter{writeFileErr: fmt.Errorf("simulated write failure")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), DefaultConfigFile)

			// nil means use the production default
			var (
				marshaler interface{ Marshal(any) ([]byte, error) }
				opener    FileOpener
				writer    FileWriter
			)
			if tt.mockMarshaler != nil {
				marshaler = tt.mockMarshaler
			}
			if tt.mockOpener != nil {
				opener = tt.mockOpener
			}
			if tt.mockWriter != nil {
				writer = tt.mockWriter
			}

			err := NewConfigSaver(marshaler, opener, writer).SaveTo(tt.cfg, configFile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConfigSaver.SaveTo() error = %v, wantErr = %v", err, tt.wantErr)
			}

			if !tt.wantErr {
				info, err := os.Stat(configFile)
				if err != nil {
					t.Fatalf("config file was not created: %v", err)
				}
				if perm := info.Mode().Perm(); perm != ConfigFilePerm {
					t.Errorf("config file perm = %o, want %o", perm, ConfigFilePerm)
				}
			}
		})
	}
}

func TestConfigSaver_RoundTrip(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), DefaultConfigFile)
	cfg := Default("evil_package")
	cfg.Author = "Ryan"
	cfg.InstallRequires = []string{"setuptools>=45.0"}

	if err := NewConfigSaver(nil, nil, nil).SaveTo(cfg, configFile); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved config is not YAML: %v", err)
	}
	if _, ok := raw["root"]; ok {
		t.Error("Root must not be serialized")
	}

	loaded, err := LoadConfigFn(configFile)
	if err != nil {
		t.Fatalf("LoadConfigFn: %v", err)
	}
	if loaded.Name != "evil_package" || loaded.Author != "Ryan" || loaded.Version.File != cfg.Version.File {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}

func TestConfigSaver_WriteError(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), DefaultConfigFile)

	saver := NewConfigSaver(nil, nil, &mockFileWriter{writeFileErr: fmt.Errorf("simulated write failure")})

	err := saver.SaveTo(&Config{Name: "whatever"}, configFile)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	want := fmt.Sprintf("failed to write config to %q: simulated write failure", configFile)
	if err.Error() != want {
		t.Errorf("unexpected error. got: %q, want: %q", err.Error(), want)
	}
}

func TestSaveConfigFn_DefaultPath(t *testing.T) {
	tmp := t.TempDir()
	runInTempDir(t, filepath.Join(tmp, "dummy"), func() {
		if err := SaveConfigFn(&Config{Name: "evil_package"}, ""); err != nil {
			t.Fatalf("SaveConfigFn() error = %v", err)
		}

		if _, err := os.Stat(DefaultConfigFile); err != nil {
			t.Errorf("%s was not created: %v", DefaultConfigFile, err)
		}
	})
}

func TestNewConfigSaver_Defaults(t *testing.T) {
	saver := NewConfigSaver(nil, nil, nil)
	if saver.marshaler == nil {
		t.Error("marshaler should not be nil")
	}
	if saver.fileOpener == nil {
		t.Error("fileOpener should not be nil")
	}
	if saver.fileWriter == nil {
		t.Error("fileWriter should not be nil")
	}
}

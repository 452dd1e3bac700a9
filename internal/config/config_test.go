package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Defaults are documented through these tests; changing one must be intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Format is text", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != "text" {
			t.Errorf("expected Format to be 'text', got '%s'", cfg.Format)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default scanner settings match the standard report layout", func(t *testing.T) {
		t.Parallel()
		if cfg.HeaderSuffix != ".java" {
			t.Errorf("expected HeaderSuffix '.java', got %q", cfg.HeaderSuffix)
		}
		if cfg.FilenameToken != -1 {
			t.Errorf("expected FilenameToken -1, got %d", cfg.FilenameToken)
		}
		if cfg.NameOffset != 4 {
			t.Errorf("expected NameOffset 4, got %d", cfg.NameOffset)
		}
		if cfg.FunctionSuffix != "()" {
			t.Errorf("expected FunctionSuffix '()', got %q", cfg.FunctionSuffix)
		}
	})

	t.Run("default Save is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Save {
			t.Error("expected Save to be false")
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})
}

// TestScannerOptions verifies the conversion to scanner settings.
func TestScannerOptions(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.HeaderSuffix = ".kt"
	cfg.FilenameToken = 2
	cfg.NameOffset = 0
	cfg.FunctionSuffix = ")"

	opts := cfg.ScannerOptions()
	if opts.HeaderSuffix != ".kt" || opts.FilenameToken != 2 || opts.NameOffset != 0 || opts.FunctionSuffix != ")" {
		t.Errorf("unexpected scanner options: %+v", opts)
	}
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Inputs = []string{"report.html"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(*Config) {}, wantErr: nil},
		{name: "several inputs are valid", modify: func(c *Config) { c.Inputs = []string{"a.html", "b.html"} }, wantErr: nil},
		{name: "json format is valid", modify: func(c *Config) { c.Format = FormatJSON }, wantErr: nil},
		{name: "markdown format is valid", modify: func(c *Config) { c.Format = FormatMarkdown }, wantErr: nil},
		{name: "zero name offset is valid", modify: func(c *Config) { c.NameOffset = 0 }, wantErr: nil},
		{name: "empty function suffix is valid", modify: func(c *Config) { c.FunctionSuffix = "" }, wantErr: nil},
		{name: "nil inputs returns ErrNoInput", modify: func(c *Config) { c.Inputs = nil }, wantErr: ErrNoInput},
		{name: "unknown format returns ErrUnknownFormat", modify: func(c *Config) { c.Format = "xml" }, wantErr: ErrUnknownFormat},
		{name: "empty format returns ErrUnknownFormat", modify: func(c *Config) { c.Format = "" }, wantErr: ErrUnknownFormat},
		{name: "zero batch size returns ErrInvalidBatchSize", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: ErrInvalidBatchSize},
		{name: "negative batch size returns ErrInvalidBatchSize", modify: func(c *Config) { c.BatchSize = -1 }, wantErr: ErrInvalidBatchSize},
		{name: "negative name offset returns ErrInvalidNameOffset", modify: func(c *Config) { c.NameOffset = -1 }, wantErr: ErrInvalidNameOffset},
		{name: "empty header suffix returns ErrEmptyHeaderSuffix", modify: func(c *Config) { c.HeaderSuffix = "" }, wantErr: ErrEmptyHeaderSuffix},
		{name: "save without db dir returns ErrNoDBDir", modify: func(c *Config) { c.Save = true; c.DBDir = "" }, wantErr: ErrNoDBDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile("/nonexistent/path/.fnmetrics.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cf != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `format: markdown
save: true
db_dir: /tmp/fnmetrics-history
batch_size: 8
scanner:
  header_suffix: ".kt"
  filename_token: 0
  name_offset: 2
  function_suffix: ")"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.Format != "markdown" {
			t.Errorf("expected format markdown, got %q", cfg.Format)
		}
		if !cfg.Save {
			t.Error("expected save to be true")
		}
		if cfg.DBDir != "/tmp/fnmetrics-history" {
			t.Errorf("expected db dir override, got %q", cfg.DBDir)
		}
		if cfg.BatchSize != 8 {
			t.Errorf("expected batch size 8, got %d", cfg.BatchSize)
		}
		if cfg.HeaderSuffix != ".kt" {
			t.Errorf("expected header suffix .kt, got %q", cfg.HeaderSuffix)
		}
		if cfg.FilenameToken != 0 {
			t.Errorf("expected explicit filename token 0, got %d", cfg.FilenameToken)
		}
		if cfg.NameOffset != 2 {
			t.Errorf("expected name offset 2, got %d", cfg.NameOffset)
		}
		if cfg.FunctionSuffix != ")" {
			t.Errorf("expected function suffix ')', got %q", cfg.FunctionSuffix)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("# nothing set\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		defaults := NewConfig()
		if cfg.Format != defaults.Format || cfg.FilenameToken != defaults.FilenameToken || cfg.NameOffset != defaults.NameOffset {
			t.Errorf("expected defaults to be kept, got %+v", cfg)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests configuration file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("format: json\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.yaml")
		if got := FindConfigFile(missing); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

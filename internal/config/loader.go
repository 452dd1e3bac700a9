package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".fnmetrics.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .fnmetrics.yaml configuration file.
// Pointer fields distinguish "not set" from zero values, so a file can set
// filename_token to 0 or save to false explicitly.
type File struct {
	// Format is the default output format.
	Format string `yaml:"format,omitempty"`

	// Save stores every extraction in the history database.
	Save *bool `yaml:"save,omitempty"`

	// DBDir overrides the history database directory.
	DBDir string `yaml:"db_dir,omitempty"`

	// BatchSize is the number of reports processed concurrently.
	BatchSize int `yaml:"batch_size,omitempty"`

	// Scanner holds the table interpretation settings.
	Scanner ScannerFile `yaml:"scanner,omitempty"`
}

// ScannerFile holds the table interpretation section of the configuration file.
type ScannerFile struct {
	HeaderSuffix   string `yaml:"header_suffix,omitempty"`
	FilenameToken  *int   `yaml:"filename_token,omitempty"`
	NameOffset     *int   `yaml:"name_offset,omitempty"`
	FunctionSuffix string `yaml:"function_suffix,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply overlays the values set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.Format != "" {
		cfg.Format = cf.Format
	}
	if cf.Save != nil {
		cfg.Save = *cf.Save
	}
	if cf.DBDir != "" {
		cfg.DBDir = cf.DBDir
	}
	if cf.BatchSize != 0 {
		cfg.BatchSize = cf.BatchSize
	}
	if cf.Scanner.HeaderSuffix != "" {
		cfg.HeaderSuffix = cf.Scanner.HeaderSuffix
	}
	if cf.Scanner.FilenameToken != nil {
		cfg.FilenameToken = *cf.Scanner.FilenameToken
	}
	if cf.Scanner.NameOffset != nil {
		cfg.NameOffset = *cf.Scanner.NameOffset
	}
	if cf.Scanner.FunctionSuffix != "" {
		cfg.FunctionSuffix = cf.Scanner.FunctionSuffix
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .fnmetrics.yaml in the current directory
// 3. Look for .fnmetrics.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

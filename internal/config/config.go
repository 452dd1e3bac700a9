package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/fnmetrics/internal/scanner"
)

// Output formats understood by the report writers.
const (
	// FormatText prints one "<file>:<function>,<value>" line per record.
	FormatText = "text"

	// FormatJSON prints the extraction, records included, as JSON.
	FormatJSON = "json"

	// FormatMarkdown prints a Markdown table per report.
	FormatMarkdown = "markdown"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "fnmetrics"

	// DefaultFormat keeps the plain record lines other tools consume.
	DefaultFormat = FormatText

	// DefaultBatchSize is the number of reports parsed concurrently by the
	// batch command. Parsing is CPU and memory bound, so a small number
	// keeps large reports from competing for memory.
	DefaultBatchSize = 4
)

// Config holds all configuration options for fnmetrics.
// This struct is populated from defaults, then the configuration file, then
// explicitly set CLI flags, and is passed down rather than kept globally.
//
// Design decision: We use a single flat struct, as the option count is
// small. Scanner settings are converted with ScannerOptions so the scanner
// package does not depend on config.
type Config struct {
	// Inputs are the report files to process. The root command takes
	// exactly one; the batch command takes one or more.
	Inputs []string

	// Format is the output format: text, json or markdown.
	Format string

	// OutputFile is the path the output is written to instead of stdout.
	// Parent directories are created as needed.
	OutputFile string

	// Tee additionally prints records as text on stdout when OutputFile is
	// set. It has no effect on history listings and comparisons.
	Tee bool

	// Verbose enables debug logging of skipped tables and rows.
	Verbose bool

	// LogJSON switches log output on stderr to JSON lines.
	LogJSON bool

	// Save stores every extraction in the history database.
	Save bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/fnmetrics on Linux).
	DBDir string

	// BatchSize is the number of reports processed concurrently in batch mode.
	BatchSize int

	// ConfigFilePath is the path of the configuration file.
	// If empty, the file is searched for in the current directory and then
	// in the XDG config directory.
	ConfigFilePath string

	// HeaderSuffix is the suffix a header must end with to name a source file.
	HeaderSuffix string

	// FilenameToken is the index of the header token used as filename;
	// negative values count from the end.
	FilenameToken int

	// NameOffset is the number of leading runes dropped from the first cell.
	NameOffset int

	// FunctionSuffix is the suffix that marks a first cell as a function.
	FunctionSuffix string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (name offset, token
// index, batch size). This also serves as documentation of the defaults.
func NewConfig() *Config {
	defaults := scanner.DefaultOptions()
	return &Config{
		Format:         DefaultFormat,
		DBDir:          XDGDataDir(),
		BatchSize:      DefaultBatchSize,
		HeaderSuffix:   defaults.HeaderSuffix,
		FilenameToken:  defaults.FilenameToken,
		NameOffset:     defaults.NameOffset,
		FunctionSuffix: defaults.FunctionSuffix,
	}
}

// ScannerOptions returns the table interpretation settings for the scanner.
func (c *Config) ScannerOptions() scanner.Options {
	return scanner.Options{
		HeaderSuffix:   c.HeaderSuffix,
		FilenameToken:  c.FilenameToken,
		NameOffset:     c.NameOffset,
		FunctionSuffix: c.FunctionSuffix,
	}
}

// XDGDataDir returns the XDG data directory for fnmetrics.
// On Linux: ~/.local/share/fnmetrics
// On macOS: ~/Library/Application Support/fnmetrics
// On Windows: %LOCALAPPDATA%\fnmetrics
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for fnmetrics.
// On Linux: ~/.config/fnmetrics
// On macOS: ~/Library/Application Support/fnmetrics
// On Windows: %APPDATA%\fnmetrics
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatMarkdown:
		return true
	default:
		return false
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
//
// Design decision: We validate once after flags and file are merged, so
// errors surface before any report is read.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if !ValidFormat(c.Format) {
		return ErrUnknownFormat
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.NameOffset < 0 {
		return ErrInvalidNameOffset
	}

	// An empty suffix would make every header name a file.
	if c.HeaderSuffix == "" {
		return ErrEmptyHeaderSuffix
	}

	if c.Save && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}

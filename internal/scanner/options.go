package scanner

import "log/slog"

// Default scanner settings. They reproduce the layout written by the Java
// metrics tool whose reports this package reads.
const (
	// DefaultHeaderSuffix is the suffix a header must end with to name a source file.
	DefaultHeaderSuffix = ".java"

	// DefaultFilenameToken selects the last space-separated header token.
	DefaultFilenameToken = -1

	// DefaultNameOffset is the number of leading runes dropped from the first cell.
	DefaultNameOffset = 4

	// DefaultFunctionSuffix marks first cells that describe a function.
	DefaultFunctionSuffix = "()"
)

// Options controls how tables are interpreted.
type Options struct {
	// HeaderSuffix is the literal suffix of header text that names a source file.
	HeaderSuffix string

	// FilenameToken is the index of the header token, split on single spaces,
	// used as filename. Negative values count from the end, so -1 is the
	// last token.
	FilenameToken int

	// NameOffset is the number of runes dropped from the start of the first cell.
	NameOffset int

	// FunctionSuffix is the suffix the trimmed function name must end with.
	FunctionSuffix string
}

// DefaultOptions returns the options matching the standard report layout.
func DefaultOptions() Options {
	return Options{
		HeaderSuffix:   DefaultHeaderSuffix,
		FilenameToken:  DefaultFilenameToken,
		NameOffset:     DefaultNameOffset,
		FunctionSuffix: DefaultFunctionSuffix,
	}
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithOptions replaces all table interpretation settings at once.
func WithOptions(opts Options) Option {
	return func(s *Scanner) {
		s.opts = opts
	}
}

// WithLogger sets the logger used for skipped tables and rows.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

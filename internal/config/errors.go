package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() while still getting human-readable messages.
var (
	// ErrNoInput is returned when no report file is given.
	ErrNoInput = errors.New("no input specified: provide the path of an HTML metrics report")

	// ErrUnknownFormat is returned when the output format is not text, json or markdown.
	ErrUnknownFormat = errors.New("unknown output format: must be text, json or markdown")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidNameOffset is returned when the name offset is negative.
	ErrInvalidNameOffset = errors.New("invalid name offset: must be non-negative")

	// ErrEmptyHeaderSuffix is returned when the header suffix is empty.
	ErrEmptyHeaderSuffix = errors.New("invalid header suffix: must not be empty")

	// ErrNoDBDir is returned when saving is requested without a database directory.
	ErrNoDBDir = errors.New("no database directory: --save needs a history location")
)

package scanner

import "strings"

// HeaderFilename returns the source filename named by header text.
// The second result is false when the text does not name a file: it lacks
// the header suffix, the token index is out of range, or the token is empty.
// Callers treat false as "clear the current filename".
func HeaderFilename(text string, opts Options) (string, bool) {
	if !strings.HasSuffix(text, opts.HeaderSuffix) {
		return "", false
	}

	// Split on single spaces, not strings.Fields: runs of spaces yield
	// empty tokens and shift the index, as in the reports themselves.
	tokens := strings.Split(text, " ")
	idx := opts.FilenameToken
	if idx < 0 {
		idx += len(tokens)
	}
	if idx < 0 || idx >= len(tokens) {
		return "", false
	}

	name := tokens[idx]
	return name, name != ""
}

// FunctionName derives the function name from a row's first cell text.
// The first NameOffset runes are dropped; the remainder is returned as is.
// The second result reports whether the trimmed remainder ends with the
// function suffix, i.e. whether the row describes a function.
func FunctionName(cell string, opts Options) (string, bool) {
	name := dropRunes(cell, opts.NameOffset)
	return name, strings.HasSuffix(strings.TrimSpace(name), opts.FunctionSuffix)
}

// dropRunes removes the first n runes of s.
// It returns an empty string when s has n runes or fewer.
func dropRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}

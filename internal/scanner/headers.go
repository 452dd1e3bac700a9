package scanner

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sourceHeader is the first <h4> written inside a table in the raw markup.
type sourceHeader struct {
	found bool
	text  string
}

// sourceHeaders returns one entry per <table> start tag in content, in
// source order, describing the first <h4> written between that tag and its
// end tag.
//
// The tree builder moves an <h4> that sits directly in a table (outside any
// cell or caption) in front of the table. The token stream still shows where
// the author put it, so the walk consults these entries for tables whose
// parsed subtree has no heading.
func sourceHeaders(content []byte) []sourceHeader {
	var (
		headers []sourceHeader
		open    []int // indexes into headers of the unclosed tables
		target  = -1  // table receiving the text of the current <h4>
		text    strings.Builder
	)

	finish := func() {
		if target >= 0 {
			headers[target] = sourceHeader{found: true, text: text.String()}
			target = -1
		}
	}

	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			finish()
			return headers
		case html.StartTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Table:
				open = append(open, len(headers))
				headers = append(headers, sourceHeader{})
			case atom.H4:
				if target < 0 && len(open) > 0 && !headers[open[len(open)-1]].found {
					target = open[len(open)-1]
					text.Reset()
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.H4:
				finish()
			case atom.Table:
				finish()
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			}
		case html.TextToken:
			if target >= 0 {
				text.Write(z.Text())
			}
		}
	}
}

package model

import (
	"net/url"
	"strings"
)

// DocPath is a resource path in the site layout
// <stemmer>/<vocab>/[<corpus>/]<file>, kept as segments.
type DocPath struct {
	Stemmer string `json:"stemmer,omitempty"`
	Vocab   string `json:"vocab,omitempty"`
	Corpus  string `json:"corpus,omitempty"`
	File    string `json:"file,omitempty"`
}

// ParseDocPath reads the trailing segments of raw. Anything before the
// stemmer segment (scheme, host, mount prefix) is dropped, as are a query
// string and fragment.
func ParseDocPath(raw string) DocPath {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	raw = strings.Trim(raw, "/")
	if raw == "" {
		return DocPath{}
	}

	segs := strings.Split(raw, "/")
	at := func(fromEnd int) string {
		i := len(segs) - fromEnd
		if i < 0 {
			return ""
		}
		return segs[i]
	}

	return DocPath{
		Stemmer: at(4),
		Vocab:   at(3),
		Corpus:  at(2),
		File:    at(1),
	}
}

// String joins the non-empty segments with "/".
func (p DocPath) String() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Stemmer, p.Vocab, p.Corpus, p.File} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Path joins all four segments with fixed separators, empty ones included,
// so each value stays in its layout position.
func (p DocPath) Path() string {
	return strings.Join([]string{p.Stemmer, p.Vocab, p.Corpus, p.File}, "/")
}

// Dir is the path without the file segment.
func (p DocPath) Dir() string {
	p.File = ""
	return p.String()
}

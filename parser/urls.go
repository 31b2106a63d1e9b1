package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Classifier matches discovered URLs against the archive's URL shapes for a
// configured host.
type Classifier struct {
	authorIndexRe *regexp.Regexp
	textPageRe    *regexp.Regexp
}

// NewClassifier compiles the URL patterns for host. An optional "www." prefix
// and both http and https schemes are accepted.
func NewClassifier(host string) (*Classifier, error) {
	quoted := regexp.QuoteMeta(strings.TrimPrefix(host, "www."))

	authorIndexRe, err := regexp.Compile(`^https?://(?:www\.)?` + quoted + `/author/[^/]+/index\.html$`)
	if err != nil {
		return nil, fmt.Errorf("compile author index pattern: %w", err)
	}
	textPageRe, err := regexp.Compile(`^https?://(?:www\.)?` + quoted + `/text/\d+/p\.\d+/index\.html$`)
	if err != nil {
		return nil, fmt.Errorf("compile text page pattern: %w", err)
	}

	return &Classifier{
		authorIndexRe: authorIndexRe,
		textPageRe:    textPageRe,
	}, nil
}

// IsAuthorIndex reports whether u is a per-author listing page
// (.../author/<slug>/index.html).
func (c *Classifier) IsAuthorIndex(u string) bool {
	return c.authorIndexRe.MatchString(u)
}

// IsTextPage reports whether u is a document page
// (.../text/<id>/p.<n>/index.html).
func (c *Classifier) IsTextPage(u string) bool {
	return c.textPageRe.MatchString(u)
}

// WorksListURL derives the "all works" listing URL from an author-index URL
// by substituting the trailing index segment:
//
//	.../author/chekhov/index.html -> .../author/chekhov/l.all/index.html
//
// The substitution is literal and assumes the author-index URL shape never
// varies; a URL of a different shape comes back unchanged or wrong.
func WorksListURL(authorIndexURL string) string {
	return strings.Replace(authorIndexURL, "/index.html", "/l.all/index.html", 1)
}

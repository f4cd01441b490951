// Package extract pulls contribution records out of raw Markdown.
//
// A contribution is a line of the form
//
//	[Display Name](https://matrix.to/#/@user:server) ... shared ...
//
// where one of the configured keywords appears somewhere after the
// link's closing parenthesis.
package extract

import (
	"regexp"
	"strings"
)

// DefaultKeywords mark a line as announcing a user contribution.
var DefaultKeywords = []string{"shared", "said", "contributed"}

// Record is one extracted (user, link) pair for a topic. Never mutated
// after creation.
type Record struct {
	TopicID    int    `db:"topic_id"`
	User       string `db:"user"`
	MatrixLink string `db:"matrix_link"`
}

// Extractor scans raw text line by line for matrix-link contributions.
type Extractor struct {
	re *regexp.Regexp
}

// New builds an extractor for the given keywords. An empty slice falls
// back to DefaultKeywords. Matching is case-insensitive across the whole
// pattern, matrix prefix included.
func New(keywords []string) *Extractor {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}

	pattern := `(?i)\[(.*?)\]\((https://matrix\.to/#/@[^)]+)\).*(` +
		strings.Join(quoted, "|") + `)`
	return &Extractor{re: regexp.MustCompile(pattern)}
}

// Extract returns the contribution records found in raw, one at most per
// physical line (first match only). Non-matching lines are dropped. A
// link and its keyword are never joined across lines.
func (e *Extractor) Extract(topicID int, raw string) []Record {
	var records []Record

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")

		m := e.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		records = append(records, Record{
			TopicID:    topicID,
			User:       m[1],
			MatrixLink: m[2],
		})
	}

	return records
}

// Package search parses forum search queries.
//
// A query is free text mixed with filters:
//
//	in:<category-slug>   restrict to topics in the category
//	by:<user name>       restrict to topics with a post by the user
//
// Filter values may be double-quoted to include spaces: by:"Jane Doe".
package search

import (
	"regexp"
	"strings"
)

var filterRe = regexp.MustCompile(`(?i)\b(in|by):(?:"([^"]*)"|(\S+))`)

// Query is a parsed search query.
type Query struct {
	Text       string
	Categories []string
	Users      []string
}

// Empty reports whether the query has neither text nor filters.
func (q Query) Empty() bool {
	return q.Text == "" && len(q.Categories) == 0 && len(q.Users) == 0
}

// Parse splits raw into text and filters. Filter values are de-duplicated;
// category slugs are lowercased.
func Parse(raw string) Query {
	var q Query
	rest := filterRe.ReplaceAllStringFunc(raw, func(m string) string {
		sub := filterRe.FindStringSubmatch(m)
		// An unclosed quote falls through to the bare form; drop the stray quotes.
		value := strings.TrimSpace(sub[2] + strings.Trim(sub[3], `"`))
		if value == "" {
			return " "
		}
		switch strings.ToLower(sub[1]) {
		case "in":
			q.Categories = appendUnique(q.Categories, strings.ToLower(value))
		case "by":
			q.Users = appendUnique(q.Users, value)
		}
		return " "
	})
	q.Text = strings.Join(strings.Fields(rest), " ")
	return q
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}

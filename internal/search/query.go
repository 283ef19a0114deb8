// Package search ranks a user's bookmarks against a free-text query.
package search

import (
	"strings"
	"unicode"
)

// Query is parsed user input.
type Query struct {
	Raw   string
	Terms []string // space-separated terms

	// A dot switches hostname matching to subdomain mode:
	// "git.lab" matches gitlab hosts only through a "lab*" subdomain fragment.
	HasDot         bool
	HostTerms      []string // terms before the first dot
	SubdomainTerms []string // terms after the first dot
}

// ParseQuery parses input into a Query.
//   - "news daily" -> terms ["news", "daily"]
//   - "jelly.prod" -> host ["jelly"], subdomain ["prod"]
func ParseQuery(input string) *Query {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return &Query{Raw: input}
	}

	q := &Query{Raw: input, HasDot: strings.Contains(input, ".")}
	if !q.HasDot {
		q.Terms = strings.Fields(input)
		q.HostTerms = q.Terms
		return q
	}

	parts := strings.Split(input, ".")
	q.HostTerms = strings.Fields(parts[0])
	for _, p := range parts[1:] {
		q.SubdomainTerms = append(q.SubdomainTerms, strings.Fields(p)...)
	}
	q.Terms = make([]string, 0, len(q.HostTerms)+len(q.SubdomainTerms))
	q.Terms = append(q.Terms, q.HostTerms...)
	q.Terms = append(q.Terms, q.SubdomainTerms...)
	return q
}

// Empty reports whether q has nothing to match.
func (q *Query) Empty() bool { return q == nil || len(q.Terms) == 0 }

// hostFragments splits "jellyfin.srv1.example.com" into its labels.
func hostFragments(host string) []string {
	if host == "" {
		return nil
	}
	return strings.Split(strings.ToLower(host), ".")
}

// normalize keeps only lower-cased letters and digits.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

package search

import (
	"math"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Title equal to the whole query
	ScoreExactTitleBonus = 200.0

	// A term equal to one of the bookmark's tags
	ScoreTagMatch = 60.0

	// Weight of text found only in description or notes
	ScoreTextWeight = 0.25
)

// ScoreBookmark scores b against q; 0 means no match.
func ScoreBookmark(q *Query, b domain.Bookmark) float64 {
	if q.Empty() {
		return 0
	}

	title := scoreTitle(q, strings.ToLower(strings.TrimSpace(b.DisplayTitle())))
	host := scoreHost(q, hostOf(b.URL))
	tags := scoreTags(q, b.Tags)

	total := max(title, host) + tags
	if total == 0 && !q.HasDot {
		total = scoreText(q, strings.ToLower(b.Description+" "+b.Notes))
	}
	return total
}

func scoreTitle(q *Query, title string) float64 {
	if title == "" {
		return 0
	}
	raw := q.Raw
	switch {
	case raw == title:
		return ScoreExactMatch + ScoreExactTitleBonus
	case strings.HasPrefix(title, raw):
		return ScorePrefixMatch
	case strings.Contains(title, raw):
		index := strings.Index(title, raw)
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(index)/float64(len(title)))
	}

	if len(q.Terms) > 1 {
		all := true
		for _, term := range q.Terms {
			if !strings.Contains(title, term) {
				all = false
				break
			}
		}
		if all {
			return ScoreFuzzyMatch
		}
	}

	if sim := similarity(normalize(raw), normalize(title)); sim > 0.5 {
		return ScoreFuzzyMatch * sim
	}
	return 0
}

// scoreHost matches the first hostname label, or with a dot in the query,
// the first label plus at least one subdomain label.
func scoreHost(q *Query, host string) float64 {
	frags := hostFragments(host)
	if len(frags) == 0 {
		return 0
	}

	if !q.HasDot {
		top := frags[0]
		if len(q.Terms) == 1 && normalize(q.Terms[0]) == normalize(top) {
			return ScoreExactMatch + ScorePositionBonus
		}
		var total float64
		for _, term := range q.Terms {
			total += scoreFragment(term, top, 0)
		}
		return total
	}

	if len(q.SubdomainTerms) == 0 || len(frags) < 2 {
		return 0
	}
	var total float64
	for _, term := range q.HostTerms {
		total += scoreFragment(term, frags[0], 0)
	}
	var sub float64
	for _, term := range q.SubdomainTerms {
		best := 0.0
		for i, frag := range frags[1:] {
			best = max(best, scoreFragment(term, frag, i))
		}
		sub += best
	}
	if sub == 0 {
		return 0
	}
	return total + sub
}

func scoreTags(q *Query, tags []string) float64 {
	var total float64
	for _, term := range q.Terms {
		for _, tag := range tags {
			if strings.EqualFold(term, tag) {
				total += ScoreTagMatch
				break
			}
		}
	}
	return total
}

func scoreText(q *Query, text string) float64 {
	var hits int
	for _, term := range q.Terms {
		if strings.Contains(text, term) {
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	return ScoreSubstringMatch * ScoreTextWeight * float64(hits) / float64(len(q.Terms))
}

// scoreFragment scores one query term against one hostname label.
func scoreFragment(term, frag string, position int) float64 {
	term, frag = normalize(term), normalize(frag)
	if term == "" || frag == "" {
		return 0
	}

	switch {
	case term == frag:
		return ScoreExactMatch + positionBonus(position)
	case strings.HasPrefix(frag, term):
		return ScorePrefixMatch + positionBonus(position)
	case strings.Contains(frag, term):
		index := strings.Index(frag, term)
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(index)/float64(len(frag)))
	}

	if sim := similarity(term, frag); sim > 0.5 {
		return ScoreFuzzyMatch * sim
	}
	return 0
}

func positionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// similarity is the share of runes of s1 that also occur in s2.
func similarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0
	}
	n, matches := 0, 0
	for _, c := range s1 {
		n++
		if strings.ContainsRune(s2, c) {
			matches++
		}
	}
	return float64(matches) / float64(n)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

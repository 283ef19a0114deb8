package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		hasDot    bool
		host      []string
		subdomain []string
		terms     []string
	}{
		{name: "simple query without dot", input: "jelly", host: []string{"jelly"}, terms: []string{"jelly"}},
		{name: "multiple terms without dot", input: "  Jelly  Pro ", host: []string{"jelly", "pro"}, terms: []string{"jelly", "pro"}},
		{name: "query with dot", input: "jelly.prod", hasDot: true, host: []string{"jelly"}, subdomain: []string{"prod"}, terms: []string{"jelly", "prod"}},
		{name: "query with dot and spaces", input: "jelly.srv sta", hasDot: true, host: []string{"jelly"}, subdomain: []string{"srv", "sta"}, terms: []string{"jelly", "srv", "sta"}},
		{name: "empty query", input: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuery(tt.input)
			require.Equal(t, tt.hasDot, q.HasDot)
			require.Equal(t, tt.host, q.HostTerms)
			require.Equal(t, tt.subdomain, q.SubdomainTerms)
			require.Equal(t, tt.terms, q.Terms)
		})
	}
}

func TestScoreBookmark(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		bookmark domain.Bookmark
		positive bool
	}{
		{name: "exact title", query: "chatgpt", bookmark: domain.Bookmark{Title: "ChatGPT", URL: "https://chat.openai.com"}, positive: true},
		{name: "title prefix", query: "chat", bookmark: domain.Bookmark{Title: "ChatGPT", URL: "https://openai.com"}, positive: true},
		{name: "no match", query: "xyz", bookmark: domain.Bookmark{Title: "ChatGPT", URL: "https://chat.openai.com"}},
		{name: "multi-word title", query: "docker hub", bookmark: domain.Bookmark{Title: "Hub for Docker", URL: "https://hub.docker.com"}, positive: true},
		{name: "blank title uses url", query: "example", bookmark: domain.Bookmark{URL: "https://example.com"}, positive: true},
		{name: "subdomain match", query: "git.lab", bookmark: domain.Bookmark{Title: "Internal", URL: "https://git.lab.example.com"}, positive: true},
		{name: "dot needs subdomain", query: "git.lab", bookmark: domain.Bookmark{Title: "Code", URL: "https://gitlab.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreBookmark(ParseQuery(tt.query), tt.bookmark)
			if tt.positive {
				require.Positive(t, score)
			} else {
				require.Zero(t, score)
			}
		})
	}
}

func TestScoreBookmark_TagsAndText(t *testing.T) {
	tagged := domain.Bookmark{Title: "Example", URL: "https://example.com", Tags: []string{"News"}}
	require.Equal(t, ScoreTagMatch, ScoreBookmark(ParseQuery("news"), tagged))

	described := domain.Bookmark{Title: "K8s", URL: "https://k8s.io", Description: "notes about Kubernetes"}
	require.Equal(t, ScoreSubstringMatch*ScoreTextWeight, ScoreBookmark(ParseQuery("kubernetes"), described))

	require.Zero(t, ScoreBookmark(ParseQuery(""), tagged))
}

func graph() domain.Graph {
	return domain.Graph{
		{ID: "s1", Name: "Dev", Collections: []domain.Collection{{
			ID: "c1", Name: "Go", Bookmarks: []domain.Bookmark{
				{ID: "b1", Title: "Go Docs", URL: "https://go.dev"},
				{ID: "b2", Title: "Golang Weekly", URL: "https://golangweekly.com"},
			},
		}}},
		{ID: "s2", Name: "Reading", Collections: []domain.Collection{{
			ID: "c2", Name: "News", Bookmarks: []domain.Bookmark{
				{ID: "b3", Title: "Gopher news", URL: "https://news.example.com", Tags: []string{"go"}},
			},
		}}},
	}
}

func ids(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Bookmark.ID
	}
	return out
}

func TestSearch_Ranking(t *testing.T) {
	g := graph()

	hits := Search(g, "go", 0)
	require.Equal(t, []string{"b3", "b1", "b2"}, ids(hits))
	require.Equal(t, "s2", hits[0].SpaceID)
	require.Equal(t, "c2", hits[0].CollectionID)
	require.Equal(t, "News", hits[0].CollectionName)

	require.Equal(t, []string{"b3", "b1"}, ids(Search(g, "go", 2)))
	require.Equal(t, []string{"b1", "b2"}, ids(InSpace(g, "s1", "go", 0)))
}

func TestSearch_Empty(t *testing.T) {
	g := graph()

	hits := Search(g, "  ", 0)
	require.NotNil(t, hits)
	require.Empty(t, hits)

	require.Empty(t, Search(g, "zzzz", 0))
	require.NotNil(t, InSpace(g, "missing", "go", 0))
	require.Empty(t, InSpace(g, "missing", "go", 0))
}

func TestSearch_TiesKeepGraphOrder(t *testing.T) {
	same := domain.Bookmark{Title: "Example", URL: "https://example.com"}
	g := domain.Graph{{ID: "s1", Collections: []domain.Collection{
		{ID: "c1", Bookmarks: []domain.Bookmark{withID(same, "x1")}},
		{ID: "c2", Bookmarks: []domain.Bookmark{withID(same, "x2")}},
	}}}

	require.Equal(t, []string{"x1", "x2"}, ids(Search(g, "example", 0)))
}

func TestSearch_HitsAreCopies(t *testing.T) {
	g := graph()
	hits := Search(g, "gopher", 0)
	require.Len(t, hits, 1)

	hits[0].Bookmark.Tags[0] = "changed"
	require.Equal(t, "go", g[1].Collections[0].Bookmarks[0].Tags[0])
}

func withID(b domain.Bookmark, id string) domain.Bookmark {
	b.ID = id
	return b
}

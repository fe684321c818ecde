package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/sebastiantruijens/movie-tui/internal/fetch"
	"github.com/sebastiantruijens/movie-tui/internal/movies"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		screen   screen
		contains []string
		excludes []string
	}{
		{
			name:     "idle empty query",
			screen:   screen{width: 80},
			contains: []string{"Movie Search", "Search for a movie"},
			excludes: []string{"Search result for:", "No movies found", "Error:"},
		},
		{
			name:     "loading hides empty state",
			screen:   screen{query: "bat", debounced: "bat", status: fetch.StatusLoading, spinner: "*", width: 80},
			contains: []string{"Search result for: bat", "Loading movies"},
			excludes: []string{"Search for a movie", "No movies found"},
		},
		{
			name:     "typed but not yet committed",
			screen:   screen{query: "bat", width: 80},
			contains: []string{"No movies found"},
			excludes: []string{"Search result for:"},
		},
		{
			name: "error replaces label",
			screen: screen{
				query: "bat", debounced: "bat",
				status: fetch.StatusError, err: errors.New("network down"), width: 80,
			},
			contains: []string{"Error: network down"},
			excludes: []string{"Search result for:", "No movies found", "Search for a movie"},
		},
		{
			name: "whitespace query is inactive",
			screen: screen{
				query: "  ", debounced: "  ", width: 80,
			},
			contains: []string{"Search for a movie"},
			excludes: []string{"Search result for:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := ansi.Strip(render(tt.screen))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestRenderGridUsesThreeColumns(t *testing.T) {
	t.Parallel()

	var list []movies.Movie
	for i := 1; i <= 4; i++ {
		list = append(list, movies.Movie{ID: i, Title: fmt.Sprintf("Movie %d", i), ReleaseDate: "2001"})
	}

	out := ansi.Strip(renderGrid(screen{movies: list, width: 100}))
	lines := strings.Split(out, "\n")

	var firstRow, secondRow int
	for i, line := range lines {
		if strings.Contains(line, "Movie 1") {
			firstRow = i
			assert.Contains(t, line, "Movie 2")
			assert.Contains(t, line, "Movie 3")
		}
		if strings.Contains(line, "Movie 4") {
			secondRow = i
		}
	}
	assert.Greater(t, secondRow, firstRow)
}

func TestRenderCardTruncatesTitle(t *testing.T) {
	t.Parallel()

	movie := movies.Movie{Title: strings.Repeat("Long Title ", 10), ReleaseDate: "2010-07-16"}
	out := ansi.Strip(renderCard(movie, minCardWidth, false))

	assert.Contains(t, out, "…")
	assert.Contains(t, out, "2010")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), minCardWidth)
	}
}

func TestRenderDetailsShowsScores(t *testing.T) {
	t.Parallel()

	out := ansi.Strip(renderDetails(movies.Movie{
		Title:         "Heat",
		ReleaseDate:   "1995",
		Overview:      "A sharp and stylish thriller.",
		CriticScore:   "87",
		AudienceScore: "94",
	}, 100))

	assert.Contains(t, out, "Tomatometer")
	assert.Contains(t, out, "87%")
	assert.Contains(t, out, "94%")
	assert.Contains(t, out, "stylish thriller")
	assert.NotContains(t, out, "No overview available")
}

func TestCardWidthBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, minCardWidth, cardWidth(20))
	assert.Equal(t, maxCardWidth, cardWidth(300))
	assert.Equal(t, 24, cardWidth(80))
}

// Package movies provides the movie search providers used by the search screen.
package movies

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sebastiantruijens/movie-tui/internal/config"
)

// ErrUnknownProvider is returned when the configured provider has no client.
var ErrUnknownProvider = errors.New("unknown movie provider")

// Movie represents a movie search result
type Movie struct {
	ID          int
	Title       string
	ReleaseDate string
	Overview    string
	PosterPath  string
	VoteAverage float64
	URL         string

	// Filled in by a Detailer; empty when unknown.
	CriticScore   string
	AudienceScore string
}

var yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

// Year returns the release year, or "N/A" when it is unknown.
func (m Movie) Year() string {
	if matches := yearRe.FindStringSubmatch(m.ReleaseDate); len(matches) > 1 {
		return matches[1]
	}
	return "N/A"
}

// Rating formats the vote average for display.
func (m Movie) Rating() string {
	if m.VoteAverage <= 0 {
		return "–"
	}
	return fmt.Sprintf("★ %.1f", m.VoteAverage)
}

// Client searches a remote movie catalogue.
type Client interface {
	Search(ctx context.Context, query string) ([]Movie, error)
}

// Detailer loads the full record of a search result. Providers whose search
// results are already complete do not implement it.
type Detailer interface {
	Details(ctx context.Context, movie Movie) (Movie, error)
}

// NewClient creates the client for the configured provider
func NewClient(cfg *config.Config) (Client, error) {
	timeout := cfg.RequestTimeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	switch config.NormalizeProvider(cfg.Provider) {
	case config.ProviderTMDB:
		return NewTMDBClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, timeout), nil
	case config.ProviderRottenTomatoes:
		return NewRottenTomatoesClient(rottenTomatoesBaseURL, timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

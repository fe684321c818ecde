package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sebastiantruijens/movie-tui/internal/config"
)

const tmdbPosterBase = "https://image.tmdb.org/t/p/w500"

// TMDBClient handles interactions with The Movie Database API
type TMDBClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewTMDBClient creates a new API client
func NewTMDBClient(baseURL, apiKey string, timeout time.Duration) *TMDBClient {
	if baseURL == "" {
		baseURL = config.DefaultTMDBBaseURL
	}
	return &TMDBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

type tmdbResponse struct {
	Results []tmdbMovie `json:"results"`
}

// Search returns movies matching query. A blank query matches nothing.
func (c *TMDBClient) Search(ctx context.Context, query string) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/search/movie?query=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch movies: %s", resp.Status)
	}

	var payload tmdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode movies: %w", err)
	}

	results := make([]Movie, 0, len(payload.Results))
	for _, m := range payload.Results {
		movie := Movie{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			Overview:    m.Overview,
			VoteAverage: m.VoteAverage,
			URL:         "https://www.themoviedb.org/movie/" + strconv.Itoa(m.ID),
		}
		if m.PosterPath != "" {
			movie.PosterPath = tmdbPosterBase + m.PosterPath
		}
		results = append(results, movie)
	}

	return results, nil
}

package movies

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	rottenTomatoesBaseURL = "https://www.rottentomatoes.com"
	browserUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var (
	urlYearRe   = regexp.MustCompile(`/m/[^/]*_(\d{4})(?:/|$)`)
	titleYearRe = regexp.MustCompile(`\((\d{4})\)$`)
)

// RottenTomatoesClient scrapes the Rotten Tomatoes search page
type RottenTomatoesClient struct {
	baseURL string
	client  *http.Client
}

// NewRottenTomatoesClient creates a new scraping client
func NewRottenTomatoesClient(baseURL string, timeout time.Duration) *RottenTomatoesClient {
	return &RottenTomatoesClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search searches for movies by query term
func (c *RottenTomatoesClient) Search(ctx context.Context, query string) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/search?search=%s", c.baseURL, url.QueryEscape(query))

	doc, err := c.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var results []Movie

	// Newer layout first
	doc.Find("search-page-media-row").Each(func(i int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("[slot=title]").Text())
		if title == "" {
			return
		}

		year := strings.TrimSpace(item.Find("[slot=year]").Text())
		if year == "" {
			year = strings.TrimSpace(item.AttrOr("releaseyear", ""))
		}

		score := strings.TrimSpace(item.AttrOr("tomatometerscore", ""))
		results = append(results, c.toMovie(title, year, item.Find("a").AttrOr("href", ""), score))
	})

	// Older layout fallback
	if len(results) == 0 {
		doc.Find(".findify-components--cards__inner, .js-tile-link, .search__results .poster").Each(func(i int, item *goquery.Selection) {
			title := strings.TrimSpace(item.Find(".movieTitle").Text())
			if title == "" {
				return
			}
			year := strings.TrimSpace(item.Find(".movieYear").Text())
			results = append(results, c.toMovie(title, year, item.Find("a").AttrOr("href", ""), ""))
		})
	}

	return results, nil
}

// fetchDocument downloads and parses a page as a browser would request it.
func (c *RottenTomatoesClient) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	// Create request with headers to mimic a browser
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func (c *RottenTomatoesClient) toMovie(title, year, href, score string) Movie {
	if href != "" && !strings.HasPrefix(href, "http") {
		href = c.baseURL + href
	}

	if year == "" {
		if matches := urlYearRe.FindStringSubmatch(href); len(matches) > 1 {
			year = matches[1]
		} else if matches := titleYearRe.FindStringSubmatch(title); len(matches) > 1 {
			year = matches[1]
		}
	}

	movie := Movie{
		ID:          scrapedID(href, title),
		Title:       title,
		ReleaseDate: year,
		URL:         href,
	}

	// Tomatometer percent mapped onto the 0-10 vote scale
	var pct int
	if _, err := fmt.Sscanf(score, "%d", &pct); err == nil && pct > 0 {
		movie.VoteAverage = float64(pct) / 10
	}

	return movie
}

// scrapedID derives a stable identifier, the search page has no numeric ids.
func scrapedID(href, title string) int {
	h := fnv.New32a()
	if href != "" {
		h.Write([]byte(href))
	} else {
		h.Write([]byte(title))
	}
	return int(h.Sum32() & 0x7fffffff)
}
